package services

import (
	"testing"

	"github.com/njeri-dev/tafsiri/internal/models"
)

func TestAllowedRatings_Default(t *testing.T) {
	filter := models.DefaultContentFilter(1)

	allowed := AllowedRatings(filter)
	if len(allowed) != 1 || allowed[0] != models.RatingGeneral {
		t.Errorf("the default filter allows only general, got %v", allowed)
	}
}

func TestAllowedRatings_TeensHidesAdult(t *testing.T) {
	filter := &models.ContentFilter{
		MaxContentRating: models.RatingTeens,
		HideAdultContent: true,
	}

	allowed := AllowedRatings(filter)
	for _, rating := range allowed {
		if models.IsAdultRating(rating) {
			t.Errorf("teens filter with hidden adult content must not allow %q", rating)
		}
	}
	if len(allowed) != 3 {
		t.Errorf("expected general, parental_guidance, teens; got %v", allowed)
	}
}

func TestAllowedRatings_MatureCapWithoutHideAdult(t *testing.T) {
	filter := &models.ContentFilter{
		MaxContentRating: models.RatingMature,
		HideAdultContent: false,
	}

	allowed := AllowedRatings(filter)
	if len(allowed) != 4 {
		t.Fatalf("expected 4 tiers up to mature, got %v", allowed)
	}
	for _, rating := range allowed {
		if rating == models.RatingAdultOnly {
			t.Error("adult_only is above the mature cap")
		}
	}
}

func TestAllowedRatings_HideAdultTrumpsMaxRating(t *testing.T) {
	filter := &models.ContentFilter{
		MaxContentRating: models.RatingAdultOnly,
		HideAdultContent: true,
	}

	allowed := AllowedRatings(filter)
	for _, rating := range allowed {
		if models.IsAdultRating(rating) {
			t.Errorf("hide_adult_content must remove %q even under an adult_only cap", rating)
		}
	}
}

func TestAllowedRatings_UnknownMaxRating(t *testing.T) {
	filter := &models.ContentFilter{MaxContentRating: "bogus"}

	allowed := AllowedRatings(filter)
	if len(allowed) != 1 || allowed[0] != models.RatingGeneral {
		t.Errorf("an unknown max rating falls back to general only, got %v", allowed)
	}
}

func TestHasHiddenWarning(t *testing.T) {
	warnings := []string{models.WarningViolence, models.WarningReligious}

	if hasHiddenWarning(warnings, nil) {
		t.Error("no hidden tags means nothing is hidden")
	}
	if !hasHiddenWarning(warnings, []string{models.WarningViolence}) {
		t.Error("violence is in both lists, should be hidden")
	}
	if hasHiddenWarning(warnings, []string{models.WarningPolitical}) {
		t.Error("political is not among the rating's warnings")
	}
}
