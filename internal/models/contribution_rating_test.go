package models

import "testing"

func TestRatingRank_Order(t *testing.T) {
	ordered := []string{RatingGeneral, RatingParentalGuidance, RatingTeens, RatingMature, RatingAdultOnly}
	for i := 1; i < len(ordered); i++ {
		if RatingRank(ordered[i-1]) >= RatingRank(ordered[i]) {
			t.Errorf("%q should rank below %q", ordered[i-1], ordered[i])
		}
	}
	if RatingRank("unknown") != -1 {
		t.Errorf("unknown rating should rank -1, got %d", RatingRank("unknown"))
	}
}

func TestParseContentRating(t *testing.T) {
	if _, err := ParseContentRating(RatingTeens); err != nil {
		t.Errorf("teens is valid: %v", err)
	}
	if _, err := ParseContentRating("nc17"); err == nil {
		t.Error("ParseContentRating should reject unknown tiers")
	}
}

func TestIsAdultRating(t *testing.T) {
	if IsAdultRating(RatingTeens) {
		t.Error("teens is not adult")
	}
	if !IsAdultRating(RatingMature) || !IsAdultRating(RatingAdultOnly) {
		t.Error("mature and adult_only are adult tiers")
	}
}

func TestParseContentWarning(t *testing.T) {
	if _, err := ParseContentWarning(WarningCulturalSensitive); err != nil {
		t.Errorf("cultural_sensitive is valid: %v", err)
	}
	if _, err := ParseContentWarning("jump_scares"); err == nil {
		t.Error("ParseContentWarning should reject unknown tags")
	}
}

func TestJoinSplitWarnings(t *testing.T) {
	warnings := []string{WarningViolence, WarningPolitical}
	joined := JoinWarnings(warnings)
	split := SplitWarnings(joined)
	if len(split) != 2 || split[0] != WarningViolence || split[1] != WarningPolitical {
		t.Errorf("round trip failed: %v", split)
	}

	if SplitWarnings("") != nil {
		t.Error("empty column should split to nil")
	}
}

func TestContributionRating_Derive(t *testing.T) {
	r := &ContributionRating{
		ContentRating:   RatingMature,
		ContentWarnings: JoinWarnings([]string{WarningViolence}),
	}
	r.Derive()
	if !r.IsAdultContent {
		t.Error("mature rating should derive adult content")
	}
	if !r.RequiresWarning {
		t.Error("warnings present should derive requires_warning")
	}

	r = &ContributionRating{ContentRating: RatingGeneral}
	r.Derive()
	if r.IsAdultContent || r.RequiresWarning {
		t.Error("general rating with no warnings should derive no flags")
	}
}
