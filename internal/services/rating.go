package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/pkg/logger"
	"github.com/njeri-dev/tafsiri/pkg/response"
	"gorm.io/gorm"
)

// ContentRatingService manages the rating lifecycle: manual and automatic
// rating, re-rating with audit trail, per-user content filtering and
// rating statistics.
type ContentRatingService struct {
	db         *gorm.DB
	classifier *ContentClassifier
}

func NewContentRatingService(db *gorm.DB, classifier *ContentClassifier) *ContentRatingService {
	return &ContentRatingService{db: db, classifier: classifier}
}

// AnalyzeText runs the classifier without touching the database.
func (s *ContentRatingService) AnalyzeText(sourceText, targetText, contextNotes string) ClassificationResult {
	return s.classifier.Classify(sourceText, targetText, contextNotes)
}

// RateRequest carries one rating decision, manual or automatic.
type RateRequest struct {
	ContributionID uint
	ContentRating  string
	Warnings       []string
	Reason         string
	ReviewerID     *uint
	AutoRated      bool
	Confidence     int // 0–100
}

// Rate upserts the rating row for a contribution. When a prior rating exists,
// its state is written to the content audit log before being overwritten.
func (s *ContentRatingService) Rate(req *RateRequest) (*models.ContributionRating, error) {
	if _, err := models.ParseContentRating(req.ContentRating); err != nil {
		return nil, response.NewBadRequest(err.Error())
	}
	for _, w := range req.Warnings {
		if _, err := models.ParseContentWarning(w); err != nil {
			return nil, response.NewBadRequest(err.Error())
		}
	}

	var contribution models.Contribution
	if err := s.db.First(&contribution, req.ContributionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("contribution %d not found", req.ContributionID))
		}
		return nil, err
	}

	newWarnings := models.JoinWarnings(req.Warnings)

	var rating models.ContributionRating
	err := s.db.Where("contribution_id = ?", req.ContributionID).First(&rating).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.ContributionRating{ContributionID: req.ContributionID}
	case err != nil:
		return nil, err
	default:
		// Re-rating: capture the prior state first.
		audit := models.ContentAuditLog{
			ContributionID: req.ContributionID,
			ChangedBy:      req.ReviewerID,
			OldRating:      rating.ContentRating,
			NewRating:      req.ContentRating,
			OldWarnings:    rating.ContentWarnings,
			NewWarnings:    newWarnings,
			Reason:         req.Reason,
		}
		if err := s.db.Create(&audit).Error; err != nil {
			return nil, err
		}
	}

	rating.ContentRating = req.ContentRating
	rating.ContentWarnings = newWarnings
	rating.RatingReason = req.Reason
	rating.RatedBy = req.ReviewerID
	rating.AutoRated = req.AutoRated
	rating.RatingConfidence = req.Confidence
	rating.Derive()

	if err := s.db.Save(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// AutoRate classifies a contribution's text and stores the result as an
// automatic rating.
func (s *ContentRatingService) AutoRate(contributionID uint) (*models.ContributionRating, error) {
	var contribution models.Contribution
	if err := s.db.First(&contribution, contributionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(fmt.Sprintf("contribution %d not found", contributionID))
		}
		return nil, err
	}

	result := s.classifier.Classify(contribution.SourceText, contribution.TargetText, contribution.ContextNotes)

	return s.Rate(&RateRequest{
		ContributionID: contributionID,
		ContentRating:  result.Rating,
		Warnings:       result.Warnings,
		Reason:         fmt.Sprintf("automatic classification (confidence %.2f)", result.Confidence),
		AutoRated:      true,
		Confidence:     int(math.Round(result.Confidence * 100)),
	})
}

// BulkAutoRateResult reports how many contributions landed in each tier.
type BulkAutoRateResult struct {
	TotalRated   int            `json:"total_rated"`
	ByRating     map[string]int `json:"by_rating"`
	Errors       []string       `json:"errors"`
	TotalSkipped int            `json:"total_skipped"`
}

// BulkAutoRate rates up to limit contributions of the given status that have
// no rating row yet. Continues past individual failures.
func (s *ContentRatingService) BulkAutoRate(limit int, statusFilter string) (*BulkAutoRateResult, error) {
	status := statusFilter
	if status == "" {
		status = models.StatusApproved
	}
	if _, err := models.ParseStatus(status); err != nil {
		return nil, response.NewBadRequest(err.Error())
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	// Anti-join: contributions with no rating row.
	var ids []uint
	if err := s.db.Model(&models.Contribution{}).
		Joins("LEFT JOIN contribution_ratings ON contribution_ratings.contribution_id = contributions.id").
		Where("contributions.status = ? AND contribution_ratings.id IS NULL", status).
		Order("contributions.created_at").
		Limit(limit).
		Pluck("contributions.id", &ids).Error; err != nil {
		return nil, err
	}

	result := &BulkAutoRateResult{ByRating: map[string]int{}}
	for _, id := range ids {
		rating, err := s.AutoRate(id)
		if err != nil {
			result.TotalSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("contribution %d: %v", id, err))
			continue
		}
		result.TotalRated++
		result.ByRating[rating.ContentRating]++
	}

	logger.Info().Int("rated", result.TotalRated).Int("skipped", result.TotalSkipped).
		Str("status", status).Msg("bulk auto-rate completed")
	return result, nil
}

// AllowedRatings returns the rating tiers a filter permits: every tier at or
// below the max, with adult tiers removed when the filter hides adult content.
// Unrated contributions count as general.
func AllowedRatings(filter *models.ContentFilter) []string {
	maxRank := models.RatingRank(filter.MaxContentRating)
	if maxRank < 0 {
		maxRank = 0
	}

	all := []string{
		models.RatingGeneral,
		models.RatingParentalGuidance,
		models.RatingTeens,
		models.RatingMature,
		models.RatingAdultOnly,
	}

	var allowed []string
	for _, rating := range all {
		if models.RatingRank(rating) > maxRank {
			continue
		}
		if filter.HideAdultContent && models.IsAdultRating(rating) {
			continue
		}
		allowed = append(allowed, rating)
	}
	return allowed
}

// hasHiddenWarning reports whether any of the rating's warnings is hidden.
func hasHiddenWarning(warnings []string, hidden []string) bool {
	if len(hidden) == 0 {
		return false
	}
	hiddenSet := make(map[string]bool, len(hidden))
	for _, h := range hidden {
		hiddenSet[h] = true
	}
	for _, w := range warnings {
		if hiddenSet[w] {
			return true
		}
	}
	return false
}

// FilteredContribution pairs a contribution with its rating for filtered listing.
type FilteredContribution struct {
	models.Contribution
	ContentRating   string   `json:"content_rating"`
	ContentWarnings []string `json:"content_warnings,omitempty"`
}

// FilteredListResponse is a page of contributions visible to the user.
type FilteredListResponse struct {
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Items    []FilteredContribution `json:"items"`
}

// GetFilter returns the user's content filter, or the most restrictive default
// when none is configured.
func (s *ContentRatingService) GetFilter(userID uint) *models.ContentFilter {
	var filter models.ContentFilter
	if err := s.db.Where("user_id = ?", userID).First(&filter).Error; err != nil {
		return models.DefaultContentFilter(userID)
	}
	return &filter
}

// SetFilter upserts the user's content filter.
func (s *ContentRatingService) SetFilter(userID uint, maxRating string, hideAdult bool, hiddenWarnings []string) (*models.ContentFilter, error) {
	if _, err := models.ParseContentRating(maxRating); err != nil {
		return nil, response.NewBadRequest(err.Error())
	}
	for _, w := range hiddenWarnings {
		if _, err := models.ParseContentWarning(w); err != nil {
			return nil, response.NewBadRequest(err.Error())
		}
	}

	var filter models.ContentFilter
	err := s.db.Where("user_id = ?", userID).First(&filter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		filter = models.ContentFilter{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	filter.MaxContentRating = maxRating
	filter.HideAdultContent = hideAdult
	filter.HiddenWarnings = models.JoinWarnings(hiddenWarnings)

	if err := s.db.Save(&filter).Error; err != nil {
		return nil, err
	}
	return &filter, nil
}

// FilteredContributions returns a page of contributions the user's content
// filter allows. Unrated contributions are treated as general and always pass
// the tier check; warning-based hiding is applied after the page is fetched.
func (s *ContentRatingService) FilteredContributions(userID uint, page, limit int, statusFilter string) (*FilteredListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	status := statusFilter
	if status == "" {
		status = models.StatusApproved
	}
	if _, err := models.ParseStatus(status); err != nil {
		return nil, response.NewBadRequest(err.Error())
	}

	filter := s.GetFilter(userID)
	allowed := AllowedRatings(filter)

	query := s.db.Model(&models.Contribution{}).
		Joins("LEFT JOIN contribution_ratings ON contribution_ratings.contribution_id = contributions.id").
		Where("contributions.status = ?", status).
		Where("contribution_ratings.content_rating IN ? OR contribution_ratings.id IS NULL", allowed)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var contributions []models.Contribution
	if err := query.
		Select("contributions.*").
		Preload("Categories").
		Offset((page - 1) * limit).
		Limit(limit).
		Order("contributions.created_at DESC").
		Find(&contributions).Error; err != nil {
		return nil, err
	}

	hidden := filter.HiddenWarningList()
	items := make([]FilteredContribution, 0, len(contributions))
	for i := range contributions {
		c := contributions[i]

		var rating models.ContributionRating
		ratingTier := models.RatingGeneral
		var warnings []string
		if err := s.db.Where("contribution_id = ?", c.ID).First(&rating).Error; err == nil {
			ratingTier = rating.ContentRating
			warnings = rating.Warnings()
		}

		if hasHiddenWarning(warnings, hidden) {
			continue
		}

		items = append(items, FilteredContribution{
			Contribution:    c,
			ContentRating:   ratingTier,
			ContentWarnings: warnings,
		})
	}

	return &FilteredListResponse{
		Total:    total,
		Page:     page,
		PageSize: limit,
		Items:    items,
	}, nil
}

// RatingStatistics summarizes the rating state of the corpus.
type RatingStatistics struct {
	TotalRated    int64            `json:"total_rated"`
	TotalUnrated  int64            `json:"total_unrated"`
	ByRating      map[string]int64 `json:"by_rating"`
	AutoRated     int64            `json:"auto_rated"`
	ManuallyRated int64            `json:"manually_rated"`
	AdultContent  int64            `json:"adult_content"`
	ByWarning     map[string]int64 `json:"by_warning"`
}

// Statistics computes corpus-wide rating counts.
func (s *ContentRatingService) Statistics() (*RatingStatistics, error) {
	stats := &RatingStatistics{
		ByRating:  map[string]int64{},
		ByWarning: map[string]int64{},
	}

	if err := s.db.Model(&models.ContributionRating{}).Count(&stats.TotalRated).Error; err != nil {
		return nil, err
	}

	var totalContributions int64
	if err := s.db.Model(&models.Contribution{}).Count(&totalContributions).Error; err != nil {
		return nil, err
	}
	stats.TotalUnrated = totalContributions - stats.TotalRated

	type ratingCount struct {
		ContentRating string
		Count         int64
	}
	var perRating []ratingCount
	if err := s.db.Model(&models.ContributionRating{}).
		Select("content_rating, count(*) as count").
		Group("content_rating").
		Scan(&perRating).Error; err != nil {
		return nil, err
	}
	for _, rc := range perRating {
		stats.ByRating[rc.ContentRating] = rc.Count
	}

	s.db.Model(&models.ContributionRating{}).Where("auto_rated = ?", true).Count(&stats.AutoRated)
	stats.ManuallyRated = stats.TotalRated - stats.AutoRated
	s.db.Model(&models.ContributionRating{}).Where("is_adult_content = ?", true).Count(&stats.AdultContent)

	// Warning tags are comma-joined in one column; tally them in Go.
	var rated []models.ContributionRating
	if err := s.db.Select("content_warnings").
		Where("content_warnings <> ''").
		Find(&rated).Error; err != nil {
		return nil, err
	}
	for i := range rated {
		for _, w := range rated[i].Warnings() {
			stats.ByWarning[w]++
		}
	}

	return stats, nil
}
