package services

import (
	"github.com/njeri-dev/tafsiri/internal/config"
	"github.com/njeri-dev/tafsiri/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RatingScheduler runs a periodic bulk auto-rate pass over contributions that
// have no rating row yet, so manual moderation never starts from a cold corpus.
type RatingScheduler struct {
	ratingService *ContentRatingService
	cfg           *config.RatingConfig
	cronScheduler *cron.Cron
	entryID       cron.EntryID
}

func NewRatingScheduler(ratingService *ContentRatingService, cfg *config.RatingConfig) *RatingScheduler {
	return &RatingScheduler{
		ratingService: ratingService,
		cfg:           cfg,
	}
}

// Start registers the cron entry. No-op when scheduling is disabled.
func (s *RatingScheduler) Start() {
	if !s.cfg.ScheduleEnabled {
		logger.Info().Msg("rating scheduler disabled")
		return
	}

	s.cronScheduler = cron.New()

	entryID, err := s.cronScheduler.AddFunc(s.cfg.ScheduleCron, s.runOnce)
	if err != nil {
		logger.Error().Err(err).Str("cron", s.cfg.ScheduleCron).Msg("failed to schedule auto-rate pass")
		return
	}
	s.entryID = entryID

	s.cronScheduler.Start()
	logger.Info().Str("cron", s.cfg.ScheduleCron).Msg("rating scheduler started")
}

// Stop halts the cron scheduler.
func (s *RatingScheduler) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		logger.Info().Msg("rating scheduler stopped")
	}
}

func (s *RatingScheduler) runOnce() {
	limit := s.cfg.BatchLimit
	if limit <= 0 {
		limit = 200
	}

	result, err := s.ratingService.BulkAutoRate(limit, "")
	if err != nil {
		logger.Error().Err(err).Msg("scheduled auto-rate pass failed")
		return
	}
	logger.Info().Int("rated", result.TotalRated).Int("skipped", result.TotalSkipped).
		Msg("scheduled auto-rate pass completed")
}
