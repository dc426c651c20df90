package main

import (
	"context"

	"github.com/njeri-dev/tafsiri/internal/config"
	"github.com/njeri-dev/tafsiri/internal/handlers"
	"github.com/njeri-dev/tafsiri/internal/models"
	"github.com/njeri-dev/tafsiri/internal/services"
	"github.com/njeri-dev/tafsiri/internal/utils"
	"github.com/njeri-dev/tafsiri/pkg/logger"
)

// spellCorpusLimit caps how many approved translations seed the spell
// checker's frequency table at startup.
const spellCorpusLimit = 5000

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	analyzer        *services.QualityAnalyzer
	moderation      *services.ModerationService
	ratingService   *services.ContentRatingService
	ratingScheduler *services.RatingScheduler
	taskQueue       services.TaskQueue
	worker          *services.Worker
	authHandler     *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default categories and system configs
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	// Initialize system logger
	services.InitSystemLogger(models.GetDB())

	// Start system log cleanup scheduler
	services.StartLogCleanupScheduler(models.GetDB())

	// Train the spell checker on the approved Kikuyu corpus
	spell := services.NewSpellChecker(cfg.QA.FuzzySuggestThreshold)
	contributionService := services.NewContributionService(models.GetDB())
	if texts, err := contributionService.ApprovedTexts(spellCorpusLimit); err != nil {
		logger.Warn().Err(err).Msg("Failed to load spell checker corpus")
	} else {
		spell.LoadFromCorpus(texts)
		logger.Info().Int("vocabulary", spell.VocabularySize()).Msg("spell checker trained")
	}

	// Quality analysis and moderation pipeline
	heuristics := services.NewTextHeuristics(spell, &cfg.QA)
	analyzer := services.NewQualityAnalyzer(models.GetDB(), heuristics, &cfg.QA)
	moderation := services.NewModerationService(models.GetDB(), analyzer)

	// Content rating pipeline
	classifier := services.NewContentClassifier()
	ratingService := services.NewContentRatingService(models.GetDB(), classifier)

	autoRate := func(ctx context.Context, task *services.AutoRateTask) error {
		_, err := ratingService.AutoRate(task.ContributionID)
		return err
	}

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(autoRate)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(autoRate)
			worker.Start()
		}
	}

	// Start nightly auto-rate scheduler
	ratingScheduler := services.NewRatingScheduler(ratingService, &cfg.Rating)
	ratingScheduler.Start()

	// Create default admin user
	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		analyzer:        analyzer,
		moderation:      moderation,
		ratingService:   ratingService,
		ratingScheduler: ratingScheduler,
		taskQueue:       taskQueue,
		worker:          worker,
		authHandler:     authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.ratingScheduler.Stop()
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
