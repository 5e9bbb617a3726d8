package main

import (
	"fmt"

	"github.com/wiaanjvr/fluency-next-sub010/internal/config"
	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/internal/outbox"
	"github.com/wiaanjvr/fluency-next-sub010/internal/review"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func newRepository(cfg *config.Config) *deck.YAMLRepository {
	return deck.NewYAMLRepository(cfg.Decks)
}

func newReviewService(cfg *config.Config) *review.Service {
	return review.NewService(newRepository(cfg), srs.NewScheduler(srs.SchedulerConfig{
		LeechThreshold:  cfg.Scheduler.LeechThreshold,
		MaxIntervalDays: cfg.Scheduler.MaxIntervalDays,
	}))
}

func openOutbox(cfg *config.Config) (*outbox.Outbox, error) {
	path := cfg.Outbox.Path
	if path == "" {
		defaultPath, err := outbox.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("outbox.DefaultPath() > %w", err)
		}
		path = defaultPath
	}
	return outbox.Open(path)
}
