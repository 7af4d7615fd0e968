package service

import (
	"context"
	"time"

	"github.com/sifan077/FoodGram/internal/app/repository"
	"go.uber.org/zap"
)

const defaultFilterRefreshInterval = 5 * time.Minute

// TokenFilterRefresher periodically reloads a TokenFilter from the issued short links,
// picking up tokens created by other instances.
type TokenFilterRefresher struct {
	logger   *zap.Logger
	links    repository.ShortLinkRepository
	filter   TokenFilter
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
}

// NewTokenFilterRefresher creates a refresher. A non-positive interval means five minutes.
func NewTokenFilterRefresher(logger *zap.Logger, links repository.ShortLinkRepository, filter TokenFilter, interval time.Duration) *TokenFilterRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = defaultFilterRefreshInterval
	}
	return &TokenFilterRefresher{
		logger:   logger,
		links:    links,
		filter:   filter,
		interval: interval,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Refresh reloads the filter once.
func (r *TokenFilterRefresher) Refresh(ctx context.Context) error {
	tokens, err := r.links.ListTokens(ctx)
	if err != nil {
		return err
	}
	r.filter.Reset(tokens)
	r.logger.Debug("token filter refreshed", zap.Int("tokens", len(tokens)))
	return nil
}

// Start begins the periodic refresh.
func (r *TokenFilterRefresher) Start() {
	go r.run()
}

// Stop stops the periodic refresh and waits for the loop to exit.
func (r *TokenFilterRefresher) Stop() {
	close(r.stopChan)
	<-r.done
}

func (r *TokenFilterRefresher) run() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.Refresh(context.Background()); err != nil {
				r.logger.Error("failed to refresh token filter", zap.Error(err))
			}
		case <-r.stopChan:
			r.logger.Info("token filter refresher stopped")
			return
		}
	}
}
