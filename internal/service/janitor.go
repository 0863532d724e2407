package service

import (
	"context"
	"time"

	"auth_portal/internal/metrics"
)

// Logger is the subset of the sugared zap logger the services use.
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

type tokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// TokenJanitor periodically deletes expired refresh tokens.
type TokenJanitor struct {
	purger tokenPurger
	log    Logger
}

func NewTokenJanitor(purger tokenPurger, log Logger) *TokenJanitor {
	return &TokenJanitor{purger: purger, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (j *TokenJanitor) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			j.sweep(ctx)
		}
	}
}

func (j *TokenJanitor) sweep(ctx context.Context) {
	n, err := j.purger.PurgeExpiredTokens(ctx)
	if err == nil && n > 0 {
		metrics.PurgedTokens.Add(float64(n))
	}
	if j.log == nil {
		return
	}
	if err != nil {
		j.log.Errorw("refresh_token_purge_failed", "err", err)
		return
	}
	if n > 0 {
		j.log.Infow("refresh_tokens_purged", "count", n)
	}
}
