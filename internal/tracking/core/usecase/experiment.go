package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/ports"
)

var ErrBucketStore = errors.New("bucket store unavailable")

// ExperimentAssigner puts a client into a group for experiment 1 the first
// time it is seen and keeps that group afterwards.
type ExperimentAssigner struct {
	store  ports.BucketStore
	coin   func() float64
	logger *slog.Logger
}

func NewExperimentAssigner(store ports.BucketStore, logger *slog.Logger) *ExperimentAssigner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExperimentAssigner{
		store:  store,
		coin:   rand.Float64,
		logger: logger,
	}
}

// WithCoin replaces the coin flip; for tests.
func (a *ExperimentAssigner) WithCoin(coin func() float64) *ExperimentAssigner {
	a.coin = coin
	return a
}

// Setup returns the client's group, assigning and persisting one if the
// client has none yet.
func (a *ExperimentAssigner) Setup(ctx context.Context, scope string) (domain.Group, error) {
	existing, found, err := a.store.GetItem(ctx, scope, domain.ExperimentKey)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrBucketStore, domain.ExperimentKey, err)
	}
	if found && existing != "" {
		a.logger.Info(fmt.Sprintf("User already has a group: %s", existing), "client_id", scope)
		return domain.Group(existing), nil
	}

	group := domain.GroupForCoin(a.coin())
	if err := a.store.SetItem(ctx, scope, domain.ExperimentKey, string(group)); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrBucketStore, domain.ExperimentKey, err)
	}
	a.logger.Info(fmt.Sprintf("Group for experiment 1 set to %s", group), "client_id", scope)
	return group, nil
}
