package usecase

import (
	"context"

	"orderdesk/internal/domain/entity"

	"github.com/google/uuid"
)

// StatsUsecase defines the interface for per-user order statistics.
type StatsUsecase interface {
	// OrderStats returns the user's order counts by status plus the total
	// and average price of DONE orders. ADMIN may query any user; everyone
	// else only themselves.
	OrderStats(ctx context.Context, principal entity.Principal, userID uuid.UUID) (*entity.OrderStats, error)
}
