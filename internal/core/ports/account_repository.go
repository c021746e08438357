package ports

import (
	"context"
	"time"

	"github.com/edulink/school-system/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// RecordLoginFailure persists an incremented failure counter and the
	// attempt timestamp. When deactivate is true the account is switched
	// inactive in the same update.
	RecordLoginFailure(ctx context.Context, username string, attempts int, at time.Time, deactivate bool) error
	// RecordLoginSuccess resets the failure counter and stamps the attempt.
	RecordLoginSuccess(ctx context.Context, username string, at time.Time) error
	// SetTokenRevokedAt stamps the global revocation time for the account,
	// invalidating every credential issued before it.
	SetTokenRevokedAt(ctx context.Context, username string, at time.Time) error
}

// AccountCache is a short-lived read-through cache in front of the account
// repository. Implementations must tolerate a cold or unavailable backend by
// reporting a miss rather than an error where possible.
type AccountCache interface {
	Get(ctx context.Context, username string) (*domain.Account, bool, error)
	Put(ctx context.Context, account *domain.Account) error
	Invalidate(ctx context.Context, username string) error
}
