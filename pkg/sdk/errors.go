package forumsearch

import "github.com/kailas-cloud/forumsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery  = domain.ErrInvalidQuery
	ErrUnknownDomain = domain.ErrUnknownDomain
	ErrHookFailed    = domain.ErrHookFailed
)
