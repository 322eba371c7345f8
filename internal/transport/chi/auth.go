package chi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// RequesterHeader carries the forum uid a trusted caller searches on behalf of.
const RequesterHeader = "X-Forum-Uid"

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type requesterKey struct{}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens and
// records the requester uid from RequesterHeader. If apiKeys is empty,
// authentication is disabled but the requester is still recorded.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var validKeys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			validKeys = append(validKeys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok || len(validKeys) == 0 {
				next.ServeHTTP(w, withRequester(r))
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				reject(w, r, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				reject(w, r, "authorization header must use Bearer scheme")
				return
			}

			if !knownKey(validKeys, []byte(auth[len(bearerPrefix):])) {
				reject(w, r, "invalid api key")
				return
			}

			next.ServeHTTP(w, withRequester(r))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, reason string) {
	annotate(r.Context(), zap.String("auth_error", reason))
	writeError(w, http.StatusUnauthorized, codeUnauthorized, reason)
}

func knownKey(keys [][]byte, token []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, token)
	}
	return found == 1
}

// withRequester stores the requester uid; a missing or malformed header is
// the anonymous uid 0.
func withRequester(r *http.Request) *http.Request {
	uid, err := strconv.ParseInt(r.Header.Get(RequesterHeader), 10, 64)
	if err != nil || uid < 0 {
		uid = 0
	}
	return r.WithContext(context.WithValue(r.Context(), requesterKey{}, uid))
}

// requesterFromContext returns the uid recorded by BearerAuthMiddleware.
func requesterFromContext(ctx context.Context) int64 {
	uid, _ := ctx.Value(requesterKey{}).(int64)
	return uid
}
