package middleware

import (
	"context"

	"github.com/google/uuid"
)

// ContextIdentity resolves the signed-in user from the request context. It
// satisfies the cart session's identity port, so anonymous requests simply
// skip the remote mirror.
type ContextIdentity struct{}

// CurrentUserID reports the authenticated user id, if any.
func (ContextIdentity) CurrentUserID(ctx context.Context) (uuid.UUID, bool) {
	principal, ok := CurrentPrincipal(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return principal.UserID, true
}
