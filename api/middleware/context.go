package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
)

// Actor is the authenticated admin or customer behind a request.
type Actor struct {
	UserID string
	Role   enums.UserRole
}

type (
	actorKey   struct{}
	sessionKey struct{}
)

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext reports false for anonymous requests.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

func UserIDFromContext(ctx context.Context) string {
	actor, _ := ActorFromContext(ctx)
	return actor.UserID
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	actor, _ := ActorFromContext(ctx)
	return actor.Role
}

// WithSessionID binds the anonymous cart session resolved by CartSession.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
