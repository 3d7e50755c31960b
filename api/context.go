package api

import (
	"context"
	"errors"

	"portfolio-backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser attaches the authenticated, sanitized user to the context
func ctxWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the authenticated user from the context
func ctxGetUser(ctx context.Context) (models.User, error) {
	value := ctx.Value(userKey)
	if value == nil {
		return models.User{}, errors.New("no authenticated user in context")
	}
	user, ok := value.(models.User)
	if !ok {
		return models.User{}, errors.New("context user has unexpected type")
	}
	return user, nil
}
