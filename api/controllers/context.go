package controllers

import (
	"context"

	"github.com/angelmondragon/storefront-bff/internal/session"
	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
)

func sessionIDFromContext(ctx context.Context) (string, error) {
	sess, ok := session.FromContext(ctx)
	if !ok || sess.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing")
	}
	return sess.ID, nil
}
