package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/coursehub-backend/internal/domain/aggregates"
	"github.com/yungbote/coursehub-backend/internal/domain/learning"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

var (
	// ErrNotEnrolled is returned by every enrollment-gated read or write.
	ErrNotEnrolled = domainagg.Forbidden("", domainagg.ReasonNotEnrolled)
	// ErrNotOwner looks like a missing row on purpose.
	ErrNotOwner = domainagg.NotFound("", "resource")

	ErrUnauthorized = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("authentication required"))
)

// actorFromContext reads the caller installed by the auth middleware.
func actorFromContext(ctx context.Context) (learning.Actor, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return learning.Actor{}, ErrUnauthorized
	}
	role, err := user.ParseRole(rd.Role)
	if err != nil {
		role = user.RoleStudent
	}
	return learning.Actor{ID: rd.UserID, Role: role, IsAdmin: rd.IsAdmin}, nil
}

func notFound(op, what string) error {
	return domainagg.NotFound(op, what)
}

func validation(op, msg string) error {
	return domainagg.Validation(op, msg)
}

func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return err
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	return domainagg.Wrap(domainagg.CodeInternal, op, err)
}
