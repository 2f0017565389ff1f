package v1

import (
	"job-portal-backend/internal/delivery/http/middleware"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// bindError turns a binding failure into a 400 carrying per-field messages.
func bindError(err error) *apperror.AppError {
	return apperror.Validation("Validation failed", validation.FieldErrors(err))
}

// actor returns the authenticated user; only call it behind AuthMiddleware.
func actor(c *gin.Context) *domain.User {
	return middleware.CurrentUser(c)
}

// allowed answers the role question before a request body is read, so a
// caller with the wrong role gets 403 rather than a parse error. Ownership is
// still checked by the usecase.
func allowed(c *gin.Context, kind domain.ResourceKind, action domain.Action, denied string) bool {
	if domain.CanAccess(actor(c), domain.Resource{Kind: kind}, action) {
		return true
	}
	c.Error(apperror.Forbidden(denied))
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
