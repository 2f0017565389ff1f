package middleware

import (
	"net/http"
	"strings"

	"job-portal-backend/internal/delivery/http/response"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

var (
	keyUser   = string(domain.KeyUser)
	keyUserID = string(domain.KeyUserID)
)

// AuthMiddleware requires "Authorization: Bearer <token>" and resolves the
// token subject to an active user.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			response.Abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := apperror.StatusOf(err)
			if status == http.StatusUnauthorized {
				security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
					Event:        security.EventUnauthorizedAccess,
					SubjectType:  "ip",
					SubjectValue: c.ClientIP(),
					IP:           c.ClientIP(),
					UserAgent:    c.GetHeader("User-Agent"),
					RequestID:    c.GetString(response.RequestIDKey),
					Details:      map[string]any{"path": c.FullPath(), "reason": err.Error()},
				})
				c.Header("WWW-Authenticate", "Bearer")
			}
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(keyUser, user)
		c.Set(keyUserID, user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), string(user.Role))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentUser returns the user set by AuthMiddleware, or nil on public routes.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(keyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
