package middleware

import (
	"strings"

	"innerai_backend/internal/logger"
	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"
	"innerai_backend/pkg/apperrors"
	"innerai_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireAuth проверяет "Authorization: Bearer <token>" и кладет личность в контекст.
// Должен стоять после DBMiddleware.
func RequireAuth(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apperrors.HandleError(c, apperrors.ErrUnauthenticated)
			return
		}
		rawToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		db := c.MustGet(string(contextkeys.DBContextKey)).(*gorm.DB).WithContext(c.Request.Context())
		identity, err := authService.Authenticate(db, rawToken)
		if err != nil {
			if appErr, ok := apperrors.AsAppError(err); !ok || appErr.HTTPCode >= 500 {
				logger.CtxWithError(c.Request.Context(), "Authentication failed", err, "path", c.Request.URL.Path)
			}
			apperrors.HandleError(c, err)
			return
		}

		ctx := logger.WithUser(c.Request.Context(), identity.User.Mail)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(contextkeys.AuthUserKey), identity)
		c.Set(string(contextkeys.TokenHashKey), identity.TokenHash)
		c.Next()
	}
}

// CurrentIdentity - личность, положенная RequireAuth
func CurrentIdentity(c *gin.Context) (*dto.AuthIdentity, bool) {
	val, ok := c.Get(string(contextkeys.AuthUserKey))
	if !ok {
		return nil, false
	}
	identity, ok := val.(*dto.AuthIdentity)
	return identity, ok && identity != nil && identity.User != nil
}
