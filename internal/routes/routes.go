package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "innerai_backend/docs"
	"innerai_backend/internal/handlers"
	"innerai_backend/internal/logger"
	"innerai_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты под /api, swagger и, если задан, собранный фронтенд
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	requireAuth gin.HandlerFunc,
	staticDir string,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.AuthHandler.RegisterRoutes(api, requireAuth)
		appHandlers.UserHandler.RegisterRoutes(api, requireAuth)
		appHandlers.SubmissionHandler.RegisterRoutes(api, requireAuth)
		appHandlers.MeetingHandler.RegisterRoutes(api, requireAuth)
		appHandlers.OptionHandler.RegisterRoutes(api, requireAuth)
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ginRouter.NoRoute(staticFallback(staticDir))
	if staticDir != "" {
		logger.Info("Serving static frontend", "dir", staticDir)
	}
}

// staticFallback отдает файлы фронтенда; неизвестные пути внутри /api - JSON 404
func staticFallback(staticDir string) gin.HandlerFunc {
	notFound := apperrors.ErrNotFound("http", "Route not found")

	return func(c *gin.Context) {
		if staticDir == "" || strings.HasPrefix(c.Request.URL.Path, "/api") || c.Request.Method != http.MethodGet {
			apperrors.HandleError(c, notFound)
			return
		}

		name := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}
		// SPA: все остальные пути отдают index.html
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
