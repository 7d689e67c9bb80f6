package api

import (
	"context"
	"net/http"
	"sync"

	"storefront/config"
	"storefront/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	app     *routes.App
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		logger, err := config.NewLogger(cfg)
		if err != nil {
			logger = zap.NewNop()
		}

		app, initErr = routes.NewApp(context.Background(), cfg, logger)
		if initErr != nil {
			logger.Error("Failed to start application", zap.Error(initErr))
		}
	})
}

// Handler serves the storefront as a serverless function. Sessions live only
// as long as the instance does, so no sweeper runs here.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		http.Error(w, `{"success":false,"message":"Service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	app.Router.ServeHTTP(w, r)
}
