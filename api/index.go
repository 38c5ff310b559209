package api

import (
	"context"
	"net/http"
	"sync"

	"storefront/bootstrap"
	"storefront/config"

	"github.com/gin-gonic/gin"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig("")
		if err != nil {
			initErr = err
			return
		}
		// serverless instances have no writable log directory
		cfg.App.LogFile = ""

		app, err := bootstrap.New(context.Background(), cfg)
		if err != nil {
			initErr = err
			return
		}
		router = app.Router
	})
}

// Handler is the serverless entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		http.Error(w, initErr.Error(), http.StatusInternalServerError)
		return
	}
	router.ServeHTTP(w, r)
}
