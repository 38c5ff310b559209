package middleware

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	origins := append([]string{}, allowedOrigins...)
	if originEnv := os.Getenv("ORIGIN_URL"); originEnv != "" {
		origins = append(origins, originEnv)
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id", RenewedTokenHeader, RenewedExpiryHeader},
		AllowCredentials: true,
	})
}
