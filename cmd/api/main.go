package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/usmoni713/Style-and-Barber/internal/config"
	dbpkg "github.com/usmoni713/Style-and-Barber/internal/db"
	"github.com/usmoni713/Style-and-Barber/internal/logger"
	"github.com/usmoni713/Style-and-Barber/internal/middleware"
	"github.com/usmoni713/Style-and-Barber/internal/routes"
)

func main() {

	log := logger.New()
	defer log.Sync()

	cfg := config.Load()
	if err := cfg.Policy().Validate(); err != nil {
		log.Fatal("invalid schedule policy", zap.Error(err))
	}

	db := dbpkg.NewDB(cfg, log)

	// Redis is optional: without it the slot cache is simply disabled.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, slot cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
