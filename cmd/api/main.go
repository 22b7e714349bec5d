package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"gstskill/internal/app"
	"gstskill/internal/config"
	"gstskill/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	level := setupLogging(os.Stdout)

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	level.Set(cfg.LogLevel)

	ctx := context.Background()

	skill, closeAll, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("error building skill: %v", err)
	}
	defer closeAll()

	if err := skill.Rates.Reload(ctx); err != nil {
		slog.Error("error loading rate table, will retry on first lookup", "error", err)
	}

	if !cfg.VerifyRequests {
		slog.Warn("request verification disabled via ASK_VERIFY_REQUESTS")
	}

	webhookHandler := handler.NewWebhookHandler(skill.Router, skill.Rates, handler.NewVerifier(cfg.VerifyRequests, cfg.ApplicationID))

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID())

	if len(cfg.CORSAllowedOrigins) > 0 {
		slog.Info("AllowOrigins URL:", "urls", cfg.CORSAllowedOrigins)

		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CORSAllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "X-Request-ID"},
		}))
	}

	r.POST("/", webhookHandler.HandleRequest)
	r.GET("/health", webhookHandler.GetHealth)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// setupLogging installs the JSON default logger before config is read so
// config warnings share the format. The level starts at info.
func setupLogging(w io.Writer) *slog.LevelVar {
	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
	return level
}
