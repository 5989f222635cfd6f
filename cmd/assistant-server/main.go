// cmd/assistant-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"phone-assistant/internal/catalog"
	"phone-assistant/internal/common/config"
	"phone-assistant/internal/common/database"
	apperrors "phone-assistant/internal/common/errors"
	"phone-assistant/internal/common/genai"
	"phone-assistant/internal/common/logger"
	"phone-assistant/internal/common/observability"
	"phone-assistant/internal/handler"
	"phone-assistant/internal/service"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting assistant server", map[string]interface{}{
		"version":     Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := loadCatalog(ctx, cfg, log)
	if err != nil {
		loadErr := apperrors.NewCatalogLoadError(err.Error())
		log.Error("catalog load failed", map[string]interface{}{
			"code":  loadErr.Code,
			"error": loadErr.Details,
		})
		os.Exit(1)
	}
	log.Info("catalog loaded", map[string]interface{}{
		"phones": store.Len(),
		"source": cfg.Catalog.Source,
	})

	var cache *database.RedisClient
	if cfg.Cache.Enabled {
		cache, err = database.NewRedis(cfg.Cache)
		if err == nil {
			if pingErr := cache.Ping(ctx); pingErr != nil {
				log.Warn("redis unreachable, continuing without reply cache", map[string]interface{}{
					"error": pingErr.Error(),
				})
				cache.Close()
				cache = nil
			}
		}
		if cache != nil {
			defer cache.Close()
			log.Info("reply cache enabled", map[string]interface{}{"address": cfg.Cache.Address})
		}
	}

	gen := genai.NewClient(ctx, cfg.GenAI, log)
	if gen != nil {
		defer gen.Close()
		log.Info("generation collaborator enabled", map[string]interface{}{"model": cfg.GenAI.Model})
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	chatService := service.NewChatService(cfg, store, cache, gen, obs, log)

	router := buildRouter(cfg, store, chatService, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		log.Info("listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}

// loadCatalog picks the configured catalog source. The postgres client
// is only needed during the load: records are immutable afterwards.
func loadCatalog(ctx context.Context, cfg *config.Config, log logger.Logger) (*catalog.Store, error) {
	switch cfg.Catalog.Source {
	case "postgres":
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, err
		}
		defer pg.Close()
		if err := pg.Ping(ctx); err != nil {
			return nil, err
		}
		return catalog.NewStoreFromPostgres(ctx, pg.GetDB())
	default:
		return catalog.NewStoreFromFile(cfg.Catalog.Path)
	}
}

func buildRouter(cfg *config.Config, store *catalog.Store, chatService *service.ChatService, log logger.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.Server.AllowedOrigins == "*" || cfg.Server.AllowedOrigins == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	chatHandler := handler.NewChatHandler(chatService, log)
	healthHandler := handler.NewHealthHandler(store, Version)

	router.POST("/api/chat", chatHandler.Chat)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
