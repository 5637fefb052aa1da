package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"imagevault/auth"
	"imagevault/images/application"
	"imagevault/images/persistence"
	"imagevault/internal/config"
	"imagevault/internal/middleware"
	"imagevault/internal/rest"
	"imagevault/shared/db/sqlite"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig())
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	googleVerifier, err := auth.NewGoogleVerifier(context.Background(), cfg.GoogleClientID, cfg.GoogleJWKSURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Google verifier")
	}

	facebookVerifier, err := auth.NewFacebookVerifier(cfg.FacebookAppID, cfg.FacebookAppSecret, cfg.FacebookGraphURL, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Facebook verifier")
	}

	resolver := auth.NewResolver(googleVerifier, facebookVerifier)

	imageRepo := persistence.NewImageRepository(database.DB())
	imageService := application.NewImageService(imageRepo)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.Use(middleware.Authentication(resolver))

	rest.NewApi(router, rest.NewImageHandler(imageService))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + fmt.Sprint(cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
