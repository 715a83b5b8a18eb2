package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"carewell-server/cache"
	"carewell-server/config"
	"carewell-server/db"
	"carewell-server/jobs"
	"carewell-server/mailer"
	"carewell-server/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()
	client, database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer client.Disconnect(ctx)

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := db.NewUserStore(database).EnsureIndexes(indexCtx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure user indexes")
	}
	cancel()

	c := cache.New(cfg.Redis)
	defer c.Close()

	mail := mailer.New(cfg.SMTP, log.Logger)
	defer mail.Close()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	app := routes.Routes(r, cfg, client, database, c, mail)

	sweeper, err := jobs.Start(cfg.SweepSchedule, app.Appointments)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("failed to start sweep job")
	}
	defer sweeper.Stop()

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
