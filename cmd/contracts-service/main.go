package main

import (
	"fmt"
	"os"

	"github.com/nurpe/workhub-contracts/internal/auth"
	"github.com/nurpe/workhub-contracts/internal/config"
	"github.com/nurpe/workhub-contracts/internal/db"
	"github.com/nurpe/workhub-contracts/internal/excel"
	httphandler "github.com/nurpe/workhub-contracts/internal/http"
	"github.com/nurpe/workhub-contracts/internal/http/middleware"
	"github.com/nurpe/workhub-contracts/internal/logger"
	"github.com/nurpe/workhub-contracts/internal/notify"
	"github.com/nurpe/workhub-contracts/internal/pdf"
	"github.com/nurpe/workhub-contracts/internal/repository"
	"github.com/nurpe/workhub-contracts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	proposalRepo := repository.NewProposalRepository(database)
	milestoneRepo := repository.NewMilestoneRepository(database)

	redisClient := notify.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
	notifier := notify.NewRedisNotifier(redisClient, cfg.Contracts.NotifyChannel)

	acceptanceService := service.NewAcceptanceService(proposalRepo, log)
	milestoneService := service.NewMilestoneService(milestoneRepo, notifier, log, cfg.Contracts.TransitionRetries)
	statementService := service.NewStatementService(milestoneRepo, pdf.NewGenerator(), excel.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(acceptanceService, milestoneService, statementService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
