package main

import (
	"fmt"
	"os"

	"github.com/rudybnb/payroll-service/internal/auth"
	"github.com/rudybnb/payroll-service/internal/config"
	"github.com/rudybnb/payroll-service/internal/db"
	"github.com/rudybnb/payroll-service/internal/excel"
	httphandler "github.com/rudybnb/payroll-service/internal/http"
	"github.com/rudybnb/payroll-service/internal/http/middleware"
	"github.com/rudybnb/payroll-service/internal/logger"
	"github.com/rudybnb/payroll-service/internal/payroll"
	"github.com/rudybnb/payroll-service/internal/pdf"
	"github.com/rudybnb/payroll-service/internal/repository"
	"github.com/rudybnb/payroll-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	policy, err := payroll.PolicyFromConfig(cfg.Payroll)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid payroll policy")
	}

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	repo := repository.NewPayrollRepository(database)
	earningsService := service.NewEarningsService(repo, excel.NewGenerator(), pdf.NewGenerator(), policy)
	sessionService := service.NewSessionService(repo, policy, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(earningsService, sessionService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting payroll service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
