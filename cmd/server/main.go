package main

import (
	"fmt"
	"log"

	"medibill/internal/config"
	"medibill/internal/email/noop"
	"medibill/internal/email/ses"
	"medibill/internal/handler"
	"medibill/internal/port"
	"medibill/internal/repository/postgres"
	"medibill/internal/router"
	"medibill/internal/service"
	s3storage "medibill/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	proposalRepo := postgres.NewProposalRepo(db)
	reportRepo := postgres.NewDailyReportRepo(db)
	measurementRepo := postgres.NewMeasurementRepo(db)
	groupRepo := postgres.NewGroupRepo(db)
	billingRepo := postgres.NewBillingRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize notification sender
	var notifier port.NotificationSender
	if cfg.Email.Provider == "ses" {
		notifier, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.BillingTo)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		notifier = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	proposalSvc := service.NewProposalService(proposalRepo)
	measurementSvc := service.NewMeasurementService(reportRepo, measurementRepo, groupRepo, notifier)
	groupSvc := service.NewGroupService(groupRepo, measurementRepo, billingRepo, notifier)
	billingSvc := service.NewBillingService(billingRepo, measurementRepo, groupRepo, s3Client, &cfg.S3)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	proposalH := handler.NewProposalHandler(proposalSvc)
	reportH := handler.NewDailyReportHandler(reportRepo)
	measurementH := handler.NewMeasurementHandler(measurementSvc)
	groupH := handler.NewGroupHandler(groupSvc)
	billingH := handler.NewBillingHandler(billingSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins,
		authH, proposalH, reportH, measurementH, groupH, billingH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
