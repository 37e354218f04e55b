package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundlane/backend/internal/account"
	"github.com/fundlane/backend/internal/api"
	"github.com/fundlane/backend/internal/board"
	"github.com/fundlane/backend/internal/column"
	"github.com/fundlane/backend/internal/config"
	"github.com/fundlane/backend/internal/db"
	"github.com/fundlane/backend/internal/donor"
	"github.com/fundlane/backend/internal/donorvalue"
	"github.com/fundlane/backend/internal/invitation"
	"github.com/fundlane/backend/internal/notification"
	"github.com/fundlane/backend/internal/template"
)

func main() {
	cfg := config.Load()

	database := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer database.Close()

	registry := column.NewRegistry(database)
	values := donorvalue.NewStore(database)
	donorRepo := donor.NewRepository(database)
	lifecycle := column.NewLifecycle(registry, values, donorRepo)
	donorService := donor.NewService(donorRepo, values, registry)
	queryService := donor.NewQueryService(database, values, registry)
	boardRepo := board.NewRepository(database)
	templateRepo := template.NewRepository(database, boardRepo)
	notificationRepo := notification.NewRepository(database)
	accountRepo := account.NewRepository(database)

	mailer := invitation.NewSMTPMailer(invitation.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	invitationService := invitation.NewService(database, mailer, cfg.AccountBaseDomain)

	scheduler, err := notification.StartPurgeJob(notificationRepo)
	if err != nil {
		log.Fatalf("Failed to start notification purge job: %v", err)
	}
	defer scheduler.Stop()

	router := api.SetupRoutes(api.Handlers{
		Columns:       api.NewColumnHandler(registry, lifecycle),
		Donors:        api.NewDonorHandler(donorService, queryService),
		Boards:        api.NewBoardHandler(boardRepo),
		Templates:     api.NewTemplateHandler(templateRepo),
		Invitations:   api.NewInvitationHandler(invitationService),
		Notifications: api.NewNotificationHandler(notificationRepo),
		Accounts:      api.NewAccountHandler(accountRepo),
	}, cfg.AllowedOrigin)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
