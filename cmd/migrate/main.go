package main

import (
	"context"
	"log"
	"time"

	"github.com/fundlane/backend/internal/account"
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

type initializer interface {
	InitializeDatabase(ctx context.Context) error
}

func main() {
	cfg := config.Load()

	database := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	boardRepo := board.NewRepository(database)

	steps := []struct {
		name string
		init initializer
	}{
		{"columns", column.NewRegistry(database)},
		{"donors", donor.NewRepository(database)},
		{"donor column values", donorvalue.NewStore(database)},
		{"boards", boardRepo},
		{"templates", template.NewRepository(database, boardRepo)},
		{"invitations", invitation.NewService(database, nil, "")},
		{"notifications", notification.NewRepository(database)},
		{"accounts", account.NewRepository(database)},
	}

	for _, step := range steps {
		if err := step.init.InitializeDatabase(ctx); err != nil {
			log.Fatalf("Failed to initialize %s: %v", step.name, err)
		}
		log.Printf("Initialized %s", step.name)
	}

	log.Println("Database schema is up to date")
}
