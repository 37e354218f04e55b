package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/column"
	"github.com/fundlane/backend/internal/config"
	"github.com/fundlane/backend/internal/db"
	"github.com/fundlane/backend/internal/donor"
	"github.com/fundlane/backend/internal/donorvalue"
	"github.com/fundlane/backend/internal/models"
	"github.com/uptrace/bun"
)

func main() {
	cfg := config.Load()

	database := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	registry := column.NewRegistry(database)
	values := donorvalue.NewStore(database)
	donorRepo := donor.NewRepository(database)
	lifecycle := column.NewLifecycle(registry, values, donorRepo)
	donorService := donor.NewService(donorRepo, values, registry)

	seedColumns(ctx, lifecycle)
	seedDonors(ctx, donorService)
	seedTemplates(ctx, database)

	log.Println("Seed data loaded")
}

func seedColumns(ctx context.Context, lifecycle *column.Lifecycle) {
	tierOptions := json.RawMessage(`{"choices":["Bronze","Silver","Gold","Platinum"]}`)
	contactOptions := json.RawMessage(`{"choices":["Email","Phone","Mail"]}`)

	columns := []column.CreateColumnRequest{
		{ColumnKey: "donation_tier", Title: "Donation Tier", Type: models.ColumnTypeDropdown, Options: &tierOptions},
		{ColumnKey: "preferred_contact", Title: "Preferred Contact", Type: models.ColumnTypeDropdown, Options: &contactOptions},
		{ColumnKey: "last_contacted", Title: "Last Contacted", Type: models.ColumnTypeDate},
		{ColumnKey: "notes", Title: "Notes", Type: models.ColumnTypeText},
		{ColumnKey: "newsletter", Title: "Newsletter", Type: models.ColumnTypeCheckbox},
	}

	for _, req := range columns {
		if _, err := lifecycle.Create(ctx, req); err != nil {
			if apperr.IsDuplicateKey(err) {
				continue
			}
			log.Fatalf("Failed to seed column %s: %v", req.ColumnKey, err)
		}
		log.Printf("Seeded column %s", req.ColumnKey)
	}
}

func seedDonors(ctx context.Context, service *donor.Service) {
	phone := func(s string) *string { return &s }

	donors := []donor.CreateDonorRequest{
		{DonorName: "Miriam Vance", Email: "miriam.vance@example.org", Phone: phone("+1-555-0101"), TotalDonated: 12500, TotalDonations: 8, Status: models.DonorStatusActive},
		{DonorName: "Theo Okafor", Email: "theo.okafor@example.org", Phone: phone("+1-555-0102"), TotalDonated: 250, TotalDonations: 1, Status: models.DonorStatusPotential},
		{DonorName: "Ana Petrov", Email: "ana.petrov@example.org", TotalDonated: 4800, TotalDonations: 12, Status: models.DonorStatusActive},
		{DonorName: "Jules Laurent", Email: "jules.laurent@example.org", Phone: phone("+1-555-0104"), Status: models.DonorStatusInactive},
	}

	for _, req := range donors {
		if _, err := service.Create(ctx, req); err != nil {
			if apperr.IsDuplicateKey(err) {
				continue
			}
			log.Fatalf("Failed to seed donor %s: %v", req.Email, err)
		}
		log.Printf("Seeded donor %s", req.Email)
	}
}

func seedTemplates(ctx context.Context, database *bun.DB) {
	templates := []models.Template{
		{
			TemplateID:  "donor-crm",
			Name:        "Donor CRM",
			Category:    "Nonprofits",
			Description: "Track donors, gifts, and outreach in one board.",
			Creator:     "fundlane",
			BoardStructure: models.BoardStructure{
				Name:     "Donor CRM",
				Columns:  models.DefaultBoardColumns(),
				Settings: models.DefaultBoardSettings(),
			},
			IsActive: true,
		},
		{
			TemplateID:  "grant-pipeline",
			Name:        "Grant Pipeline",
			Category:    "Nonprofits",
			Description: "Move grant applications from research to award.",
			Creator:     "fundlane",
			BoardStructure: models.BoardStructure{
				Name:     "Grant Pipeline",
				Columns:  models.DefaultBoardColumns(),
				Settings: models.DefaultBoardSettings(),
			},
			IsActive: true,
		},
		{
			TemplateID:  "volunteer-onboarding",
			Name:        "Volunteer Onboarding",
			Category:    "HR",
			Description: "Bring new volunteers from signup to first shift.",
			Creator:     "fundlane",
			BoardStructure: models.BoardStructure{
				Name:     "Volunteer Onboarding",
				Columns:  models.DefaultBoardColumns(),
				Settings: models.DefaultBoardSettings(),
			},
			IsActive: true,
		},
	}

	for i := range templates {
		now := time.Now()
		templates[i].CreatedAt = now
		templates[i].UpdatedAt = now

		_, err := database.NewInsert().
			Model(&templates[i]).
			On("CONFLICT (template_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			log.Fatalf("Failed to seed template %s: %v", templates[i].TemplateID, err)
		}
		log.Printf("Seeded template %s", templates[i].TemplateID)
	}
}
