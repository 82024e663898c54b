package main

import (
	"context"
	"log"

	"github.com/salestrainer-team/sales-trainer/internal/adapter/repository"
	"github.com/salestrainer-team/sales-trainer/internal/domain/entities"
	"github.com/salestrainer-team/sales-trainer/internal/infrastructure/database"
	meetingUsecase "github.com/salestrainer-team/sales-trainer/internal/usecase/meeting"
	"github.com/salestrainer-team/sales-trainer/pkg/config"
)

// Seeds a demo meeting with a full three-persona roster for local testing.
func main() {
	log.Println("🚀 Seeding demo meeting...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	meetingRepo := repository.NewMeetingRepository(db)
	meetingService := meetingUsecase.NewService(meetingRepo, nil, nil)

	meeting, err := meetingService.Create(context.Background(), meetingUsecase.CreateMeetingInput{
		Title: "Demo: CRM Suite pitch to Acme Fintech",
		Goal:  "Close a pilot deal for the analytics add-on",
		Product: entities.ProductContext{
			Name:        "CRM Suite",
			Description: "Pipeline management with built-in conversation analytics",
		},
		Company: entities.CompanyContext{
			URL:      "https://acme.example.com",
			Industry: "fintech",
			Size:     "200-500",
			Revenue:  "$40M",
		},
		Personas: []meetingUsecase.PersonaSpec{
			{
				DisplayName:     "Sarah Chen",
				Role:            entities.PersonaRoleCFO,
				Traits:          []string{"cold_hearted", "analytical"},
				IsDecisionMaker: true,
				TenureMonths:    48,
			},
			{
				DisplayName:  "Mike Torres",
				Role:         entities.PersonaRoleCTO,
				Traits:       []string{"analytical"},
				TenureMonths: 30,
			},
			{
				DisplayName:  "Priya Nair",
				Role:         entities.PersonaRoleVPSales,
				Traits:       []string{"nice", "cool"},
				TenureMonths: 18,
			},
		},
	})
	if err != nil {
		log.Fatalf("Failed to seed meeting: %v", err)
	}

	log.Printf("✅ Seeded meeting %s with %d personas", meeting.ID, len(meeting.Personas))
	log.Printf("👉 Start it with: POST /v1/meetings/%s/start", meeting.ID)
}
