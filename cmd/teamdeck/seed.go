package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/partofu/teamdeck/internal/catalog"
	"github.com/partofu/teamdeck/internal/config"
	"github.com/partofu/teamdeck/internal/task"
	"github.com/partofu/teamdeck/internal/user"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the initial admin account and demo data",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

const adminEmail = "admin@teamdeck.local"

func price(v float64) *float64 { return &v }

var demoPackages = []catalog.CreatePackageInput{
	{
		Name:        "Brand Starter",
		Category:    "branding",
		Description: "Logo, color palette and a one-page brand guide for new teams.",
		Tiers: []catalog.Tier{
			{
				Name:     "Essential",
				Price:    price(950),
				Features: []string{"Logo design", "Color palette", "Typography selection"},
				Scope:    "2 week turnaround",
				IdealFor: "Early-stage projects",
				Included: []string{"2 revision rounds", "Source files"},
			},
			{
				Name:        "Full Identity",
				Price:       price(2400),
				Features:    []string{"Logo suite", "Brand guide", "Stationery templates"},
				Scope:       "4 week turnaround",
				IdealFor:    "Established teams",
				AddOns:      []string{"Social media kit"},
				Included:    []string{"4 revision rounds", "Source files", "Usage guidelines"},
				NotIncluded: []string{"Website design"},
			},
		},
	},
	{
		Name:        "Website Build",
		Category:    "web",
		Description: "Design and build of a marketing site on a modern stack.",
		Tiers: []catalog.Tier{
			{
				Name:     "Landing Page",
				Price:    price(1800),
				Features: []string{"Single page design", "Responsive build", "Basic analytics"},
				IdealFor: "Product launches",
			},
			{
				Name:     "Custom",
				Price:    nil,
				Features: []string{"Multi-page site", "CMS integration", "Custom features"},
				IdealFor: "Larger engagements",
			},
		},
	},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	userStore := user.NewStore(pool)
	catalogStore := catalog.NewStore(pool)
	taskStore := task.NewStore(pool)

	// Check if seed has already run.
	if _, err := userStore.GetByEmail(ctx, adminEmail); err == nil {
		slog.Info("admin account already exists, skipping seed")
		return nil
	}

	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("generating admin password: %w", err)
	}
	password := hex.EncodeToString(b)

	admin, err := userStore.Register(ctx, user.RegisterInput{
		Email:    adminEmail,
		Password: password,
		Name:     "Admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}
	if err := userStore.SetStatus(ctx, admin.ID, "active"); err != nil {
		return fmt.Errorf("activating admin account: %w", err)
	}
	if err := userStore.SetRole(ctx, admin.ID, "admin"); err != nil {
		return fmt.Errorf("promoting admin account: %w", err)
	}
	slog.Info("created admin account", "id", admin.ID, "email", adminEmail)

	for _, input := range demoPackages {
		id, err := catalogStore.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("creating package %q: %w", input.Name, err)
		}
		slog.Info("created package", "name", input.Name, "id", id)
	}

	taskID, err := taskStore.Create(ctx, task.CreateTaskInput{
		Title:       "Review onboarding checklist",
		Description: "Walk through the dashboard and confirm the seeded data looks right.",
		Priority:    "medium",
		CreatedBy:   admin.ID,
		AssigneeIDs: []int64{admin.ID},
	})
	if err != nil {
		return fmt.Errorf("creating demo task: %w", err)
	}
	slog.Info("created demo task", "id", taskID)

	fmt.Printf("\n=== Seed Complete ===\n")
	fmt.Printf("Admin email:    %s\n", adminEmail)
	fmt.Printf("Admin password: %s\n", password)
	fmt.Printf("\nLog in and change the password under settings:\n")
	fmt.Printf("  curl -X POST http://localhost:8080/api/v1/auth/login -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", adminEmail, password)

	return nil
}
