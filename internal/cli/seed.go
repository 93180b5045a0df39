package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/config"
	"learnquiz-service/internal/infra/memory"
	"learnquiz-service/internal/infra/postgres"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@example.com"
	demoPassword = "demo1234"
)

// NewSeedCmd loads the sample catalog and a demo account into postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample catalog data and a demo user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := postgres.Open(cfg.Postgres.URL)
	defer db.Close()

	disciplines, quizzes := memory.SampleCatalog()
	if err := postgres.SeedCatalog(ctx, db, disciplines, quizzes); err != nil {
		return err
	}

	hash, err := app.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	if err := postgres.SeedUser(ctx, db, demoUsername, demoEmail, hash); err != nil {
		return err
	}

	log.Printf("seeded %d disciplines, %d quizzes and user %q", len(disciplines), len(quizzes), demoUsername)
	return nil
}
