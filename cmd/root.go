package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/AsonyaGh/Bina/internal/core/logger"
	"github.com/AsonyaGh/Bina/internal/database"
	"github.com/AsonyaGh/Bina/internal/repository"
	"github.com/AsonyaGh/Bina/internal/users"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		migrationsDir, _ := cmd.Flags().GetString("dir")

		log := logger.NewLogger()
		defer log.Sync()

		if err := database.RunMigrations(dbURL, migrationsDir, log); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

// createAdminCmd bootstraps the first account. Every other user is created
// through the API by an admin.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return fmt.Errorf("--email and --password are required")
		}

		db, err := database.NewPostgresConnection(dbURL)
		if err != nil {
			return err
		}
		defer db.Close()

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		admin := models.User{
			Name:         name,
			Email:        email,
			Role:         roles.Admin,
			PasswordHash: string(hash),
			IsActive:     true,
		}

		userRepo := users.NewRepository(repository.NewRepository(db))
		if err := userRepo.PersistUser(&admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		fmt.Printf("Created admin %s (%s)\n", admin.ID, admin.Email)
		return nil
	},
}

// Execute parses the CLI. Bare invocation runs the server via runServer;
// subcommands run their own logic and exit.
func Execute(runServer func() error) {
	rootCmd := &cobra.Command{
		Use:   "bina",
		Short: "Bina motorcycle dealership service",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServer()
		},
	}

	migrateCmd.Flags().String("dir", "./migrations", "Directory containing the migration files")
	createAdminCmd.Flags().String("name", "Administrator", "Display name for the account")
	createAdminCmd.Flags().String("email", "", "Login email")
	createAdminCmd.Flags().String("password", "", "Initial password")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
