package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Baaaki/storefront/internal/config"
	"github.com/Baaaki/storefront/internal/database"
	"github.com/Baaaki/storefront/internal/repository"
	"github.com/Baaaki/storefront/internal/service"
	"github.com/Baaaki/storefront/pkg/logger"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
)

var superuserFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email of the superuser (falls back to SUPERUSER_EMAIL)",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Password of the superuser (falls back to SUPERUSER_PASSWORD)",
	},
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database migration completed")
			return nil
		},
	}
}

func newCreateSuperuserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an active, verified superadmin account",
		Long: `Create an active, verified superadmin account.

Email and password come from the flags, or from SUPERUSER_EMAIL and
SUPERUSER_PASSWORD when a flag is empty. The password policy applies.`,
		RunE: createSuperuserCommand,
	}

	cobraflags.RegisterMap(cmd, superuserFlags)
	return cmd
}

func createSuperuserCommand(cmd *cobra.Command, _ []string) error {
	email := flagOrEnv(superuserFlags[emailFlag].GetString(), "SUPERUSER_EMAIL")
	password := flagOrEnv(superuserFlags[passwordFlag].GetString(), "SUPERUSER_PASSWORD")
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// creating a superuser only needs the user repository
	authService := service.NewAuthService(repository.NewUserRepository(db), nil, nil, nil, service.AuthSettings{})

	user, err := authService.CreateSuperuser(context.Background(), email, password)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid input: %s", verr.Error())
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created\n", user.Email)
	return nil
}

func openDatabase() (*gorm.DB, error) {
	cfg := config.LoadForManagement()
	if err := logger.Init(!cfg.IsProduction()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

func flagOrEnv(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}
