// Command seed loads the registered student roster into the users
// collection. Registration itself happens outside the portal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/config"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/model"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/repository"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/logger"
	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/shared/security"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		filePath string
		mongoURI string
		database string
		dryRun   bool
	)

	mongoDefaults, err := env.ParseAs[config.MongoConfig]()
	if err != nil {
		return err
	}

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&filePath, "file", "f", "", "path to the roster YAML file")
	flagSet.StringVar(&mongoURI, "mongo-uri", mongoDefaults.URI, "MongoDB connection URI")
	flagSet.StringVar(&database, "database", mongoDefaults.Database, "MongoDB database name")
	flagSet.BoolVar(&dryRun, "dry-run", false, "validate the roster without writing")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if filePath == "" {
		return fmt.Errorf("--file is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := parseRoster(f)
	if err != nil {
		return err
	}

	log := logger.New("seed", logger.Config{Level: "info", Pretty: true})
	log.Info().Int("users", len(entries)).Str("file", filePath).Msg("roster loaded")

	if dryRun {
		for _, e := range entries {
			log.Info().Str("email", e.Email).Int("year", e.Year).Msg("would upsert")
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("failed to create mongo client: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	userRepo := repository.NewUserMongoRepository(ctx, log, client.Database(database))

	for _, e := range entries {
		user := &model.User{
			Name:       e.Name,
			Email:      e.Email,
			Department: e.Department,
			Year:       e.Year,
		}

		if e.Password != "" {
			user.PasswordHash, err = security.HashPassword(e.Password)
			if err != nil {
				return fmt.Errorf("%s: failed to hash password: %w", e.Email, err)
			}
		}

		if _, err := userRepo.UpsertUser(ctx, user); err != nil {
			return fmt.Errorf("%s: %w", e.Email, err)
		}
		log.Info().Str("email", e.Email).Int("year", e.Year).Msg("user upserted")
	}

	return nil
}
