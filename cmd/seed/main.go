// Command seed loads checklist templates into MongoDB and maintains indexes.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/elkontrol/inspections/api/internal/config"
	mongodoc "github.com/elkontrol/inspections/api/internal/infrastructure/mongo"
)

var (
	envName string
	timeout time.Duration
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "seed",
	Short:         "Seed checklist templates and indexes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if envName != "" {
			if err := loadEnvFiles(envName); err != nil {
				return err
			}
		}
		l, err := config.NewLogger(envOrDefault("LOG_LEVEL", "info"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "env file under ../env to load first (e.g. local, staging)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "overall operation timeout")

	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(indexesCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
	_ = logger.Sync()
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the indexes the API relies on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		db, disconnect, err := connect(ctx)
		if err != nil {
			return err
		}
		defer disconnect()

		if err := mongodoc.EnsureIndexes(ctx, db, collectionsFromEnv()); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
		logger.Info("indexes ensured", zap.String("database", db.Name()))
		return nil
	},
}

func connect(ctx context.Context) (*mongo.Database, func(), error) {
	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "elkontrol")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	disconnect := func() {
		_ = client.Disconnect(context.Background())
	}
	return client.Database(dbName), disconnect, nil
}

func collectionsFromEnv() mongodoc.Collections {
	return mongodoc.Collections{
		Templates:     envOrDefault("TEMPLATE_COLLECTION", "templates"),
		Inspections:   envOrDefault("INSPECTION_COLLECTION", "inspections"),
		Customers:     envOrDefault("CUSTOMER_COLLECTION", "customers"),
		Addresses:     envOrDefault("ADDRESS_COLLECTION", "addresses"),
		Installations: envOrDefault("INSTALLATION_COLLECTION", "installations"),
	}
}

func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
