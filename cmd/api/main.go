package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/elkontrol/inspections/api/internal/config"
	"github.com/elkontrol/inspections/api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := cfg.Logger

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}

	app, err := server.New(ctx, cfg, client)
	if err != nil {
		logger.Fatal("failed to initialise server", zap.Error(err))
	}
	if err := app.Run(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
