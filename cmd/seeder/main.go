package main

import (
	"context"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/projecthub/api/internal/config"
	"github.com/projecthub/api/internal/database"
	"github.com/projecthub/api/internal/pkg/logger"
	"github.com/projecthub/api/internal/seed"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	dataDir := flag.String("data", "_data", "Directory holding the JSON fixtures")
	importData := flag.Bool("i", false, "Import fixtures")
	destroyData := flag.Bool("d", false, "Delete all seeded collections")
	flag.Parse()

	log, err := logger.New(logger.Options{})
	if err != nil {
		log = zap.NewExample()
	}
	defer log.Sync()

	if *importData == *destroyData {
		log.Error("pass exactly one of -i (import) or -d (destroy)")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongo, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer mongo.Close(context.Background())
	store := database.NewStore(mongo.DB)

	if *destroyData {
		if err := seed.Destroy(ctx, store, log); err != nil {
			log.Fatal("destroy failed", zap.Error(err))
		}
		return
	}

	fx, err := seed.Load(*dataDir)
	if err != nil {
		log.Fatal("failed to read fixtures", zap.Error(err))
	}
	if err := fx.Prepare(); err != nil {
		log.Fatal("invalid fixtures", zap.Error(err))
	}
	if err := seed.Import(ctx, store, fx, log); err != nil {
		log.Fatal("import failed", zap.Error(err))
	}
}
