package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"showcase-backend/api"
	"showcase-backend/cache"
	"showcase-backend/config"
	"showcase-backend/database"
	"showcase-backend/models"
	"showcase-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	// Overlay configuration from SSM Parameter Store when a path is set
	if path := config.GetString(c, "SSM_PARAMETER_PATH", ""); path != "" {
		ssmCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := config.LoadSSMParameters(ssmCtx, c, path)
		cancel()
		if err != nil {
			fmt.Printf("Error loading SSM parameters: %v\n", err)
			os.Exit(1)
		}
	}

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "showcase"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "require"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Route reads through a replica when one is configured
	if replicaDSN := config.GetString(c, "READ_REPLICA_DSN", ""); replicaDSN != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			fmt.Printf("Error registering read replica: %v\n", err)
			os.Exit(1)
		}
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	if err := db.AutoMigrate(&models.Project{}); err != nil {
		fmt.Printf("Error migrating schema: %v\n", err)
		os.Exit(1)
	}

	projectCache := cache.NewRedis(
		config.GetString(c, "REDIS_ADDR", "localhost:6379"),
		config.GetString(c, "REDIS_PASSWORD", ""),
		config.GetInt(c, "REDIS_DB", 0),
	)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	err = projectCache.Connect(connectCtx)
	cancelConnect()
	if err != nil {
		fmt.Printf("Error connecting to redis: %v\n", err)
		os.Exit(1)
	}
	defer projectCache.Close()

	currentDB := database.New(db, projectCache)

	githubClient := services.NewGitHubClient(
		config.GetString(c, "GITHUB_API_URL", ""),
		config.GetString(c, "GITHUB_TOKEN", ""),
	)

	extractor, err := services.NewExtractor(
		config.GetString(c, "DEEPSEEK_API_KEY", ""),
		config.GetString(c, "DEEPSEEK_BASE_URL", ""),
		config.GetString(c, "DEEPSEEK_MODEL", ""),
	)
	if err != nil {
		fmt.Printf("Error initializing extractor: %v\n", err)
		os.Exit(1)
	}

	ingestor := services.NewIngestor(githubClient, extractor)

	syncer := services.NewSyncer(
		githubClient,
		ingestor,
		currentDB.ProjectRepo(),
		config.GetString(c, "GITHUB_OWNER", ""),
		config.GetBool(c, "INGEST_STRICT_MODE", true),
	)

	// Publish a JSON snapshot of the collection after full syncs when a
	// bucket is configured
	if bucket := config.GetString(c, "SNAPSHOT_BUCKET", ""); bucket != "" {
		snapshotCtx, cancelSnapshot := context.WithTimeout(context.Background(), 15*time.Second)
		snapshot, err := services.NewS3Snapshot(snapshotCtx, bucket, config.GetString(c, "SNAPSHOT_KEY", ""))
		cancelSnapshot()
		if err != nil {
			fmt.Printf("Error initializing snapshot publisher: %v\n", err)
			os.Exit(1)
		}
		syncer = syncer.WithSnapshot(snapshot)
	}

	// If running a one-shot full sync, run it and exit
	if config.GetBool(c, "RUN_FULL_SYNC", false) {
		fmt.Println("Running full sync...")
		summary, err := syncer.Run(context.Background())
		if err != nil {
			fmt.Printf("Error running full sync: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Full sync finished: run=%s total=%d saved=%d skipped=%d\n",
			summary.RunID, summary.Total, summary.Saved, summary.Skipped)
		return
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(api.Dependencies{
		Database: currentDB,
		Cache:    projectCache,
		Ingestor: ingestor,
		Syncer:   syncer,
	})
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
