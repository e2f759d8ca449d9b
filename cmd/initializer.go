package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"homeMatch/internal/config"
	"homeMatch/internal/handlers"
	"homeMatch/internal/matching"
	"homeMatch/internal/notify"
	"homeMatch/internal/queue"
	"homeMatch/internal/repositories"
	"homeMatch/internal/services"
	"homeMatch/internal/trust"
)

type application struct {
	cfg      config.Config
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	requestRepo      *repositories.RentalRequestRepository
	propertyRepo     *repositories.PropertyRepository
	counterpartyRepo *repositories.CounterpartyRepository
	matchRepo        *repositories.MatchRepository

	matchService *services.MatchService
	rescanQueue  *queue.RescanQueue
	matchHub     *notify.MatchHub

	poolHandler  *handlers.PoolHandler
	matchHandler *handlers.MatchHandler
	eventHandler *handlers.EventHandler
}

// appLogger adapts the std logger pair to the Infof/Errorf interfaces the
// engine packages declare.
type appLogger struct {
	info *log.Logger
	err  *log.Logger
}

func (l appLogger) Infof(format string, args ...interface{})  { l.info.Printf(format, args...) }
func (l appLogger) Errorf(format string, args ...interface{}) { l.err.Printf(format, args...) }

func initializeApp(cfg config.Config, db *sql.DB, errorLog, infoLog *log.Logger) *application {
	logger := appLogger{info: infoLog, err: errorLog}

	// Repositories
	requestRepo := &repositories.RentalRequestRepository{DB: db}
	propertyRepo := &repositories.PropertyRepository{DB: db}
	counterpartyRepo := &repositories.CounterpartyRepository{DB: db}
	matchRepo := &repositories.MatchRepository{DB: db}

	// Redis: rescan queue and trust tier cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	rescanQueue := queue.NewRescanQueue(rdb)
	trustCache := trust.NewCache(rdb, time.Duration(cfg.Matching.TrustCacheTTLMinutes)*time.Minute)

	classifier := &trust.Service{Source: counterpartyRepo, Cache: trustCache}

	selector := matching.NewSelector(propertyRepo, matching.SelectorConfig{
		BudgetTolerance:       cfg.Matching.BudgetTolerance,
		AvailabilityGraceDays: cfg.Matching.AvailabilityGraceDays,
	})

	// Notification dispatchers: websocket hub always, FCM when configured
	matchHub := notify.NewMatchHub(logger)
	dispatchers := notify.Multi{matchHub}
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := newMessagingClient(cfg.Firebase.CredentialsFile)
		if err != nil {
			errorLog.Printf("firebase init failed, push notifications disabled: %v", err)
		} else {
			dispatchers = append(dispatchers, notify.NewFCMDispatcher(fcmClient, counterpartyRepo, logger))
		}
	}

	matchService := services.NewMatchService(
		requestRepo, propertyRepo, matchRepo, selector, classifier,
		dispatchers, rescanQueue, logger,
		services.MatchConfig{
			MinScore:         cfg.Matching.MinScore,
			ImprovementDelta: cfg.Matching.ImprovementDelta,
		},
	)
	matchService.TrustCache = trustCache

	return &application{
		cfg:              cfg,
		errorLog:         errorLog,
		infoLog:          infoLog,
		db:               db,
		requestRepo:      requestRepo,
		propertyRepo:     propertyRepo,
		counterpartyRepo: counterpartyRepo,
		matchRepo:        matchRepo,
		matchService:     matchService,
		rescanQueue:      rescanQueue,
		matchHub:         matchHub,
		poolHandler:      &handlers.PoolHandler{Service: matchService},
		matchHandler:     &handlers.MatchHandler{Service: matchService},
		eventHandler:     &handlers.EventHandler{Service: matchService},
	}
}

func newMessagingClient(credentialsFile string) (*messaging.Client, error) {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	return app.Messaging(ctx)
}

func openDB(cfg config.Config) (*sql.DB, error) {
	driver := cfg.Database.Driver
	if driver == "" {
		driver = "mysql"
	}
	db, err := sql.Open(driver, cfg.Database.URL)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}
