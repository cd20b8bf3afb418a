package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/api-sage/wallet-ledger/internal/adapter/http/controller"
	"github.com/api-sage/wallet-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/wallet-ledger/internal/adapter/http/router"
	"github.com/api-sage/wallet-ledger/internal/adapter/repository/implementations"
	"github.com/api-sage/wallet-ledger/internal/config"
	"github.com/api-sage/wallet-ledger/internal/notifications"
	"github.com/api-sage/wallet-ledger/internal/statement"
	"github.com/api-sage/wallet-ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := implementations.RunMigrations(startupCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := implementations.Open(startupCtx, cfg.DatabaseDSN, implementations.PoolSettings{
		MaxOpen: cfg.DBMaxOpenConns,
		MaxIdle: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer redisClient.Close()

	store := implementations.NewLedgerRepository(db)
	mailer := notifications.NewAPIMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)
	gateway := notifications.NewGateway(mailer, notifications.NewRedisQueue(redisClient))

	transactionService := services.NewTransactionService(store, gateway)
	historyService := services.NewHistoryService(store)
	accountService := services.NewAccountService(store)
	statementService := services.NewStatementService(store, statement.NewTextRenderer())

	hostname, _ := os.Hostname()
	worker := notifications.NewWorker(redisClient, mailer, hostname)
	go func() {
		if err := worker.Start(context.Background()); err != nil && err != context.Canceled {
			log.Printf("notification worker stopped: %v", err)
		}
	}()

	mux := router.New(
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		controller.NewTransactionController(transactionService),
		controller.NewHistoryController(historyService),
		controller.NewAccountController(accountService),
		controller.NewStatementController(statementService),
	)

	log.Printf("wallet-ledger listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
