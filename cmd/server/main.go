package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/priyabank/core-ledger/internal/adapter/http/controller"
	"github.com/priyabank/core-ledger/internal/adapter/http/middleware"
	"github.com/priyabank/core-ledger/internal/adapter/http/router"
	"github.com/priyabank/core-ledger/internal/adapter/repository/postgres"
	"github.com/priyabank/core-ledger/internal/adapter/session"
	"github.com/priyabank/core-ledger/internal/config"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/logger"
	"github.com/priyabank/core-ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := postgres.RunMigrations(startupCtx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(startupCtx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}
	defer func() { _ = redisClient.Close() }()

	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	requestRepo := postgres.NewAccountRequestRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	counterRepo := postgres.NewCustomerCounterRepository(db)
	loanRepo := postgres.NewLoanRepository(db)

	publisher := events.NewPublisher(redisClient)
	sessions := session.NewStore(redisClient)

	generator := services.NewAccountNumberGenerator(
		rand.NewPCG(rand.Uint64(), rand.Uint64()),
		accountRepo,
	)

	authService := services.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.SessionTTL)
	onboardingService := services.NewOnboardingService(userRepo, requestRepo, accountRepo, counterRepo, publisher, cfg.BankIFSC)
	approvalService := services.NewApprovalService(requestRepo, accountRepo, generator, publisher)
	transferService := services.NewTransferService(accountRepo, transactionRepo, publisher)
	historyService := services.NewHistoryService(accountRepo, transactionRepo)
	accountService := services.NewAccountService(accountRepo, publisher)
	loanService := services.NewLoanService(loanRepo, accountRepo)

	ledgerBroker := events.NewBroker()
	ledgerSubscriber := events.NewSubscriber(redisClient, events.SubscriberConfig{
		Group:    "core-ledger-live-view",
		Consumer: hostname(),
		Stream:   events.LedgerEventsStream,
		Handler:  ledgerBroker.Handle,
	})

	authMiddleware := middleware.BearerAuth(authService)
	adminMiddleware := func(next http.Handler) http.Handler {
		return authMiddleware(middleware.RequireAdmin(next))
	}

	mux := router.New(
		controller.NewAuthController(authService),
		controller.NewAccountController(accountService, onboardingService),
		controller.NewAdminController(approvalService),
		controller.NewTransferController(transferService),
		controller.NewHistoryController(historyService, ledgerBroker),
		controller.NewLoanController(loanService),
		authMiddleware,
		adminMiddleware,
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server starting", logger.Fields{"addr": cfg.ListenAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := ledgerSubscriber.Start(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server exited: %v", err)
	}

	logger.Info("server stopped", nil)
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "core-ledger"
	}
	return name
}
