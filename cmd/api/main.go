package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tripcrew/tripcrew-api/internal/adapters/httpapi"
	meminviterepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/inviterepo"
	memmemberrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/memberrepo"
	memtokenrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/tokenrepo"
	memtriprepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/tripcrew/tripcrew-api/internal/adapters/memory/userrepo"
	postgres "github.com/tripcrew/tripcrew-api/internal/adapters/postgres"
	pginviterepo "github.com/tripcrew/tripcrew-api/internal/adapters/postgres/inviterepo"
	pgmemberrepo "github.com/tripcrew/tripcrew-api/internal/adapters/postgres/memberrepo"
	pgtokenrepo "github.com/tripcrew/tripcrew-api/internal/adapters/postgres/tokenrepo"
	pgtriprepo "github.com/tripcrew/tripcrew-api/internal/adapters/postgres/triprepo"
	pguserrepo "github.com/tripcrew/tripcrew-api/internal/adapters/postgres/userrepo"
	"github.com/tripcrew/tripcrew-api/internal/app/auth"
	"github.com/tripcrew/tripcrew-api/internal/app/invites"
	"github.com/tripcrew/tripcrew-api/internal/app/trips"
	"github.com/tripcrew/tripcrew-api/internal/app/users"
	platformclock "github.com/tripcrew/tripcrew-api/internal/platform/clock"
	"github.com/tripcrew/tripcrew-api/internal/platform/config"
	"github.com/tripcrew/tripcrew-api/internal/platform/logging"
	"github.com/tripcrew/tripcrew-api/internal/platform/mail"
	"github.com/tripcrew/tripcrew-api/internal/platform/sessions"
	inviterepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/inviterepo"
	mailerport "github.com/tripcrew/tripcrew-api/internal/ports/out/mailer"
	memberrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/memberrepo"
	tokenrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/tokenrepo"
	triprepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/triprepo"
	userrepoport "github.com/tripcrew/tripcrew-api/internal/ports/out/userrepo"
)

func main() {
	// Local dev convenience; absent .env files are not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := platformclock.NewSystemClock()

	var (
		userRepo   userrepoport.Repository
		tokenRepo  tokenrepoport.Repository
		tripRepo   triprepoport.Repository
		memberRepo memberrepoport.Repository
		inviteRepo inviterepoport.Repository
		cleanup    func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			slog.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		cleanup = pool.Close

		if err := postgres.Migrate(ctx, pool); err != nil {
			slog.Error("postgres migrate failed", "error", err)
			pool.Close()
			os.Exit(1)
		}

		userRepo = pguserrepo.NewRepo(pool)
		tokenRepo = pgtokenrepo.NewRepo(pool)
		tripRepo = pgtriprepo.NewRepo(pool)
		memberRepo = pgmemberrepo.NewRepo(pool)
		inviteRepo = pginviterepo.NewRepo(pool)
	default:
		userRepo = memuserrepo.NewRepo()
		tokenRepo = memtokenrepo.NewRepo()
		tripRepo = memtriprepo.NewRepo()
		memberRepo = memmemberrepo.NewRepo()
		inviteRepo = meminviterepo.NewRepo()
	}

	if cleanup != nil {
		defer cleanup()
	}

	var mailer mailerport.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		mailer = mail.LogMailer{}
	}

	sessionMgr := sessions.NewManager(cfg.SessionSecret, cfg.SessionTTL)

	authSvc := auth.NewService(userRepo, tokenRepo, mailer, clk, cfg.VerificationTTL, cfg.BaseURL)
	tripSvc := trips.NewService(tripRepo, memberRepo, userRepo, clk)
	inviteSvc := invites.NewService(inviteRepo, tripRepo, memberRepo, userRepo, mailer, clk)
	userSvc := users.NewService(userRepo, memberRepo, inviteRepo, clk)

	api := httpapi.NewServer(authSvc, tripSvc, inviteSvc, userSvc, sessionMgr)

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(sessionMgr, userRepo),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
