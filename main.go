package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/rs/cors"
	"github.com/spf13/pflag"

	"movimenta_server/config"
	"movimenta_server/logging"
	"movimenta_server/middleware"
	"movimenta_server/routes"
	"movimenta_server/services"
	"movimenta_server/socket"
	"movimenta_server/store"
	"movimenta_server/store/dynamo"
	"movimenta_server/store/memory"
	"movimenta_server/store/postgres"
	"movimenta_server/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, seedPath, issueFor, issueRole string
	var issueTTL time.Duration

	flagSet := pflag.NewFlagSet("movimenta", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config (default: CONFIG_PATH or ./local.yaml)")
	flagSet.StringVar(&seedPath, "seed", "", "import employee profiles from this CSV export before serving")
	flagSet.StringVar(&issueFor, "issue-token", "", "print a bearer token for this user id and exit")
	flagSet.StringVar(&issueRole, "role", "", "role claim for --issue-token (\"manager\" for reviewers)")
	flagSet.DurationVar(&issueTTL, "ttl", 24*time.Hour, "lifetime of the token printed by --issue-token")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.ManagerIDs)

	if issueFor != "" {
		token, err := auth.Issue(issueFor, issueRole, issueTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	}

	logger := logging.Setup(cfg.LogLevel)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			logger.Error("sentry init failed", slog.String("err", err.Error()))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("store ready", slog.String("driver", cfg.Storage.Driver))

	importer := services.NewImportService(st)
	if seedPath != "" {
		if err := seed(ctx, importer, seedPath, logger); err != nil {
			return err
		}
	}

	sock := socket.NewSocketServer(auth, logger)
	go func() {
		if err := sock.Serve(); err != nil {
			logger.Error("socket server stopped", slog.String("err", err.Error()))
		}
	}()
	defer sock.Close()

	notifier := services.Notifiers{services.LogNotifier{}, socket.NewNotifier(sock)}

	svc := routes.Services{
		Matching:  services.NewMatchingService(st, cfg.Matching.PageSize),
		Swaps:     services.NewSwapService(st, notifier),
		Manager:   services.NewManagerService(st, notifier),
		Profiles:  services.NewProfileService(st),
		Reference: services.NewReferenceService(services.FileProvider{Path: cfg.Reference.Path}, cfg.Reference.TTL),
		Chat:      services.NewChatService(st),
		Import:    importer,
	}
	if cfg.S3.Bucket != "" {
		presigner, err := services.NewS3Presigner(ctx, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			return fmt.Errorf("s3 presigner: %w", err)
		}
		svc.Avatars = services.NewAvatarService(presigner, cfg.S3.Bucket, cfg.S3.PresignExpiry)
	}

	router := routes.NewRouter(svc, auth, sock)
	handler := middleware.Chain(router,
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recover(),
		sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle,
	)
	handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler(handler)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.NewStore(ctx, cfg.Storage.SQLitePath)
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.Storage.PostgresDSN)
	case config.DriverDynamo:
		client, err := dynamo.NewClient(ctx, cfg.Storage.Dynamo.Region, cfg.Storage.Dynamo.Endpoint)
		if err != nil {
			return nil, err
		}
		return dynamo.NewStore(client, cfg.Storage.Dynamo.Tables, logger), nil
	default:
		return memory.NewStore(), nil
	}
}

func seed(ctx context.Context, importer *services.ImportService, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	n, err := importer.ImportProfiles(ctx, f)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	logger.Info("profiles imported", slog.String("path", path), slog.Int("rows", n))
	return nil
}
