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

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/option"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/credential"
	"storefront/internal/platform/config"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	redisclient "storefront/internal/platform/redis"
	"storefront/internal/profile"
	"storefront/internal/session"
	fbprovider "storefront/internal/session/firebase"
	fsprofiles "storefront/internal/session/firestore"
	"storefront/internal/storage"
	"storefront/internal/token"
	httptransport "storefront/internal/transport/http"
	"storefront/pkg/platform/circuit"
)

// main wires the stores, the token manager and the checkout pipeline behind
// the HTTP router, and keeps the server lifecycle small.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	m := metrics.New(prometheus.DefaultRegisterer)
	health := map[string]httptransport.HealthCheck{}

	kv, closeKV, err := openStore(ctx, cfg, log, health)
	if err != nil {
		return err
	}
	defer closeKV()

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, gcpOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("init firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("init firebase auth: %w", err)
	}

	documents, closeDocs, err := openProfileDocuments(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDocs()

	provider := fbprovider.New(authClient, fbprovider.WithLogger(log))
	sessions := session.New(provider, documents,
		session.WithLogger(log),
		session.WithMetrics(m),
	)

	creds := credential.NewStore(kv, credential.WithLogger(log))
	basket := cart.NewStore(ctx, kv, cart.WithLogger(log))

	api := backend.New(cfg.BackendBaseURL,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.HTTPClientTimeout}),
		backend.WithBreaker(circuit.New("backend")),
		backend.WithLogger(log),
	)
	tokens := token.NewManager(creds, token.NewBackendRenewer(api, creds), sessions,
		token.WithThreshold(cfg.RenewalThreshold),
		token.WithLogger(log),
		token.WithMetrics(m),
	)
	profiles := profile.NewService(profile.NewHTTPSource(api), profile.WithLogger(log))

	pipeline, err := checkout.New(sessions, tokens, basket, profiles,
		checkout.WithLogger(log),
		checkout.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("init checkout pipeline: %w", err)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:   log,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Health:   health,
	},
		httptransport.NewAuthHandler(provider, api, creds, sessions, log),
		httptransport.NewCartHandler(basket),
		httptransport.NewCheckoutHandler(checkout.Guard(pipeline, kv, log), basket, api, kv, log),
		httptransport.NewProfileHandler(profiles, tokens, sessions, log),
	)

	go func() {
		if err := sessions.Run(ctx, provider.Notifications()); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("session notifications stopped", "error", err)
		}
	}()
	go provider.Watch(ctx, cfg.IdentityPollInterval)

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting storefront", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	tokens.Wait()
	log.Info("storefront stopped")
	return nil
}

// openStore picks Redis when configured, otherwise the in-memory store.
func openStore(ctx context.Context, cfg config.Server, log *slog.Logger, health map[string]httptransport.HealthCheck) (storage.Store, func(), error) {
	client, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	if client == nil {
		log.Info("using in-memory key/value store")
		return storage.NewInMemoryStore(), func() {}, nil
	}
	health["redis"] = client.Health
	log.Info("using redis key/value store", "namespace", cfg.Redis.Namespace)
	return storage.NewRedisStore(client.Client, storage.WithNamespace(cfg.Redis.Namespace)), func() { _ = client.Close() }, nil
}

func openProfileDocuments(ctx context.Context, cfg config.Server, log *slog.Logger) (session.ProfileDocuments, func(), error) {
	if cfg.ProfileSource != "firestore" {
		log.Info("using in-memory profile documents")
		return session.NewInMemoryProfiles(), func() {}, nil
	}
	client, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID, gcpOptions(cfg)...)
	if err != nil {
		return nil, nil, fmt.Errorf("init firestore: %w", err)
	}
	return fsprofiles.NewProfileStore(client), func() { _ = client.Close() }, nil
}

func gcpOptions(cfg config.Server) []option.ClientOption {
	if cfg.Firebase.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.Firebase.CredentialsFile)}
}
