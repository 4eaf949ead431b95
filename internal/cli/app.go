package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"alcyxob/reptrack/internal/api"
	"alcyxob/reptrack/internal/config"
	"alcyxob/reptrack/internal/logging"
	"alcyxob/reptrack/internal/metrics"
	"alcyxob/reptrack/internal/repository"
	"alcyxob/reptrack/internal/repository/cached"
	"alcyxob/reptrack/internal/repository/memory"
	"alcyxob/reptrack/internal/repository/mongo"
	"alcyxob/reptrack/internal/service"
	"alcyxob/reptrack/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// app is the wired object graph shared by the commands.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	store    repository.DocumentStore
	services api.Services
	closers  []func()
}

// newApp loads config and wires the object graph. The auth service is only
// built when withAuth is set; it then requires jwt.secret.
func newApp(ctx context.Context, opts *RootOptions, logOut io.Writer, withAuth bool) (*app, error) {
	cfg, err := config.LoadConfig(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if withAuth && cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret must be set (JWT_SECRET)")
	}
	log := logging.NewWithOutput(cfg.Log, logOut)

	a := &app{cfg: cfg, log: log, registry: prometheus.NewRegistry()}
	if cfg.Metrics.Enabled {
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		a.metrics = metrics.New(a.registry)
	}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}
	if err := a.wireServices(ctx, withAuth); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Database.Driver {
	case "memory":
		a.log.Warn("Using in-memory document store; data is lost on exit")
		a.store = memory.New()
		return nil
	case "mongo", "":
		client, err := mongo.ConnectDB(ctx, a.cfg.Database, a.log)
		if err != nil {
			return fmt.Errorf("connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, func() {
			a.log.Info("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				a.log.WithError(err).Error("Failed to disconnect MongoDB")
			}
		})
		db := client.Database(a.cfg.Database.Name)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, db, a.log)
		}()

		a.store = mongo.NewDocumentStore(db)
		return nil
	default:
		return fmt.Errorf("unknown database driver %q", a.cfg.Database.Driver)
	}
}

func (a *app) wireServices(ctx context.Context, withAuth bool) error {
	cacheDir := a.cfg.Cache.Dir
	users := cached.NewUserRepository(a.store, cacheDir, a.log, a.metrics)
	programs := cached.NewProgramRepository(a.store, cacheDir, a.log, a.metrics)
	progress := cached.NewProgressRepository(a.store, cacheDir, a.log, a.metrics)

	plans := service.NewWorkoutPlanService(a.store)
	social := service.NewSocialService(a.store, users, a.log, a.metrics)

	a.services = api.Services{
		Users:    service.NewUserService(users),
		Social:   social,
		Feed:     service.NewFeedService(a.store, a.cfg.Feed.PageSize, a.cfg.Feed.MaxPageSize, service.NewScanFollowingFeed(a.store, a.cfg.Feed.FollowingScanLimit)),
		Programs: service.NewProgramService(programs, users, plans, a.log),
		Plans:    plans,
		Progress: service.NewProgressService(progress),
	}

	if withAuth {
		auth, err := service.NewAuthService(users, a.store, a.cfg.JWT.Secret, a.cfg.JWT.Expiration)
		if err != nil {
			return fmt.Errorf("initialize auth: %w", err)
		}
		a.services.Auth = auth
	}

	if a.cfg.S3.BucketName != "" {
		files, err := storage.NewS3Storage(ctx, a.cfg.S3, a.log)
		if err != nil {
			return fmt.Errorf("initialize S3 storage: %w", err)
		}
		a.services.Media = service.NewMediaService(files, a.cfg.S3.PresignExpiry)
	}
	return nil
}

// gatherer returns the registry to expose on /metrics, or nil when disabled.
func (a *app) gatherer() prometheus.Gatherer {
	if !a.cfg.Metrics.Enabled {
		return nil
	}
	return a.registry
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
