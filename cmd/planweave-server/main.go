package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	server "github.com/planweave/planweave/internal"
	"github.com/planweave/planweave/internal/config"
	"github.com/planweave/planweave/internal/eventbus"
	"github.com/planweave/planweave/internal/extraction"
	"github.com/planweave/planweave/internal/plan"
	planrepo "github.com/planweave/planweave/internal/plan/repositoryimpl"
	"github.com/planweave/planweave/internal/planner"
	"github.com/planweave/planweave/internal/pushnotification"
	pushsubrepo "github.com/planweave/planweave/internal/pushsubscription/repositoryimpl"
	"github.com/planweave/planweave/internal/reminder"
	reminderrepo "github.com/planweave/planweave/internal/reminder/repositoryimpl"
	"github.com/planweave/planweave/internal/timeline"
	"github.com/planweave/planweave/internal/view"
	"github.com/planweave/planweave/pkg/clog"
	"github.com/planweave/planweave/pkg/storage"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Setup storage
	var store storage.Storage
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(context.Background(), env.StorageEnv.S3Bucket, env.StorageEnv.S3Prefix, env.StorageEnv.S3Region)
		if err != nil {
			slog.Error("failed to create S3 storage", "error", err)
			os.Exit(1)
		}
	case "postgres":
		store, err = storage.NewPostgresStorage(context.Background(), env.StorageEnv.PostgresDSN, env.StorageEnv.PostgresTable)
		if err != nil {
			slog.Error("failed to create Postgres storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = storage.NewLocalStorage(env.StorageEnv.BaseDir)
		if err != nil {
			slog.Error("failed to create local storage", "error", err)
			os.Exit(1)
		}
	}

	// Setup event bus
	bus := eventbus.New()

	// Setup repositories
	planRepo := planrepo.NewMemoryRepository()
	reminderRepo := reminderrepo.NewYAMLRepository(store)
	pushSubRepo := pushsubrepo.NewYAMLRepository(store)

	// Setup reminder scheduler; fired reminders go out on the event bus.
	busNotifier := reminder.NotifierFunc(func(ctx context.Context, ev reminder.Event) {
		bus.PublishNew(eventbus.TypeReminderFired, strconv.Itoa(ev.TaskID), map[string]string{
			"task_name":     ev.TaskName,
			"reminder_date": ev.ReminderDate.String(),
		})
	})
	scheduler := reminder.NewScheduler(reminderRepo, busNotifier)

	// Setup collaborators
	extractor := extraction.NewHTTPExtractor(env.ExtractionEnv.ExtractorURL)
	generator := planner.NewClaudeGenerator(time.Duration(env.PlannerEnv.TimeoutSeconds) * time.Second)

	// Setup servers
	planServer := plan.NewServer(planRepo, extractor, generator, scheduler, bus)
	viewServer := view.NewServer(planRepo)
	timelineServer := timeline.NewServer(planRepo)
	reminderServer := reminder.NewServer(scheduler)

	// Setup push notification
	vapidEnv := config.VAPIDEnvFromEnv(env)
	pushSender := pushnotification.NewSender(vapidEnv, pushSubRepo)
	pushNotificationServer := pushnotification.NewServer(vapidEnv, pushSubRepo)
	pushDispatcher := pushnotification.NewDispatcher(bus, pushSender)

	srv := server.NewServer(
		env,
		planServer,
		viewServer,
		timelineServer,
		reminderServer,
		pushNotificationServer,
	)

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go pushDispatcher.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
