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

	"github.com/google/uuid"

	"github.com/example/academic-scheduler/internal/application"
	"github.com/example/academic-scheduler/internal/config"
	"github.com/example/academic-scheduler/internal/dataset"
	httptransport "github.com/example/academic-scheduler/internal/http"
	"github.com/example/academic-scheduler/internal/persistence"
	"github.com/example/academic-scheduler/internal/persistence/memory"
	"github.com/example/academic-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "store", string(cfg.Store))
		os.Exit(1)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	now := time.Now

	if cfg.SeedFile != "" {
		if err := seedStore(ctx, store, cfg.SeedFile, idGenerator, now, logger); err != nil {
			logger.Error("failed to seed storage", "error", err, "file", cfg.SeedFile)
			os.Exit(1)
		}
	}

	facultyRepo := newFacultyRepositoryAdapter(store)
	roomRepo := newRoomRepositoryAdapter(store)
	courseRepo := newCourseRepositoryAdapter(store)
	timetableStore := newTimetableStoreAdapter(store)

	tracker := application.NewGenerationTracker()

	facultyService := application.NewFacultyServiceWithLogger(facultyRepo, courseRepo, timetableStore, tracker, idGenerator, now, logger)
	roomService := application.NewRoomServiceWithLogger(roomRepo, timetableStore, tracker, idGenerator, now, logger)
	courseService := application.NewCourseServiceWithLogger(courseRepo, facultyRepo, timetableStore, tracker, idGenerator, now, logger)
	timetableService := application.NewTimetableServiceWithLogger(facultyRepo, roomRepo, courseRepo, timetableStore, tracker, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Faculty:    httptransport.NewFacultyHandler(facultyService, logger),
		Rooms:      httptransport.NewRoomHandler(roomService, logger),
		Courses:    httptransport.NewCourseHandler(courseService, logger),
		Timetables: httptransport.NewTimetableHandler(withDefaultMaxPerDay(timetableService, cfg.MaxPerDay), logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.IdentityHeaders(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("timetabling API listening", "addr", server.Addr, "store", string(cfg.Store))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (persistence.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(context.Background()); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return memory.Open(), func() error { return nil }, nil
	}
}

// seedStore loads the configured seed file into an empty store. A store that
// already holds faculty records is left untouched so restarts stay idempotent.
func seedStore(ctx context.Context, store persistence.Store, path string, idGenerator func() string, now func() time.Time, logger *slog.Logger) error {
	existing, err := store.ListFaculty(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("skipping seed, storage already populated", "faculty", len(existing))
		return nil
	}

	seed, err := dataset.Load(path)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, store, idGenerator, now); err != nil {
		return err
	}
	logger.Info("seeded storage",
		"faculty", len(seed.Faculty), "rooms", len(seed.Rooms), "courses", len(seed.Courses))
	return nil
}

// maxPerDayDefaulter fills the generation-wide daily limit from configuration
// when the request enables the constraint without choosing a limit.
type maxPerDayDefaulter struct {
	*application.TimetableService
	limit int
}

func withDefaultMaxPerDay(service *application.TimetableService, limit int) *maxPerDayDefaulter {
	return &maxPerDayDefaulter{TimetableService: service, limit: limit}
}

func (d *maxPerDayDefaulter) Generate(ctx context.Context, params application.GenerateTimetableParams) (application.Timetable, error) {
	params.Flags = defaultedFlags(params.Flags, d.limit)
	return d.TimetableService.Generate(ctx, params)
}

func defaultedFlags(flags application.ConstraintFlags, limit int) application.ConstraintFlags {
	if limit > 0 && flags.MaxPerDay && flags.MaxPerDayLimit == 0 {
		flags.MaxPerDayLimit = limit
	}
	return flags
}
