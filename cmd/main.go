package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookClassSessionHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/book_class_session"
	bookPersonalSessionHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/book_personal_session"
	cancelClassSessionHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/cancel_class_session"
	cancelPersonalSessionHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/cancel_personal_session"
	completeSessionHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/complete_session"
	getClassRosterHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/get_class_roster"
	getScheduleHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/get_schedule"
	getSessionHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/get_session"
	manageAvailabilityHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/manage_availability"
	registerForClassHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/register_for_class"
	rescheduleSessionHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/reschedule_personal_session"
	unregisterFromClassHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/unregister_from_class"
	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/availability"
	"github.com/m04kA/SMC-ClubBookingService/internal/calendar"
	"github.com/m04kA/SMC-ClubBookingService/internal/capacity"
	"github.com/m04kA/SMC-ClubBookingService/internal/config"
	bookingCoordinator "github.com/m04kA/SMC-ClubBookingService/internal/coordinator/booking"
	registrationCoordinator "github.com/m04kA/SMC-ClubBookingService/internal/coordinator/registration"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/infra/database"
	availabilityRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/availability"
	classRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/class"
	registrationRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/registration"
	sessionRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/session"
	availabilityService "github.com/m04kA/SMC-ClubBookingService/internal/service/availability"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/projection"
	scheduleService "github.com/m04kA/SMC-ClubBookingService/internal/service/schedule"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/keylock"
	"github.com/m04kA/SMC-ClubBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClubBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/txmanager"
)

// rebuildTimeout ограничивает загрузку проекций при старте
const rebuildTimeout = 2 * time.Minute

func main() {
	// Загружаем конфигурацию
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ClubBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики опциональны, nil коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := database.Open(cfg.Database.DSN(), database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Migrations.Enabled {
		if err := database.RunMigrations(db, cfg.Migrations.Path); err != nil {
			log.Fatal("Failed to run migrations: %v", err)
		}
		log.Info("Migrations applied from %s", cfg.Migrations.Path)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)

	// Репозитории и менеджер транзакций
	sessionRepository := sessionRepo.NewRepository(wrappedDB)
	classRepository := classRepo.NewRepository(wrappedDB)
	registrationRepository := registrationRepo.NewRepository(wrappedDB)
	windowRepository := availabilityRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Проекции в памяти
	trainerCalendar := calendar.New(domain.ResourceTrainer)
	roomCalendar := calendar.New(domain.ResourceRoom)
	windowStore := availability.NewStore()
	seatTracker := capacity.NewTracker()
	locker := keylock.New(cfg.Engine.LockTimeout())

	rebuilder := projection.NewRebuilder(
		sessionRepository,
		windowRepository,
		registrationRepository,
		trainerCalendar,
		roomCalendar,
		windowStore,
		seatTracker,
		txMgr,
		log,
	)

	rebuildCtx, cancelRebuild := context.WithTimeout(context.Background(), rebuildTimeout)
	stats, err := rebuilder.Rebuild(rebuildCtx)
	cancelRebuild()
	if err != nil {
		log.Fatal("Failed to rebuild projections: %v", err)
	}
	log.Info("Projections rebuilt (personal=%d, classes=%d, windows=%d, open classes=%d, registrations=%d)",
		stats.PersonalSessions, stats.ClassSessions, stats.Windows, stats.OpenClasses, stats.Registrations)

	// Координаторы
	bookingCoord := bookingCoordinator.NewCoordinator(
		sessionRepository,
		classRepository,
		trainerCalendar,
		roomCalendar,
		windowStore,
		seatTracker,
		locker,
		txMgr,
		metricsCollector,
		log,
	)
	registrationCoord := registrationCoordinator.NewCoordinator(
		sessionRepository,
		registrationRepository,
		seatTracker,
		locker,
		txMgr,
		metricsCollector,
		log,
	)

	// Сервисы
	scheduleSvc := scheduleService.NewService(sessionRepository, registrationRepository, seatTracker, log)
	availabilitySvc := availabilityService.NewService(windowRepository, windowStore, locker, log)

	// Инициализируем handlers
	bookPersonal := bookPersonalSessionHandler.NewHandler(bookingCoord, log)
	cancelPersonal := cancelPersonalSessionHandler.NewHandler(bookingCoord, log)
	reschedulePersonal := rescheduleSessionHandler.NewHandler(bookingCoord, log)
	completeSession := completeSessionHandler.NewHandler(bookingCoord, log)
	bookClass := bookClassSessionHandler.NewHandler(bookingCoord, log)
	cancelClass := cancelClassSessionHandler.NewHandler(bookingCoord, log)
	registerForClass := registerForClassHandler.NewHandler(registrationCoord, log)
	unregisterFromClass := unregisterFromClassHandler.NewHandler(registrationCoord, log)
	getSession := getSessionHandler.NewHandler(scheduleSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	getClassRoster := getClassRosterHandler.NewHandler(scheduleSvc, log)
	manageAvailability := manageAvailabilityHandler.NewHandler(availabilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 3*time.Minute)
		go limiter.Run(serverCtx)
		api.Use(limiter.Middleware)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Персональные занятия ---
	api.HandleFunc("/personal-sessions", bookPersonal.Handle).Methods(http.MethodPost)
	api.HandleFunc("/personal-sessions/{sessionId}", getSession.HandlePersonal).Methods(http.MethodGet)
	api.HandleFunc("/personal-sessions/{sessionId}/cancel", cancelPersonal.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/personal-sessions/{sessionId}/reschedule", reschedulePersonal.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/personal-sessions/{sessionId}/complete", completeSession.HandlePersonal).Methods(http.MethodPatch)

	// --- Групповые занятия ---
	api.HandleFunc("/class-sessions", bookClass.Handle).Methods(http.MethodPost)
	api.HandleFunc("/class-sessions/{sessionId}", getSession.HandleClass).Methods(http.MethodGet)
	api.HandleFunc("/class-sessions/{sessionId}/cancel", cancelClass.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/class-sessions/{sessionId}/complete", completeSession.HandleClass).Methods(http.MethodPatch)

	// --- Записи на групповые занятия ---
	api.HandleFunc("/class-sessions/{sessionId}/registrations", registerForClass.Handle).Methods(http.MethodPost)
	api.HandleFunc("/class-sessions/{sessionId}/registrations", getClassRoster.Handle).Methods(http.MethodGet)
	api.HandleFunc("/class-sessions/{sessionId}/registrations/{memberId}", unregisterFromClass.Handle).Methods(http.MethodDelete)

	// --- Расписания ---
	api.HandleFunc("/trainers/{trainerId}/schedule", getSchedule.HandleTrainer).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{roomId}/schedule", getSchedule.HandleRoom).Methods(http.MethodGet)

	// --- Доступность тренеров ---
	api.HandleFunc("/trainers/{trainerId}/availability", manageAvailability.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/trainers/{trainerId}/availability", manageAvailability.HandleAdd).Methods(http.MethodPost)
	api.HandleFunc("/availability/{windowId}", manageAvailability.HandleDelete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stopServer()

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
