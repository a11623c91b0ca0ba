package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"flighttrack-service/internal/domain/entity"
	domrepo "flighttrack-service/internal/domain/repository"
	"flighttrack-service/internal/extract"
	"flighttrack-service/internal/infrastructure/config"
	"flighttrack-service/internal/infrastructure/oauth"
	"flighttrack-service/internal/infrastructure/persistence"
	gmailsource "flighttrack-service/internal/interface/gmail"
	"flighttrack-service/internal/interface/mailfile"
	"flighttrack-service/internal/interface/repository"
	"flighttrack-service/internal/interface/sink"
	"flighttrack-service/internal/usecase"
	"flighttrack-service/pkg/logger"
	"flighttrack-service/pkg/metrics"
)

func main() {
	year := flag.Int("year", time.Now().Year(), "year to search for flights")
	days := flag.Int("days", 365, "window length in days from the start of the year")
	accountsFlag := flag.String("accounts", "", "comma-separated account ids (default: all configured)")
	fetchOnly := flag.Bool("fetch-only", false, "fetch and store emails without processing them")
	processOnly := flag.Bool("process-only", false, "process previously fetched emails only")
	sampleDir := flag.String("sample-dir", "", "load .eml files from this directory instead of Gmail")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Debug)
	defer log.Sync()
	log.Info("Starting Flight Track Service", "version", cfg.AppVersion)

	if *fetchOnly && *processOnly {
		log.Fatal("Cannot combine -fetch-only and -process-only")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, *days)
	log.Info("Run window", "start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))

	accountIDs := make([]string, 0, len(cfg.Accounts))
	if *accountsFlag != "" {
		for _, id := range strings.Split(*accountsFlag, ",") {
			accountIDs = append(accountIDs, strings.TrimSpace(id))
		}
	} else {
		for _, a := range cfg.Accounts {
			accountIDs = append(accountIDs, a.ID)
		}
	}

	m := metrics.NewMetrics("flighttrack")
	if cfg.MetricsPort != "" {
		go serveMetrics(cfg.MetricsPort, log)
	}

	// Reference data: Postgres when configured, built-in tables otherwise.
	var airlineRepo domrepo.AirlineRepository
	var timezoneRepo domrepo.TimezoneRepository
	if cfg.PostgresDSN != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airlineRepo = repository.NewGormAirlineRepository(gormDB)
		timezoneRepo = repository.NewGormTimezoneRepository(gormDB)
	} else {
		log.Info("No POSTGRES_DSN set, using built-in reference tables")
		airlineRepo = repository.NewStaticAirlineRepository()
		timezoneRepo = repository.NewStaticTimezoneRepository()
	}

	registry := extract.NewRegistry(log)
	normalizer := extract.NewNormalizer(airlineRepo, timezoneRepo, log)
	merger := extract.NewMerger(log)
	pipeline := extract.NewPipeline(registry, normalizer, merger, log)
	writer := sink.NewFileWriter(log)

	// Sample mode needs no mailbox and no store: load, process, write.
	if *sampleDir != "" {
		source := mailfile.NewSource(*sampleDir, "sample", log)
		batch, err := source.Load(start, end)
		if err != nil {
			log.Fatal("Failed to load sample emails", "error", err)
		}
		tracker := usecase.NewTracker(nil, nil, pipeline, merger, writer, m, log)
		runAndWrite(ctx, tracker, [][]*entity.RawEmail{batch}, cfg, log)
		return
	}

	log.Info("Connecting to MongoDB")
	mongoClient, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}()

	emailRepo := repository.NewMongoEmailRepository(db)
	recordRepo := repository.NewMongoFlightRecordRepository(db)

	if !*processOnly {
		for _, id := range accountIDs {
			account, err := cfg.Account(id)
			if err != nil {
				log.Error("Skipping unknown account", "account", id, "error", err)
				continue
			}

			gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, account.RefreshToken, log)
			service, err := gmailsource.NewService(ctx, gmailOAuth.GetTokenSource(ctx), emailRepo, account.ID, log)
			if err != nil {
				log.Error("Failed to create Gmail service", "account", id, "error", err)
				continue
			}

			fetched, err := service.FetchWindow(ctx, start, end)
			if err != nil {
				log.Error("Fetch failed", "account", id, "error", err)
				continue
			}
			m.EmailsFetched.Add(float64(fetched))
		}
	}

	if *fetchOnly {
		log.Info("Fetch-only run finished")
		return
	}

	tracker := usecase.NewTracker(emailRepo, recordRepo, pipeline, merger, writer, m, log)
	report, err := tracker.ProcessWindow(ctx, accountIDs, start, end)
	if err != nil {
		log.Fatal("Processing failed", "error", err)
	}
	if err := tracker.WriteReports(report, cfg.OutputJSON, cfg.OutputCSV); err != nil {
		log.Fatal("Failed to write reports", "error", err)
	}
}

func runAndWrite(ctx context.Context, tracker *usecase.Tracker, batches [][]*entity.RawEmail, cfg *config.Config, log *logger.ZapLogger) {
	report, err := tracker.ProcessBatches(ctx, batches)
	if err != nil {
		log.Fatal("Processing failed", "error", err)
	}
	if err := tracker.WriteReports(report, cfg.OutputJSON, cfg.OutputCSV); err != nil {
		log.Fatal("Failed to write reports", "error", err)
	}
}

func serveMetrics(port string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Starting metrics server", "port", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Metrics server error", "error", err)
	}
}
