package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	_ "github.com/sbilibin2017/readify/docs"
	"github.com/sbilibin2017/readify/internal/facades"
	"github.com/sbilibin2017/readify/internal/handlers"
	"github.com/sbilibin2017/readify/internal/jwt"
	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/middlewares"
	"github.com/sbilibin2017/readify/internal/passwords"
	"github.com/sbilibin2017/readify/internal/repositories"
	"github.com/sbilibin2017/readify/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds everything read from the environment.
type config struct {
	AppHost     string
	AppPort     string
	LogLevel    string
	LogEncoding string
	CORSOrigins []string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	// Empty RedisHost disables the search cache.
	RedisHost         string
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int
	RedisExp          time.Duration

	// Empty KafkaBrokers disables event publishing.
	KafkaBrokers       []string
	KafkaActivityTopic string

	JWTSecretKey string
	JWTExp       time.Duration

	PasswordAlgorithm  string
	PasswordBcryptCost int

	ActivityCreatePolicy services.CreatePolicy

	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string
	GoogleBooksTimeout time.Duration
	GoogleBooksRPS     float64
	GoogleBooksBurst   int
}

// @title Readify API
// @version 1.0.0
// @description Book tracking service: users, books, reading activity and Google Books search
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseConfig loads environment variables from a file and returns the
// application configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key string, defaultValue int) (int, error) {
		n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	}
	getSeconds := func(key string, defaultValue int) (time.Duration, error) {
		n, err := getInt(key, defaultValue)
		return time.Duration(n) * time.Second, err
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.LogEncoding = getEnv("APP_LOG_ENCODING", "json")
	cfg.CORSOrigins = splitList(getEnv("APP_CORS_ORIGINS", "*"))

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "readify")
	if cfg.PGPort, err = getInt("POSTGRES_PORT", 5432); err != nil {
		return
	}
	if cfg.PGMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return
	}
	if cfg.PGMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPort, err = getInt("REDIS_PORT", 6379); err != nil {
		return
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return
	}
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return
	}
	if cfg.RedisExp, err = getSeconds("REDIS_EXP_SECOND", 300); err != nil {
		return
	}

	// Kafka config
	cfg.KafkaBrokers = splitList(getEnv("KAFKA_BROKERS", ""))
	cfg.KafkaActivityTopic = getEnv("KAFKA_ACTIVITY_TOPIC", "reading-activity")

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.JWTExp, err = getSeconds("JWT_EXP_SECOND", 3600); err != nil {
		return
	}

	// Password hashing config
	cfg.PasswordAlgorithm = getEnv("PASSWORD_ALGORITHM", passwords.AlgorithmBcrypt)
	if cfg.PasswordBcryptCost, err = getInt("PASSWORD_BCRYPT_COST", passwords.DefaultConfig().BcryptCost); err != nil {
		return
	}

	// Activity config
	if cfg.ActivityCreatePolicy, err = services.ParseCreatePolicy(getEnv("ACTIVITY_CREATE_POLICY", "")); err != nil {
		return
	}

	// Google Books config
	cfg.GoogleBooksAPIKey = getEnv("GOOGLE_BOOKS_API_KEY", "")
	cfg.GoogleBooksBaseURL = getEnv("GOOGLE_BOOKS_BASE_URL", facades.DefaultGoogleBooksURL)
	if cfg.GoogleBooksTimeout, err = getSeconds("GOOGLE_BOOKS_TIMEOUT_SECOND", 15); err != nil {
		return
	}
	if cfg.GoogleBooksRPS, err = strconv.ParseFloat(getEnv("GOOGLE_BOOKS_RPS", "5"), 64); err != nil {
		err = fmt.Errorf("GOOGLE_BOOKS_RPS: %w", err)
		return
	}
	if cfg.GoogleBooksBurst, err = getInt("GOOGLE_BOOKS_BURST", 10); err != nil {
		return
	}

	return
}

// corsOptions allows the configured origins. Credentials are only allowed
// for explicit origins, never together with the "*" wildcard.
func corsOptions(cfg config) cors.Options {
	return cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middlewares.RequestIDHeader},
		ExposedHeaders:   []string{middlewares.RequestIDHeader},
		AllowCredentials: !slices.Contains(cfg.CORSOrigins, "*"),
		MaxAge:           300,
	}
}

// newKafkaWriter publishes activity events keyed by activity id. A single
// event waits at most BatchTimeout before it is flushed.
func newKafkaWriter(cfg config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaActivityTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
}

// newRouter wires handlers and middleware. Write routes run inside a
// database transaction; routes that change user data also require a token.
func newRouter(
	cfg config,
	db *sqlx.DB,
	tokener middlewares.Tokener,
	userService *services.UserService,
	authService *services.AuthService,
	bookService *services.BookService,
	activityService *services.ActivityService,
) http.Handler {
	tx := middlewares.TxMiddleware(db)
	auth := middlewares.AuthMiddleware(tokener)

	r := chi.NewRouter()
	r.Use(cors.Handler(corsOptions(cfg)))
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)

	r.Get("/", handlers.NewRootHandler(buildVersion))
	r.Get("/health", handlers.NewHealthHandler(db))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", handlers.NewLoginHandler(authService))
		r.With(tx).Post("/signup", handlers.NewSignupHandler(authService))
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", handlers.NewListUsersHandler(userService))
		r.With(tx).Post("/", handlers.NewCreateUserHandler(userService))
		r.Get("/by-id/{userID}", handlers.NewGetUserByIDHandler(userService))
		r.Get("/{username}", handlers.NewGetUserHandler(userService))
		r.With(auth, tx).Patch("/{username}", handlers.NewUpdateUserHandler(userService))
		r.With(auth, tx).Delete("/{username}", handlers.NewDeleteUserHandler(userService))
		r.Get("/{username}/library", handlers.NewLibraryHandler(activityService))
		r.Get("/{username}/library/{bookID}", handlers.NewLibraryEntryHandler(activityService))
	})

	r.Route("/books", func(r chi.Router) {
		r.Get("/search", handlers.NewSearchBooksHandler(bookService))
		r.Get("/", handlers.NewListBooksHandler(bookService))
		r.With(tx).Post("/", handlers.NewCreateBookHandler(bookService))
		r.With(tx).Post("/import", handlers.NewImportBookHandler(bookService))
		r.Get("/{bookID}", handlers.NewGetBookHandler(bookService))
	})

	r.Route("/activity", func(r chi.Router) {
		r.Get("/recent", handlers.NewRecentActivityHandler(activityService))
		r.Group(func(r chi.Router) {
			r.Use(auth, tx)
			r.Post("/", handlers.NewCreateActivityHandler(activityService))
			r.Patch("/{activityID}", handlers.NewUpdateActivityHandler(activityService))
			r.Delete("/{activityID}", handlers.NewDeleteActivityHandler(activityService))
		})
	})

	return r
}

// run initializes the logger, database, optional Redis cache and Kafka
// writer, and the HTTP server. It blocks until a shutdown signal arrives.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, cfg.LogEncoding); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d/%s", cfg.PGHost, cfg.PGPort, cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)

	if err := repositories.Migrate(ctx, db, cfg.ActivityCreatePolicy.UniquePairs()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Log.Infow("Schema migrated", "activity_create_policy", cfg.ActivityCreatePolicy)

	// Connect to Redis
	var searchCache services.SearchCache
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()
		searchCache = repositories.NewSearchCacheRepository(rdb, cfg.RedisExp)
	} else {
		logger.Log.Info("REDIS_HOST not set, search cache disabled")
	}

	// Kafka writer
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		w := newKafkaWriter(cfg)
		defer w.Close()
		kafkaWriter = w
	} else {
		logger.Log.Info("KAFKA_BROKERS not set, activity events disabled")
	}

	// Credentials and tokens
	passwordCfg := passwords.DefaultConfig()
	passwordCfg.Algorithm = cfg.PasswordAlgorithm
	passwordCfg.BcryptCost = cfg.PasswordBcryptCost
	hasher, err := passwords.New(passwordCfg)
	if err != nil {
		return err
	}
	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExp))

	// External catalog
	googleBooks := facades.NewGoogleBooksFacade(
		facades.WithBaseURL(cfg.GoogleBooksBaseURL),
		facades.WithAPIKey(cfg.GoogleBooksAPIKey),
		facades.WithTimeout(cfg.GoogleBooksTimeout),
		facades.WithRateLimit(cfg.GoogleBooksRPS, cfg.GoogleBooksBurst),
	)

	// Initialize repositories
	txGetter := middlewares.GetTxFromContext
	userReadRepo := repositories.NewUserReadRepository(db, txGetter)
	userWriteRepo := repositories.NewUserWriteRepository(db, txGetter)
	bookReadRepo := repositories.NewBookReadRepository(db, txGetter)
	bookWriteRepo := repositories.NewBookWriteRepository(db, txGetter)
	activityReadRepo := repositories.NewActivityReadRepository(db, txGetter)
	activityWriteRepo := repositories.NewActivityWriteRepository(db, txGetter)

	// Initialize services
	resolver := services.NewResolver(userReadRepo, bookReadRepo)
	userService := services.NewUserService(resolver, userReadRepo, userWriteRepo, hasher)
	authService := services.NewAuthService(resolver, userService, hasher, tokens)
	bookService := services.NewBookService(resolver, bookReadRepo, bookWriteRepo, googleBooks, searchCache)
	activityService := services.NewActivityService(resolver, activityReadRepo, activityWriteRepo, kafkaWriter, cfg.ActivityCreatePolicy)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: newRouter(cfg, db, tokens, userService, authService, bookService, activityService),
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
