package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/readify/internal/facades"
	"github.com/sbilibin2017/readify/internal/jwt"
	"github.com/sbilibin2017/readify/internal/middlewares"
	"github.com/sbilibin2017/readify/internal/passwords"
	"github.com/sbilibin2017/readify/internal/repositories"
	"github.com/sbilibin2017/readify/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	assert.Equal(t, "Starting service version v1.0.0, commit abcd1234, build 2025-09-26\n", output)
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.AppHost)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogEncoding)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)

	assert.Equal(t, 5432, cfg.PGPort)
	assert.Equal(t, "readify", cfg.PGDB)
	assert.Equal(t, 16, cfg.PGMaxOpenConns)
	assert.Equal(t, 8, cfg.PGMaxIdleConns)

	assert.Empty(t, cfg.RedisHost)
	assert.Equal(t, 5*time.Minute, cfg.RedisExp)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "reading-activity", cfg.KafkaActivityTopic)

	assert.Equal(t, "my_super_secret_key", cfg.JWTSecretKey)
	assert.Equal(t, time.Hour, cfg.JWTExp)
	assert.Equal(t, passwords.AlgorithmBcrypt, cfg.PasswordAlgorithm)
	assert.Equal(t, 10, cfg.PasswordBcryptCost)
	assert.Equal(t, services.PolicyIdempotent, cfg.ActivityCreatePolicy)

	assert.Empty(t, cfg.GoogleBooksAPIKey)
	assert.Equal(t, facades.DefaultGoogleBooksURL, cfg.GoogleBooksBaseURL)
	assert.Equal(t, 15*time.Second, cfg.GoogleBooksTimeout)
	assert.Equal(t, 5.0, cfg.GoogleBooksRPS)
	assert.Equal(t, 10, cfg.GoogleBooksBurst)
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv()
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_LOG_ENCODING", "console")
	t.Setenv("APP_CORS_ORIGINS", "http://localhost:3000, https://readify.app,")

	t.Setenv("POSTGRES_HOST", "pg.example.com")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "admin")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "mydb")

	t.Setenv("REDIS_HOST", "redis.example.com")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_EXP_SECOND", "120")

	t.Setenv("KAFKA_BROKERS", "kafka1:9092,kafka2:9092")
	t.Setenv("KAFKA_ACTIVITY_TOPIC", "activity")

	t.Setenv("JWT_SECRET_KEY", "supersecret")
	t.Setenv("JWT_EXP_SECOND", "300")
	t.Setenv("PASSWORD_ALGORITHM", "argon2id")
	t.Setenv("ACTIVITY_CREATE_POLICY", "reject")

	t.Setenv("GOOGLE_BOOKS_API_KEY", "key123")
	t.Setenv("GOOGLE_BOOKS_TIMEOUT_SECOND", "3")
	t.Setenv("GOOGLE_BOOKS_RPS", "0.5")
	t.Setenv("GOOGLE_BOOKS_BURST", "1")

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.AppHost)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "console", cfg.LogEncoding)
	assert.Equal(t, []string{"http://localhost:3000", "https://readify.app"}, cfg.CORSOrigins)

	assert.Equal(t, "pg.example.com", cfg.PGHost)
	assert.Equal(t, 5433, cfg.PGPort)
	assert.Equal(t, "admin", cfg.PGUser)
	assert.Equal(t, "mydb", cfg.PGDB)

	assert.Equal(t, "redis.example.com", cfg.RedisHost)
	assert.Equal(t, 6380, cfg.RedisPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 2*time.Minute, cfg.RedisExp)

	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "activity", cfg.KafkaActivityTopic)

	assert.Equal(t, "supersecret", cfg.JWTSecretKey)
	assert.Equal(t, 5*time.Minute, cfg.JWTExp)
	assert.Equal(t, passwords.AlgorithmArgon2id, cfg.PasswordAlgorithm)
	assert.Equal(t, services.PolicyReject, cfg.ActivityCreatePolicy)

	assert.Equal(t, "key123", cfg.GoogleBooksAPIKey)
	assert.Equal(t, 3*time.Second, cfg.GoogleBooksTimeout)
	assert.Equal(t, 0.5, cfg.GoogleBooksRPS)
	assert.Equal(t, 1, cfg.GoogleBooksBurst)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"postgres port", "POSTGRES_PORT", "abc"},
		{"redis expiration", "REDIS_EXP_SECOND", "soon"},
		{"jwt expiration", "JWT_EXP_SECOND", "1h"},
		{"create policy", "ACTIVITY_CREATE_POLICY", "upsert"},
		{"rate", "GOOGLE_BOOKS_RPS", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv()
			t.Setenv(tt.key, tt.val)

			_, err := parseConfig("nonexistent.env")
			assert.Error(t, err)
		})
	}
}

func TestParseConfig_File(t *testing.T) {
	resetEnv()

	path := t.TempDir() + "/config.env"
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=7000\nACTIVITY_CREATE_POLICY=always_insert\n"), 0o600))

	cfg, err := parseConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.AppPort)
	assert.Equal(t, services.PolicyAlwaysInsert, cfg.ActivityCreatePolicy)
}

// newTestRouter wires the router over a sqlmock database.
func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, *jwt.JWT) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "pgx")

	hasher, err := passwords.New(passwords.Config{Algorithm: passwords.AlgorithmBcrypt, BcryptCost: 4})
	require.NoError(t, err)
	tokens := jwt.New(jwt.WithSecretKey("test"))

	txGetter := middlewares.GetTxFromContext
	userRead := repositories.NewUserReadRepository(db, txGetter)
	bookRead := repositories.NewBookReadRepository(db, txGetter)
	resolver := services.NewResolver(userRead, bookRead)
	userService := services.NewUserService(resolver, userRead, repositories.NewUserWriteRepository(db, txGetter), hasher)
	authService := services.NewAuthService(resolver, userService, hasher, tokens)
	bookService := services.NewBookService(resolver, bookRead, repositories.NewBookWriteRepository(db, txGetter), facades.NewGoogleBooksFacade(), nil)
	activityService := services.NewActivityService(resolver,
		repositories.NewActivityReadRepository(db, txGetter),
		repositories.NewActivityWriteRepository(db, txGetter),
		nil, services.PolicyIdempotent)

	cfg := config{CORSOrigins: []string{"http://localhost:3000"}}
	return newRouter(cfg, db, tokens, userService, authService, bookService, activityService), mock, tokens
}

func TestRouter_Root(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Readify API is running")
	assert.NotEmpty(t, rr.Header().Get(middlewares.RequestIDHeader))
}

func TestRouter_Health(t *testing.T) {
	router, mock, _ := newTestRouter(t)
	mock.ExpectPing()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	routes := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/activity", `{"username":"alice","book_id":1}`},
		{http.MethodPatch, "/activity/1", `{"progress":1}`},
		{http.MethodDelete, "/activity/1", ""},
		{http.MethodPatch, "/users/alice", `{"full_name":"Alice"}`},
		{http.MethodDelete, "/users/alice", ""},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(rt.method, rt.target, strings.NewReader(rt.body)))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		})
	}

	// No transaction is opened for rejected requests.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_AuthenticatedDeleteRunsInTx(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	token, err := tokens.Generate(context.Background(), 1, "alice")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reading_activity a`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(activityRowColumns))
	mock.ExpectRollback()

	req := httptest.NewRequest(http.MethodDelete, "/activity/42", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

var activityRowColumns = []string{
	"id", "user_id", "book_id", "status", "progress", "is_favorite", "date_added",
	"book.id", "book.title", "book.author", "book.description", "book.cover_image",
	"book.category", "book.external_id", "book.created_at",
}

func TestRouter_WritesToAnotherUsersDataAreForbidden(t *testing.T) {
	router, mock, tokens := newTestRouter(t)

	token, err := tokens.Generate(context.Background(), 1, "alice")
	require.NoError(t, err)

	t.Run("delete account", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM users WHERE username`).
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "full_name", "created_at", "updated_at"}).
				AddRow(int64(2), "bob", nil, "hash", nil, fixedNow, fixedNow))
		mock.ExpectRollback()

		req := httptest.NewRequest(http.MethodDelete, "/users/bob", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete activity", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM reading_activity a`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(activityRowColumns).
				AddRow(int64(42), int64(2), int64(7), "reading", 10, false, fixedNow,
					int64(7), "Dune", nil, nil, nil, nil, nil, fixedNow))
		mock.ExpectRollback()

		req := httptest.NewRequest(http.MethodDelete, "/activity/42", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRouter_ImportWithBlankExternalIDInserts(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO books`).
		WithArgs("Second Book", nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author", "description", "cover_image", "category", "external_id", "created_at"}).
			AddRow(int64(2), "Second Book", nil, nil, nil, nil, nil, fixedNow))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodPost, "/books/import", strings.NewReader(`{"title":"Second Book","external_id":""}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Second Book"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCORSOptions(t *testing.T) {
	opts := corsOptions(config{CORSOrigins: []string{"*"}})
	assert.False(t, opts.AllowCredentials)

	opts = corsOptions(config{CORSOrigins: []string{"http://localhost:3000"}})
	assert.True(t, opts.AllowCredentials)
	assert.Equal(t, []string{"http://localhost:3000"}, opts.AllowedOrigins)
}

func TestNewKafkaWriter(t *testing.T) {
	w := newKafkaWriter(config{KafkaBrokers: []string{"kafka1:9092", "kafka2:9092"}, KafkaActivityTopic: "activity"})
	defer w.Close()

	assert.Equal(t, "activity", w.Topic)
	assert.NotNil(t, w.Addr)
	assert.Equal(t, 5*time.Second, w.WriteTimeout)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.Positive(t, w.BatchTimeout)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SearchValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/books/search?q=dune&max_results=41", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRun_Success(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "user"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	require.NoError(t, err)
	defer pgContainer.Terminate(ctx)

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	redisReq := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: redisReq, Started: true})
	require.NoError(t, err)
	defer redisContainer.Terminate(ctx)

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	resetEnv()
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "8086")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("POSTGRES_HOST", pgHost)
	t.Setenv("POSTGRES_PORT", pgPort.Port())
	t.Setenv("POSTGRES_DB", "testdb")
	t.Setenv("REDIS_HOST", redisHost)
	t.Setenv("REDIS_PORT", redisPort.Port())
	t.Setenv("PASSWORD_BCRYPT_COST", "4")

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(testCtx, cfg)
	}()

	// Serve a request while the server is up.
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:8086/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 100*time.Millisecond)

	select {
	case <-time.After(11 * time.Second):
		t.Fatal("test timed out")
	case err := <-errCh:
		assert.NoError(t, err)
	}
}
