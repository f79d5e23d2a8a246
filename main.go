package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"
)

// App is the single state container the whole server runs from. It owns
// the built-in catalog, the per-session player registry, and all tunables;
// handlers and the countdown goroutines share it, so there are no
// package-level mutables.
type App struct {
	BuiltinItems []GameItem
	Players      map[string]*PlayerState
	PlayerMutex  sync.RWMutex

	// RandomInt returns a uniform int in [0, n). Injectable so tests can
	// drive round generation deterministically.
	RandomInt func(n int) int

	PlayerDir    string
	GameDuration int
	TickInterval time.Duration

	SessionTimeout time.Duration
	CookieMaxAge   time.Duration
	StaticCacheAge time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex

	IsProduction bool
	StartTime    time.Time
}

func main() {
	_ = godotenv.Load()

	isProduction := os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production"
	logInfo("Starting kidmatch in %s mode", map[bool]string{true: "production", false: "development"}[isProduction])

	catalogFile := getEnvString("CATALOG_FILE", "data/catalog.yaml")
	items, err := loadBuiltinCatalog(catalogFile)
	if err != nil {
		logFatal("Failed to load catalog: %v", err)
	}

	app := &App{
		BuiltinItems:   items,
		Players:        make(map[string]*PlayerState),
		RandomInt:      secureRandomInt,
		PlayerDir:      getEnvString("PLAYER_DATA_DIR", "data/players"),
		GameDuration:   getEnvInt("GAME_DURATION", GameDuration),
		TickInterval:   getEnvDuration("TICK_INTERVAL", time.Second),
		SessionTimeout: getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:   getEnvDuration("COOKIE_MAX_AGE", 30*24*time.Hour),
		StaticCacheAge: getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		LimiterMap:     make(map[string]*rate.Limiter),
		IsProduction:   isProduction,
		StartTime:      time.Now(),
	}

	app.startPlayerCleanup(getEnvDuration("CLEANUP_INTERVAL", 10*time.Minute))

	router := app.buildRouter()
	startServer(router)
}

// buildRouter wires middleware and routes onto a Gin engine.
func (app *App) buildRouter() *gin.Engine {
	router := gin.Default()

	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"})))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.Use(requestIDMiddleware())
	router.Use(func(c *gin.Context) {
		app.applyCacheHeaders(c)
	})

	if dirExists("static") {
		router.Static("/static", "./static")
	}

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteState, app.stateHandler)
	router.POST(RouteStart, app.rateLimitMiddleware(), app.startHandler)
	router.POST(RouteCategory, app.rateLimitMiddleware(), app.categoryHandler)
	router.POST(RouteAnswer, app.rateLimitMiddleware(), app.answerHandler)
	router.POST(RouteItems, app.rateLimitMiddleware(), app.itemsHandler)
	router.POST(RouteReset, app.rateLimitMiddleware(), app.resetHandler)
	router.GET(RouteHealthz, app.healthzHandler)

	return router
}

// applyCacheHeaders caches static assets in production and keeps every
// game response uncacheable.
func (app *App) applyCacheHeaders(c *gin.Context) {
	if app.IsProduction && strings.HasPrefix(c.Request.URL.Path, "/static/") {
		cachecontrol.New(cachecontrol.Config{
			Public: true,
			MaxAge: cachecontrol.Duration(app.StaticCacheAge),
		})(c)
		c.Header("Vary", "Accept-Encoding")
		return
	}
	cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})(c)
}

// startServer runs the HTTP server with graceful shutdown on SIGINT/SIGTERM.
func startServer(router *gin.Engine) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
}
