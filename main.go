package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentorhub/auth"
	"mentorhub/booking"
	"mentorhub/db"
	"mentorhub/gcal"
	"mentorhub/mentors"
	"mentorhub/ratelim"
	"mentorhub/rdx"
	"mentorhub/routes"
	"mentorhub/store"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(rl *ratelim.RateLimiter, st store.Store, adapter *gcal.Adapter) *httprouter.Router {
	engine := booking.NewEngine(st, adapter)

	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rl, auth.NewHandler(st))
	routes.AddMentorRoutes(router, rl, mentors.NewHandler(st))
	routes.AddBookingRoutes(router, rl, booking.NewHandler(engine, st))
	routes.AddCalendarRoutes(router, rl, adapter)
	routes.AddStaticRoutes(router)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx := context.Background()

	client, err := db.Connect(ctx, os.Getenv("MONGODB_URI"))
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}

	st := store.NewMongoStore(client.Database(db.Name))
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("❌ Index creation failed: %v", err)
	}

	// Redis backs caches and OAuth state only; run without it if it's down.
	if err := rdx.Init(os.Getenv("REDIS_ADDR")); err != nil {
		log.Printf("⚠️ Redis unavailable, running without cache: %v", err)
	}

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(rateLimiter, st, gcal.New(st))

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect: %v", err)
	}
	if err := rdx.Close(); err != nil {
		log.Printf("Redis close: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
