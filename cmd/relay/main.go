package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"schoolhub_backend/internals/cache"
	"schoolhub_backend/internals/configs"
	database "schoolhub_backend/internals/databases"
	"schoolhub_backend/internals/features/communication/relay"
	helperAuth "schoolhub_backend/internals/helpers/auth"
	middlewares "schoolhub_backend/internals/middlewares"
)

func main() {
	configs.LoadEnv()
	if configs.JWTSecret == "" {
		log.Fatal("[RELAY] JWT_SECRET is required")
	}

	database.ConnectDB()
	database.TunePool()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := relay.NewHub()
	var broker relay.Broker = relay.LocalBroker{Hub: hub}
	if url := configs.GetEnv("REDIS_URL"); url != "" {
		client, err := cache.OpenRedis(ctx, url)
		if err != nil {
			log.Printf("[RELAY] redis unavailable, delivering locally only: %v", err)
		} else {
			rb := &relay.RedisBroker{Client: client, Hub: hub}
			broker = rb
			go func() {
				if err := rb.Run(ctx); err != nil {
					log.Printf("[RELAY] subscriber stopped: %v", err)
				}
			}()
			defer client.Close()
		}
	}

	srv := relay.NewServer(hub, broker, relay.AppointmentAuthorizer{DB: database.DB},
		configs.JWTSecret, middlewares.AllowedOrigins())
	srv.IsRevoked = helperAuth.BlacklistChecker(database.DB, configs.JWTSecret)
	srv.BaseContext = ctx

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{
		Addr:              "0.0.0.0:" + configs.GetEnv("RELAY_PORT", "3001"),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("[RELAY] listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[RELAY] server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[RELAY] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	database.Close()
}
