// Command poolserverd serves the pool registry HTTP API for the web
// frontend. Configuration comes from the environment so it can run in a
// container without a config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chandlergims/pokestrat/internal/server"
	"github.com/chandlergims/pokestrat/pkg/registry"
)

func main() {
	// 1. Load environment variables
	redisURL := os.Getenv("REDIS_URL")
	namespace := os.Getenv("POKESTRAT_NAMESPACE")
	listenAddr := os.Getenv("LISTEN_ADDR")

	if redisURL == "" {
		fmt.Fprintf(os.Stderr, "Error: REDIS_URL must be set\n")
		os.Exit(1)
	}
	if namespace == "" {
		namespace = "default"
	}
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	// 2. Parse Redis URL
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Invalid REDIS_URL: %v\n", err)
		os.Exit(1)
	}

	// 3. Create registry client
	client, err := registry.NewClient(redisOpts, namespace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create registry client: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	// 4. Verify Redis connectivity
	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Redis not accessible: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("poolserverd starting for namespace '%s' on %s\n", namespace, listenAddr)

	// 5. Build router and HTTP server
	router := server.NewRouter(client)
	srv := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	// 6. Setup graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	// 7. Wait for shutdown signal or server error
	select {
	case sig := <-sigCh:
		fmt.Printf("Received signal %v, shutting down gracefully...\n", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("poolserverd stopped")
}
