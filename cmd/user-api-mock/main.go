package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AleksandrSamusev/user-api-contract-tests/mockapi"

	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	port := flag.Int("port", 8000, "port to listen on")
	base := flag.String("base", "/users", "base path of the user endpoints")
	flag.Parse()

	router := mockapi.NewRouter(*base, middleware.Logger, middleware.Recoverer)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("User API mock listening on port %d, base path %s", *port, *base)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %s", err)
	}
}
