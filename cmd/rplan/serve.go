package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rplan/internal/api"
	"github.com/rgehrsitz/rplan/internal/store"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the plan evaluation API.

On SIGINT/SIGTERM the server stops accepting connections, waits up to 30s
for active requests, then closes the database.

Examples:
  rplan serve --addr :8080 --db rplan.db
  rplan serve --db :memory:
  rplan serve --no-store`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().String("db", "rplan.db", `SQLite database path (":memory:" for in-memory)`)
	cmd.Flags().Bool("no-store", false, "Disable saved plans and evaluation history")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	dbPath, _ := cmd.Flags().GetString("db")
	noStore, _ := cmd.Flags().GetBool("no-store")

	var st *store.Store
	if !noStore {
		var err error
		st, err = store.New(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	handler := api.NewHandler(st, newEngine(cmd))
	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		if noStore {
			log.Printf("Store disabled; saved plans and history are unavailable")
		} else {
			log.Printf("Using database %s", dbPath)
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}
