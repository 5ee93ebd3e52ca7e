package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mpereira/invoicer/internal/auth"
	authStore "github.com/mpereira/invoicer/internal/auth/store"
	"github.com/mpereira/invoicer/internal/config"
	"github.com/mpereira/invoicer/internal/customer"
	customerStore "github.com/mpereira/invoicer/internal/customer/store"
	"github.com/mpereira/invoicer/internal/database"
	invoicerHttp "github.com/mpereira/invoicer/internal/http"
	authHandler "github.com/mpereira/invoicer/internal/http/auth"
	customerHandler "github.com/mpereira/invoicer/internal/http/customer"
	invoiceHandler "github.com/mpereira/invoicer/internal/http/invoice"
	"github.com/mpereira/invoicer/internal/invoice"
	invoiceStore "github.com/mpereira/invoicer/internal/invoice/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		tokens          = auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		authService     = auth.NewService(authStore.New(db), tokens)
		invoiceService  = invoice.NewService(invoiceStore.New(db))
		customerService = customer.NewService(customerStore.New(db))
	)

	var (
		authH     = authHandler.NewHandler(authService)
		invoiceH  = invoiceHandler.NewHandler(invoiceService)
		customerH = customerHandler.NewHandler(customerService)
	)

	router := invoicerHttp.New(authService, authH, invoiceH, customerH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
