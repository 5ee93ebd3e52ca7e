package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mpereira/invoicer/cmd/tui/internal/view"
	"github.com/mpereira/invoicer/internal/auth"
	authStore "github.com/mpereira/invoicer/internal/auth/store"
	"github.com/mpereira/invoicer/internal/config"
	"github.com/mpereira/invoicer/internal/customer"
	customerStore "github.com/mpereira/invoicer/internal/customer/store"
	"github.com/mpereira/invoicer/internal/database"
	"github.com/mpereira/invoicer/internal/invoice"
	invoiceStore "github.com/mpereira/invoicer/internal/invoice/store"
)

type model struct {
	invoiceService  *invoice.Service
	customerService *customer.Service
	userID          uuid.UUID

	currentView View

	invoiceView  view.InvoiceListModel
	customerView view.CustomerModel
}

type View int

const (
	ViewMenu      View = 0
	ViewInvoices  View = 1
	ViewCustomers View = 2
)

func initialModel() model {
	_ = godotenv.Load()

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

	authSvc := auth.NewService(authStore.New(db), auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))
	invSvc := invoice.NewService(invoiceStore.New(db))
	custSvc := customer.NewService(customerStore.New(db))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := authSvc.Lookup(ctx, cfg.TUI.UserEmail)
	if err != nil {
		slog.Error("failed to look up TUI user", "email", cfg.TUI.UserEmail, "error", err)
		os.Exit(1)
	}

	return model{
		invoiceService:  invSvc,
		customerService: custSvc,
		userID:          user.ID,
		currentView:     ViewMenu,
		invoiceView:     view.NewInvoiceListModel(invSvc, user.ID),
		customerView:    view.NewCustomerModel(custSvc, user.ID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoices
				m.invoiceView = view.NewInvoiceListModel(m.invoiceService, m.userID)

				return m, m.invoiceView.Init()
			case "2":
				m.currentView = ViewCustomers
				m.customerView = view.NewCustomerModel(m.customerService, m.userID)

				return m, m.customerView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceListModel)
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customerView.Update(msg)
		m.customerView = newModel.(view.CustomerModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Invoicer TUI\n\n" +
				"1. Browse Invoices\n" +
				"2. Manage Customers\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		return m.invoiceView.View()
	case ViewCustomers:
		return m.customerView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
