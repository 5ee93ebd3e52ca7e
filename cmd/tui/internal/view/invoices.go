package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mpereira/invoicer/internal/invoice"
)

type InvoiceListModel struct {
	CommonModel
	invoiceService *invoice.Service
	userID         uuid.UUID

	table    table.Model
	invoices []*invoice.Invoice

	page    int
	total   int
	perPage int

	loading bool
	err     error
	status  string
}

func NewInvoiceListModel(invSvc *invoice.Service, userID uuid.UUID) InvoiceListModel {
	columns := []table.Column{
		{Title: "Number", Width: 18},
		{Title: "Due Date", Width: 12},
		{Title: "Total", Width: 12},
		{Title: "Items", Width: 6},
		{Title: "Created", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return InvoiceListModel{
		invoiceService: invSvc,
		userID:         userID,
		table:          t,
		page:           1,
		perPage:        15,
	}
}

func (m InvoiceListModel) Init() tea.Cmd {
	return m.loadInvoicesCmd()
}

func (m InvoiceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.invoices = msg.page.Invoices
		m.page = msg.page.Page
		m.total = msg.page.Total
		m.refreshTable()
		return m, nil

	case invoiceDeleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}
		m.status = "Invoice deleted"
		return m, m.loadInvoicesCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadInvoicesCmd()
		case "n":
			if m.page*m.perPage < m.total {
				m.page++
				m.loading = true
				return m, m.loadInvoicesCmd()
			}
			return m, nil
		case "p":
			if m.page > 1 {
				m.page--
				m.loading = true
				return m, m.loadInvoicesCmd()
			}
			return m, nil
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InvoiceListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	pages := (m.total + m.perPage - 1) / m.perPage
	if pages == 0 {
		pages = 1
	}
	header := fmt.Sprintf("Invoices | Page %d/%d (%d total) | [n/p] page | [x] delete | [r] refresh | Esc: back", m.page, pages, m.total)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.invoices) {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.detailPanel(m.invoices[idx]))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m InvoiceListModel) detailPanel(inv *invoice.Invoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nDue: %s\n\n", inv.Number, FormatDate(inv.DueDate))

	for _, it := range inv.Items {
		fmt.Fprintf(&b, "%d x %s @ %s = %s\n", it.Qty, it.Name, FormatMoney(it.Price), FormatMoney(it.Subtotal))
	}

	fmt.Fprintf(&b, "\nTotal: %s", FormatMoney(inv.Total))

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(b.String())
}

func (m *InvoiceListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			FormatDate(inv.DueDate),
			FormatMoney(inv.Total),
			fmt.Sprintf("%d", len(inv.Items)),
			FormatDate(inv.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadInvoicesMsg struct {
	page *invoice.Page
	err  error
}

func (m InvoiceListModel) loadInvoicesCmd() tea.Cmd {
	filter := invoice.ListFilter{Page: m.page, PerPage: m.perPage}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		page, err := m.invoiceService.List(ctx, m.userID, filter)
		return loadInvoicesMsg{page: page, err: err}
	}
}

type invoiceDeleteMsg struct {
	err error
}

func (m InvoiceListModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	id := m.invoices[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return invoiceDeleteMsg{err: m.invoiceService.Delete(ctx, m.userID, id)}
	}
}
