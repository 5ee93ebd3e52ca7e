package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mpereira/invoicer/internal/customer"
)

type customerState int

const (
	customerStateBrowse customerState = iota
	customerStateForm
)

type CustomerModel struct {
	CommonModel
	customerService *customer.Service
	userID          uuid.UUID

	state     customerState
	table     table.Model
	customers []*customer.Customer
	form      *huh.Form

	// When editing an existing customer; nil means the form creates one.
	editID *uuid.UUID

	loading bool
	err     error
	status  string

	// Form bindings
	formName  string
	formEmail string
}

func NewCustomerModel(custSvc *customer.Service, userID uuid.UUID) CustomerModel {
	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "Email", Width: 30},
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

	return CustomerModel{
		customerService: custSvc,
		userID:          userID,
		table:           t,
	}
}

func (m CustomerModel) Init() tea.Cmd {
	return m.loadCustomersCmd()
}

func (m CustomerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCustomersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.customers = msg.customers
		m.refreshTable()
		return m, nil

	case customerSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = "Saved"
		}
		m.state = customerStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCustomersCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case customerStateBrowse:
		return m.updateBrowse(msg)
	case customerStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m CustomerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCustomersCmd()
		case "a":
			return m.enterFormMode(nil)
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.customers) {
				return m, nil
			}
			return m.enterFormMode(m.customers[idx])
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m CustomerModel) enterFormMode(c *customer.Customer) (tea.Model, tea.Cmd) {
	if c != nil {
		m.editID = &c.ID
		m.formName = c.Name
		m.formEmail = c.Email
	} else {
		m.editID = nil
		m.formName = ""
		m.formEmail = ""
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("billing@example.com").
				Value(&m.formEmail),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customerStateForm
	m.table.Blur()
	return m, m.form.Init()
}

func (m CustomerModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = customerStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m CustomerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading customers...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := "Customers | [a] add | [e] edit | [x] delete | [r] refresh | Esc: back"

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == customerStateForm && m.form != nil {
		title := "New Customer"
		if m.editID != nil {
			title = "Edit Customer"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *CustomerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.customers))
	for _, c := range m.customers {
		rows = append(rows, table.Row{
			c.Name,
			c.Email,
			FormatDate(c.CreatedAt),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadCustomersMsg struct {
	customers []*customer.Customer
	err       error
}

func (m CustomerModel) loadCustomersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		customers, err := m.customerService.List(ctx, m.userID)
		return loadCustomersMsg{customers: customers, err: err}
	}
}

type customerSaveMsg struct {
	err error
}

func (m CustomerModel) saveCmd() tea.Cmd {
	params := customer.Params{Name: m.formName, Email: m.formEmail}
	editID := m.editID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if editID != nil {
			_, err = m.customerService.Update(ctx, m.userID, *editID, params)
		} else {
			_, err = m.customerService.Create(ctx, m.userID, params)
		}

		return customerSaveMsg{err: err}
	}
}

func (m CustomerModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.customers) {
		return nil
	}

	id := m.customers[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return customerSaveMsg{err: m.customerService.Delete(ctx, m.userID, id)}
	}
}
