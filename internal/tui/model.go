// Package tui is an interactive terminal front end that plays a game against
// an in-process game service.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shelfwise/internal/game"
	"shelfwise/internal/inventory"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Game is the slice of the game service the TUI drives.
type Game interface {
	NewGame() game.StateView
	Snapshot() (game.StateView, error)
	Advance(ctx context.Context, gameID string) (game.DayReport, game.StateView, error)
	Restock(gameID, product string, qty int) (game.RestockResult, game.StateView, error)
	Unlock(gameID, item string) (game.UnlockResult, game.StateView, error)
}

type focus int

const (
	focusProducts focus = iota
	focusStore
)

type keyMap struct {
	Next    key.Binding
	Restock key.Binding
	Unlock  key.Binding
	NewGame key.Binding
	Switch  key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next day")),
		Restock: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restock EOQ")),
		Unlock:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlock item")),
		NewGame: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new game")),
		Switch:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch table")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) help() string {
	parts := make([]string, 0, 6)
	for _, b := range []key.Binding{k.Next, k.Restock, k.Unlock, k.Switch, k.NewGame, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  •  ")
}

type Model struct {
	ctx      context.Context
	game     Game
	keys     keyMap
	view     game.StateView
	report   *game.DayReport
	products table.Model
	store    table.Model
	focus    focus
	status   string
	failed   bool
}

var (
	productColumns = []table.Column{
		{Title: "Product", Width: 16},
		{Title: "Stock", Width: 6},
		{Title: "Demand", Width: 7},
		{Title: "ROP", Width: 7},
		{Title: "EOQ", Width: 7},
		{Title: "Days", Width: 6},
		{Title: "Status", Width: 9},
	}
	storeColumns = []table.Column{
		{Title: "Item", Width: 18},
		{Title: "Category", Width: 12},
		{Title: "Price", Width: 9},
		{Title: "Stock", Width: 6},
		{Title: "State", Width: 10},
	}
)

// New attaches to the service's live game, starting one when none exists.
func New(ctx context.Context, g Game) Model {
	view, err := g.Snapshot()
	if err != nil {
		view = g.NewGame()
	}
	m := Model{
		ctx:  ctx,
		game: g,
		keys: defaultKeys(),
		products: table.New(
			table.WithColumns(productColumns),
			table.WithHeight(8),
			table.WithFocused(true),
		),
		store: table.New(
			table.WithColumns(storeColumns),
			table.WithHeight(8),
		),
		status: "Day " + strconv.Itoa(view.Day) + ". Press n to open the shop.",
	}
	m.products.SetStyles(tableStyles())
	m.store.SetStyles(tableStyles())
	m.refresh(view)
	return m
}

// Run blocks until the user quits.
func Run(ctx context.Context, g Game) error {
	_, err := tea.NewProgram(New(ctx, g), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := (msg.Height - 14) / 2
		if h < 3 {
			h = 3
		}
		m.products.SetHeight(h)
		m.store.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Switch):
			m.toggleFocus()
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.nextDay()
			return m, nil
		case key.Matches(msg, m.keys.Restock):
			m.restockSelected()
			return m, nil
		case key.Matches(msg, m.keys.Unlock):
			m.unlockSelected()
			return m, nil
		case key.Matches(msg, m.keys.NewGame):
			m.report = nil
			m.refresh(m.game.NewGame())
			m.setStatus(fmt.Sprintf("New game started with $%s", m.view.Budget.StringFixed(2)), false)
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusProducts {
		m.products, cmd = m.products.Update(msg)
	} else {
		m.store, cmd = m.store.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("Shelfwise  Day %d  Budget $%s  ROI %s%%",
		m.view.Day, m.view.Budget.StringFixed(2), m.view.Statistics.ROI.StringFixed(2))
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Event: " + eventLabel(m.view.CurrentEvent)))
	b.WriteString("\n")

	left := m.panel("Shelves", m.products.View(), m.focus == focusProducts)
	right := m.panel("Store", m.store.View(), m.focus == focusStore)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	b.WriteString(m.panel("Last day", m.reportView(), false))
	b.WriteString("\n")

	if m.status != "" {
		if m.failed {
			b.WriteString(badStyle.Render(m.status))
		} else {
			b.WriteString(goodStyle.Render(m.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.keys.help()))
	return b.String()
}

func (m Model) panel(title, body string, focused bool) string {
	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body))
}

func (m Model) reportView() string {
	if m.report == nil {
		return mutedStyle.Render("No day played yet.")
	}
	r := m.report
	lines := []string{fmt.Sprintf("Day %d  revenue $%s  storage $%s  net $%s",
		r.Day, r.Revenue.StringFixed(2), r.StorageCost.StringFixed(2), r.NetChange.StringFixed(2))}
	for _, a := range r.Alerts {
		lines = append(lines, severityStyle(a.Severity).Render("• "+a.Message))
	}
	for _, h := range r.NewUnlocks {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("• %s is within reach ($%s)", h.Name, h.UnlockPrice.StringFixed(2))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) toggleFocus() {
	if m.focus == focusProducts {
		m.focus = focusStore
		m.products.Blur()
		m.store.Focus()
		return
	}
	m.focus = focusProducts
	m.store.Blur()
	m.products.Focus()
}

func (m *Model) nextDay() {
	report, view, err := m.game.Advance(m.ctx, m.view.GameID)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.report = &report
	m.refresh(view)
	m.setStatus(fmt.Sprintf("Day %d closed, budget now $%s", report.Day, report.BudgetAfter.StringFixed(2)), false)
}

func (m *Model) restockSelected() {
	i := m.products.Cursor()
	if i < 0 || i >= len(m.view.Products) {
		return
	}
	name := m.view.Products[i].Name
	qty := 1
	for _, rec := range m.view.Recommendations {
		if rec.Product == name {
			qty = inventory.OrderQuantity(rec.EOQ)
			break
		}
	}
	res, view, err := m.game.Restock(m.view.GameID, name, qty)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.refresh(view)
	m.setStatus(fmt.Sprintf("Ordered %d x %s for $%s", res.Quantity, res.Product, res.Cost.StringFixed(2)), false)
}

func (m *Model) unlockSelected() {
	i := m.store.Cursor()
	if i < 0 || i >= len(m.view.StoreItems) {
		return
	}
	res, view, err := m.game.Unlock(m.view.GameID, m.view.StoreItems[i].Name)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.refresh(view)
	m.setStatus(fmt.Sprintf("Unlocked %s with %d units on the shelf", res.Item, res.StartingStock), false)
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

func (m *Model) refresh(view game.StateView) {
	m.view = view

	recs := make(map[string]game.Recommendation, len(view.Recommendations))
	for _, r := range view.Recommendations {
		recs[r.Product] = r
	}
	rows := make([]table.Row, 0, len(view.Products))
	for _, p := range view.Products {
		r := recs[p.Name]
		days := "-"
		if r.DaysOfStock != nil {
			days = strconv.FormatFloat(*r.DaysOfStock, 'f', 1, 64)
		}
		rows = append(rows, table.Row{
			p.Name,
			strconv.Itoa(p.Stock),
			strconv.FormatFloat(p.DailyDemand, 'f', 1, 64),
			strconv.FormatFloat(r.ReorderPoint, 'f', 1, 64),
			strconv.FormatFloat(r.EOQ, 'f', 1, 64),
			days,
			string(r.Status),
		})
	}
	m.products.SetRows(rows)

	items := make([]table.Row, 0, len(view.StoreItems))
	for _, it := range view.StoreItems {
		state := "locked"
		switch {
		case it.Unlocked:
			state = "unlocked"
		case it.Affordable:
			state = "affordable"
		}
		items = append(items, table.Row{
			it.Name,
			it.Category,
			"$" + it.UnlockPrice.StringFixed(2),
			strconv.Itoa(it.StartingStock),
			state,
		})
	}
	m.store.SetRows(items)
}

func eventLabel(ev *game.Event) string {
	if ev == nil {
		return "none"
	}
	if ev.Name != "" {
		return ev.Name
	}
	return string(ev.Kind)
}

func severityStyle(s game.Severity) lipgloss.Style {
	switch s {
	case game.SeverityCritical, game.SeverityHigh:
		return badStyle
	case game.SeverityMedium:
		return warnStyle
	default:
		return mutedStyle
	}
}
