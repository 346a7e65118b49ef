package shop

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"shopnerd/internal/agent"
	"shopnerd/internal/logging"
	"shopnerd/internal/store"
)

// Update routes messages. Keys resolve their target against the rows
// currently derived from the cache, never against a previous render.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case syncMsg:
		return m.applySync(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applySync folds one completed action sequence into the model. Absent
// fields leave their state as-is, so a failed reload keeps the last
// known good snapshot on screen.
func (m Model) applySync(msg syncMsg) Model {
	m.isLoading = false

	if msg.health != nil {
		m.healthLabel = msg.health.ModeLabel()
	}
	if msg.snapshot != nil {
		m.cache.Replace(*msg.snapshot)
	}
	if msg.panels != nil {
		m.signals = msg.panels.signals
		m.competitors = msg.panels.competitors
		m.strategies = msg.panels.strategies
		m.decisions = msg.panels.decisions
		m.memory = agent.BuildMemory(m.decisions)
	}
	if msg.ranAgent {
		m.decisions = msg.decisions
		m.memory = agent.BuildMemory(msg.decisions)
	}

	// A successful apply disables the control; the pending state fetched
	// afterwards has the final say.
	if msg.applied {
		m.applyEnabled = false
	}
	if msg.pending != nil {
		m.applyEnabled = *msg.pending
	}

	if msg.note != "" {
		m.notice = msg.note
	}

	m.refreshObservability()
	m.clampCursor()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		logging.UI("quit requested")
		return m, tea.Quit
	}

	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		m.viewMode = (m.viewMode + 1) % 3
		m.cursor = 0
		return m, nil

	case "shift+tab":
		m.viewMode = (m.viewMode + 2) % 3
		m.cursor = 0
		return m, nil

	case "1":
		m.viewMode = CatalogView
		m.cursor = 0
		return m, nil

	case "2":
		m.viewMode = CartView
		m.cursor = 0
		return m, nil

	case "3":
		m.viewMode = AgentView
		m.cursor = 0
		return m, nil

	case "/":
		m.viewMode = CatalogView
		m.search.Focus()
		return m, nil

	case "up", "k":
		m.cursor--
		m.clampCursor()
		return m, nil

	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil
	}

	// Everything past this point kicks off a gateway sequence; one
	// logical task at a time.
	if m.isLoading {
		return m, nil
	}

	if msg.String() == "R" {
		return m.startAction(m.actions.Refresh())
	}

	switch m.viewMode {
	case CatalogView:
		return m.handleCatalogKey(msg)
	case CartView:
		return m.handleCartKey(msg)
	case AgentView:
		return m.handleAgentKey(msg)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.clampCursor()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.clampCursor()
	return m, cmd
}

// selectedProduct resolves the catalog selection against the freshly
// filtered product list.
func (m Model) selectedProduct() (store.Product, bool) {
	products := m.visibleProducts()
	if m.cursor < 0 || m.cursor >= len(products) {
		return store.Product{}, false
	}
	return products[m.cursor], true
}

func (m Model) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	product, ok := m.selectedProduct()
	if !ok {
		return m, nil
	}

	switch msg.String() {
	case "l":
		return m.startAction(m.actions.ToggleLike(product.ID))
	case "w":
		return m.startAction(m.actions.ToggleWishlist(product.ID))
	case "a", "enter":
		return m.startAction(m.actions.CartAdd(product.ID, 1))
	}
	return m, nil
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cart := m.cache.Snapshot().Cart

	switch msg.String() {
	case "x", "delete", "backspace":
		if m.cursor < 0 || m.cursor >= len(cart.Items) {
			return m, nil
		}
		return m.startAction(m.actions.CartRemove(cart.Items[m.cursor].ProductID))

	case "c", "enter":
		return m.startAction(m.actions.Checkout(cart.Items))
	}
	return m, nil
}

func (m Model) handleAgentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m.startAction(m.actions.RunAgent())

	case "a":
		if !m.applyEnabled {
			m.notice = "No pending decisions to apply."
			return m, nil
		}
		return m.startAction(m.actions.ApplyDecisions())

	case "s":
		return m.startAction(m.actions.SimulateSales())

	case "g":
		return m.startAction(m.actions.LoadPanels())
	}
	return m, nil
}
