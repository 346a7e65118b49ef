// Package shop provides the interactive TUI storefront for shopNERD.
// The functionality is split across multiple files:
//   - model.go: Types, messages, Init (this file)
//   - update.go: Key routing and message handling
//   - actions.go: Gateway call sequences behind each interaction
//   - view.go: Rendering functions
//   - format.go: Money formatting
package shop

import (
	"shopnerd/cmd/shop/ui"
	"shopnerd/internal/agent"
	"shopnerd/internal/api"
	"shopnerd/internal/config"
	"shopnerd/internal/store"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewMode determines which of the three views is active.
type ViewMode int

const (
	CatalogView ViewMode = iota
	CartView
	AgentView
)

// String returns the tab label for a view.
func (v ViewMode) String() string {
	switch v {
	case CartView:
		return "Cart"
	case AgentView:
		return "Agent"
	default:
		return "Catalog"
	}
}

// StatusReporter exposes the gateway's last-call observability data for
// the status tag and debug pane. *api.Client satisfies it; tests may
// leave it nil.
type StatusReporter interface {
	LastStatus() api.Status
	LastExchange() api.Exchange
}

// Model is the main model for the interactive storefront.
type Model struct {
	// UI components
	styles  ui.Styles
	search  textinput.Model
	spinner spinner.Model

	// Backend
	actions  Actions
	reporter StatusReporter
	cfg      *config.Config

	// State: the authoritative snapshot plus transient UI state. All
	// renderers read only from these.
	cache        *store.Cache
	healthLabel  string
	applyEnabled bool

	// Agent dashboard panel contents (fetched as one batch)
	signals     []api.Signal
	competitors []api.Competitor
	strategies  []api.Strategy
	decisions   []agent.Decision
	memory      string

	// Status / debug output
	statusTag api.Status
	debugText string
	notice    string

	viewMode    ViewMode
	cursor      int // selection index within the active view's rows
	isLoading   bool
	width       int
	height      int
	ready       bool
}

// New creates the storefront model.
func New(gw api.Gateway, reporter StatusReporter, cfg *config.Config) Model {
	search := textinput.New()
	search.Placeholder = "Search products... (/ to focus, Esc to leave)"
	search.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := ui.NewStyles(ui.DetectTheme(cfg.UI.DarkMode))
	sp.Style = styles.Spinner

	return Model{
		styles:      styles,
		search:      search,
		spinner:     sp,
		actions:     Actions{Gateway: gw, LogLimit: cfg.UI.LogLimit},
		reporter:    reporter,
		cfg:         cfg,
		cache:       store.NewCache(),
		healthLabel: "Checking...",
		memory:      agent.BuildMemory(nil),
		statusTag:   api.StatusRunning,
		isLoading:   true,
		debugText:   "{}",
	}
}

// Init fires the initial refresh: health, store, panels, pending state.
// New() already marks the model busy for this boot load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.actions.Refresh(),
	)
}

// startAction marks the model busy and pairs it with the action cmd.
func (m Model) startAction(cmd tea.Cmd) (Model, tea.Cmd) {
	m.isLoading = true
	m.statusTag = api.StatusRunning
	m.notice = ""
	return m, cmd
}

// visibleProducts derives the product rows the catalog currently shows:
// the cache filtered by the live search text. Selection is always
// resolved against this fresh slice, never against a stale render.
func (m Model) visibleProducts() []store.Product {
	return store.Filter(m.cache.Snapshot().Products, m.search.Value())
}

// clampCursor re-binds the selection to the rows the active view just
// produced; a full re-render invalidates old indices.
func (m *Model) clampCursor() {
	var n int
	switch m.viewMode {
	case CartView:
		n = len(m.cache.Snapshot().Cart.Items)
	case AgentView:
		n = len(m.decisions)
	default:
		n = len(m.visibleProducts())
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// refreshObservability pulls the gateway's status tag and last exchange
// into the model after an action completes.
func (m *Model) refreshObservability() {
	if m.reporter == nil {
		return
	}
	m.statusTag = m.reporter.LastStatus()
	m.debugText = m.reporter.LastExchange().Render()
}
