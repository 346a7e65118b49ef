package shop

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"shopnerd/cmd/shop/ui"
	"shopnerd/internal/agent"
	"shopnerd/internal/api"
	"shopnerd/internal/store"
)

const debugPaneLines = 10

// View renders the whole screen. Everything on it derives from the
// current cache and panel state; there is no retained widget tree.
func (m Model) View() string {
	if !m.ready {
		return "Starting shopNERD..."
	}

	var body string
	switch m.viewMode {
	case CartView:
		body = m.renderCart()
	case AgentView:
		body = m.renderAgent()
	default:
		body = m.renderCatalog()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.styles.Content.Render(body),
		m.renderDebugPane(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" shopNERD ")
	mode := m.styles.Badge.Render(m.healthLabel)
	status := m.statusStyle().Render(string(m.statusTag))

	snap := m.cache.Snapshot()
	stats := m.styles.Muted.Render(fmt.Sprintf(
		"Source: %s | Likes: %d | Wishlist: %d | Cart: %d (%s)",
		snap.Source, snap.LikesCount, snap.WishlistCount,
		snap.Cart.Count, Money(m.cfg.UI.CurrencySymbol, snap.Cart.Total),
	))

	tabs := m.renderTabs()

	top := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", mode, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, top, stats, tabs)
}

func (m Model) renderTabs() string {
	var parts []string
	for _, v := range []ViewMode{CatalogView, CartView, AgentView} {
		label := fmt.Sprintf(" %d %s ", int(v)+1, v)
		if v == m.viewMode {
			parts = append(parts, m.styles.Title.Render(label))
		} else {
			parts = append(parts, m.styles.Muted.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Divider.Render("|"))
}

func (m Model) statusStyle() lipgloss.Style {
	switch m.statusTag {
	case api.StatusSuccess:
		return m.styles.Success
	case api.StatusFailed:
		return m.styles.Warning
	case api.StatusError:
		return m.styles.Error
	case api.StatusRunning:
		return m.styles.Info
	default:
		return m.styles.Muted
	}
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) renderCatalog() string {
	width := m.contentWidth()
	products := m.visibleProducts()

	var sections []string
	sections = append(sections, m.search.View())

	if len(products) == 0 {
		sections = append(sections, m.styles.Card.Width(width).Render(
			m.styles.Muted.Render("No matching products.")))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	for i, p := range products {
		card := m.styles.Card
		if i == m.cursor && !m.search.Focused() {
			card = m.styles.Selected
		}
		sections = append(sections, card.Width(width).Render(m.renderProductCard(p)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderProductCard(p store.Product) string {
	name := m.styles.Bold.Render(p.Name)
	price := m.styles.Title.Render(Money(m.cfg.UI.CurrencySymbol, p.Price))
	meta := m.styles.Muted.Render(fmt.Sprintf("%s | Stock: %d", p.Category, p.Stock))

	like := "[l] Like"
	if p.Liked {
		like = m.styles.Success.Render("[l] Liked")
	}
	wish := "[w] Add Wishlist"
	if p.Wishlisted {
		wish = m.styles.Success.Render("[w] Wishlisted")
	}
	controls := strings.Join([]string{like, wish, "[a] Add to Cart"}, "  ")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, name, "  ", price),
		meta,
		controls,
	)
}

// cartRows converts the cart summary into display rows. A non-empty
// cart gets a trailing total row using the server-reported total; an
// empty cart gets no rows at all, never a zero total row.
func cartRows(cart store.Cart, symbol string) []ui.Row {
	if len(cart.Items) == 0 {
		return nil
	}
	rows := make([]ui.Row, 0, len(cart.Items)+1)
	for _, item := range cart.Items {
		rows = append(rows, ui.Row{
			Headline: item.Name,
			Detail:   fmt.Sprintf("Qty: %d | %s", item.Quantity, Money(symbol, item.Subtotal)),
		})
	}
	rows = append(rows, ui.Row{
		Headline: "Total",
		Detail:   Money(symbol, cart.Total),
	})
	return rows
}

func (m Model) renderCart() string {
	panel := ui.NewListPanel("Your Cart")
	panel.Empty = "Your cart is empty."
	panel.SetRows(cartRows(m.cache.Snapshot().Cart, m.cfg.UI.CurrencySymbol))

	hint := m.styles.Muted.Render("[x] remove selected  [c] checkout")
	return lipgloss.JoinVertical(lipgloss.Left,
		panel.View(m.styles, m.contentWidth()), hint)
}

func signalRows(signals []api.Signal) []ui.Row {
	rows := make([]ui.Row, 0, len(signals))
	for _, s := range signals {
		rows = append(rows, ui.Row{
			Headline: s.Name,
			Detail: fmt.Sprintf("Trend: %s | Demand: %d | Stock: %d (%s risk)",
				s.SalesTrend, s.Demand, s.Stock, s.StockRisk),
		})
	}
	return rows
}

func competitorRows(competitors []api.Competitor, symbol string) []ui.Row {
	rows := make([]ui.Row, 0, len(competitors))
	for _, c := range competitors {
		rows = append(rows, ui.Row{
			Headline: c.Name,
			Detail: fmt.Sprintf("Us %s vs Rival %s (gap %.2f%%)",
				Money(symbol, c.OurPrice), Money(symbol, c.CompetitorPrice), c.GapPercent),
		})
	}
	return rows
}

func strategyRows(strategies []api.Strategy, symbol string) []ui.Row {
	rows := make([]ui.Row, 0, len(strategies))
	for _, s := range strategies {
		rows = append(rows, ui.Row{
			Headline: s.Name,
			Detail: fmt.Sprintf("Plan: %s | Projected: %s | %s",
				s.SelectedStrategy(), Money(symbol, s.SelectedProfit()), s.Reason),
		})
	}
	return rows
}

func decisionRows(decisions []agent.Decision, symbol string) []ui.Row {
	rows := make([]ui.Row, 0, len(decisions))
	for _, d := range decisions {
		outcome := "ok"
		if !d.Success {
			outcome = "failed"
		}
		rows = append(rows, ui.Row{
			Headline: fmt.Sprintf("%s: %s [%s]", d.Label(), d.Action, outcome),
			Detail: fmt.Sprintf("%s -> %s | %s",
				Money(symbol, d.BeforePrice), Money(symbol, d.AfterPrice), d.Reason),
		})
	}
	return rows
}

func (m Model) renderAgent() string {
	width := m.contentWidth()
	symbol := m.cfg.UI.CurrencySymbol
	panelWidth := width
	if m.width >= 120 {
		panelWidth = width/2 - 2
	}

	signals := ui.NewListPanel("Business Signals")
	signals.SetRows(signalRows(m.signals))

	competitors := ui.NewListPanel("Competitor Prices")
	competitors.SetRows(competitorRows(m.competitors, symbol))

	strategies := ui.NewListPanel("Strategy Preview")
	strategies.SetRows(strategyRows(m.strategies, symbol))

	logs := ui.NewListPanel("Agent Decisions")
	logs.Empty = "No decisions yet."
	logs.SetRows(decisionRows(m.decisions, symbol))

	memory := m.styles.Card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Execution Memory"),
		m.styles.Body.Render(m.memory),
	))

	apply := m.styles.Muted.Render("[a] Apply Decisions (no pending)")
	if m.applyEnabled {
		apply = m.styles.Success.Render("[a] Apply Decisions")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		apply, "  ",
		m.styles.Muted.Render("[r] run agent  [s] simulate sales  [g] reload panels"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		ui.JoinPanels(m.width,
			signals.View(m.styles, panelWidth),
			competitors.View(m.styles, panelWidth),
		),
		ui.JoinPanels(m.width,
			strategies.View(m.styles, panelWidth),
			logs.View(m.styles, panelWidth),
		),
		memory,
		controls,
	)
}

func (m Model) renderDebugPane() string {
	lines := strings.Split(m.debugText, "\n")
	if len(lines) > debugPaneLines {
		lines = append(lines[:debugPaneLines], "...")
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Last Exchange"),
		m.styles.Muted.Render(strings.Join(lines, "\n")),
	)
	return m.styles.Card.Width(m.contentWidth()).Render(body)
}

func (m Model) renderFooter() string {
	left := m.styles.Muted.Render("Tab: switch view | /: search | R: refresh | q: quit")
	if m.isLoading {
		left = m.spinner.View() + " working..."
	}
	if m.notice != "" {
		left += "  " + m.styles.Warning.Render(m.notice)
	}

	timestamp := m.styles.Muted.Render(time.Now().Format("15:04:05"))
	gap := m.contentWidth() - lipgloss.Width(left) - lipgloss.Width(timestamp)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.RenderDivider(m.contentWidth()),
		left+strings.Repeat(" ", gap)+timestamp,
	)
}
