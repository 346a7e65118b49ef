package shop

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"shopnerd/internal/agent"
	"shopnerd/internal/api"
	"shopnerd/internal/logging"
	"shopnerd/internal/store"
)

// panelData is one complete agent-dashboard fetch. The four panels load
// as a batch: either all are replaced or none are.
type panelData struct {
	signals     []api.Signal
	competitors []api.Competitor
	strategies  []api.Strategy
	decisions   []agent.Decision
}

// syncMsg carries whatever an action sequence fetched back into Update.
// Nil fields were either not requested or failed; the corresponding
// state is left untouched.
type syncMsg struct {
	snapshot  *store.Snapshot
	panels    *panelData
	pending   *bool
	health    *api.Health
	decisions []agent.Decision // fresh run output, rendered directly
	ranAgent  bool
	applied   bool
	note      string
}

// Actions issues the fixed call sequence behind each interaction. Every
// mutation is followed by a full snapshot reload; nothing is patched
// locally from the mutation response.
type Actions struct {
	Gateway  api.Gateway
	LogLimit int
}

func (a Actions) logLimit() int {
	if a.LogLimit <= 0 {
		return 20
	}
	return a.LogLimit
}

// fetchSnapshot reloads the store snapshot. Failure leaves snapshot nil
// so the previous cache survives.
func (a Actions) fetchSnapshot(ctx context.Context) *store.Snapshot {
	snap, ok := api.DecodeSnapshot(a.Gateway.Call(ctx, api.EndpointStoreData, api.Options{}))
	if !ok {
		logging.Store("snapshot reload failed, keeping previous cache")
		return nil
	}
	return &snap
}

// fetchPanels loads the four dashboard panels concurrently. The first
// failure cancels the rest of the batch.
func (a Actions) fetchPanels(ctx context.Context) (*panelData, error) {
	g, ctx := errgroup.WithContext(ctx)
	pd := &panelData{}

	g.Go(func() error {
		rows, err := api.DecodeSignals(a.Gateway.Call(ctx, api.EndpointBusinessSignals, api.Options{}))
		if err != nil {
			return fmt.Errorf("business signals: %w", err)
		}
		pd.signals = rows
		return nil
	})
	g.Go(func() error {
		rows, err := api.DecodeCompetitors(a.Gateway.Call(ctx, api.EndpointCompetitors, api.Options{}))
		if err != nil {
			return fmt.Errorf("competitor prices: %w", err)
		}
		pd.competitors = rows
		return nil
	})
	g.Go(func() error {
		rows, err := api.DecodeStrategies(a.Gateway.Call(ctx, api.EndpointStrategyPreview, api.Options{}))
		if err != nil {
			return fmt.Errorf("strategy preview: %w", err)
		}
		pd.strategies = rows
		return nil
	})
	g.Go(func() error {
		endpoint := fmt.Sprintf("%s?limit=%d", api.EndpointAgentLogs, a.logLimit())
		rows, err := api.DecodeDecisions(a.Gateway.Call(ctx, endpoint, api.Options{}))
		if err != nil {
			return fmt.Errorf("agent logs: %w", err)
		}
		pd.decisions = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pd, nil
}

func (a Actions) fetchPending(ctx context.Context) bool {
	return api.DecodePending(a.Gateway.Call(ctx, api.EndpointAgentState, api.Options{}))
}

// Refresh reloads everything: health, snapshot, panels, pending state.
func (a Actions) Refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := syncMsg{}

		health := api.DecodeHealth(a.Gateway.Call(ctx, api.EndpointHealth, api.Options{}))
		msg.health = &health
		msg.snapshot = a.fetchSnapshot(ctx)

		panels, err := a.fetchPanels(ctx)
		if err != nil {
			msg.note = err.Error()
		} else {
			msg.panels = panels
		}

		pending := a.fetchPending(ctx)
		msg.pending = &pending
		return msg
	}
}

// LoadStore reloads the snapshot only.
func (a Actions) LoadStore() tea.Cmd {
	return func() tea.Msg {
		return syncMsg{snapshot: a.fetchSnapshot(context.Background())}
	}
}

// LoadPanels reloads the dashboard panels only.
func (a Actions) LoadPanels() tea.Cmd {
	return func() tea.Msg {
		panels, err := a.fetchPanels(context.Background())
		if err != nil {
			return syncMsg{note: err.Error()}
		}
		return syncMsg{panels: panels}
	}
}

// mutateAndReload posts one mutation, then reloads the snapshot. The
// reload runs regardless of the mutation outcome; a stale cache is worse
// than a redundant read.
func (a Actions) mutateAndReload(endpoint string, body any) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		a.Gateway.Call(ctx, endpoint, api.Post(body))
		return syncMsg{snapshot: a.fetchSnapshot(ctx)}
	}
}

// ToggleLike flips the like flag on a product.
func (a Actions) ToggleLike(productID int) tea.Cmd {
	return a.mutateAndReload(api.EndpointToggleLike, api.ProductPayload{ProductID: productID})
}

// ToggleWishlist flips the wishlist flag on a product.
func (a Actions) ToggleWishlist(productID int) tea.Cmd {
	return a.mutateAndReload(api.EndpointToggleWishlist, api.ProductPayload{ProductID: productID})
}

// CartAdd puts one unit of a product in the cart.
func (a Actions) CartAdd(productID, quantity int) tea.Cmd {
	return a.mutateAndReload(api.EndpointCartAdd, api.QuantityPayload{ProductID: productID, Quantity: quantity})
}

// CartRemove drops a product line from the cart.
func (a Actions) CartRemove(productID int) tea.Cmd {
	return a.mutateAndReload(api.EndpointCartRemove, api.ProductPayload{ProductID: productID})
}

// Checkout purchases the given cart lines one at a time, in order, then
// reloads the snapshot and panels. An empty cart performs no calls.
func (a Actions) Checkout(items []store.CartItem) tea.Cmd {
	return func() tea.Msg {
		if len(items) == 0 {
			return syncMsg{note: "Cart is empty."}
		}

		ctx := context.Background()
		for _, item := range items {
			a.Gateway.Call(ctx, api.EndpointSimPurchase, api.Post(api.QuantityPayload{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			}))
		}

		msg := syncMsg{snapshot: a.fetchSnapshot(ctx)}
		if panels, err := a.fetchPanels(ctx); err == nil {
			msg.panels = panels
		} else {
			msg.note = err.Error()
		}
		return msg
	}
}

// SimulateSales triggers a demand burst on the backend, then reloads the
// snapshot, panels, and pending state.
func (a Actions) SimulateSales() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		a.Gateway.Call(ctx, api.EndpointSimSales, api.Options{})

		msg := syncMsg{snapshot: a.fetchSnapshot(ctx)}
		if panels, err := a.fetchPanels(ctx); err == nil {
			msg.panels = panels
		} else {
			msg.note = err.Error()
		}
		pending := a.fetchPending(ctx)
		msg.pending = &pending
		return msg
	}
}

// RunAgent executes one pricing cycle. The decisions in the run response
// render directly, without waiting for a log re-fetch; the snapshot and
// pending state reload afterwards.
func (a Actions) RunAgent() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		decisions, err := api.DecodeDecisions(a.Gateway.Call(ctx, api.EndpointRunAgent, api.Options{}))
		msg := syncMsg{ranAgent: true, decisions: decisions}
		if err != nil {
			logging.Agent("run failed: %v", err)
			msg.note = err.Error()
		}

		msg.snapshot = a.fetchSnapshot(ctx)
		pending := a.fetchPending(ctx)
		msg.pending = &pending
		return msg
	}
}

// ApplyDecisions commits the agent's pending price changes, then reloads
// the snapshot, panels, and pending state. The pending state decides
// whether the control re-enables.
func (a Actions) ApplyDecisions() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res := a.Gateway.Call(ctx, api.EndpointApplyDecisions, api.Post(nil))

		msg := syncMsg{applied: res.OK}
		msg.snapshot = a.fetchSnapshot(ctx)
		if panels, err := a.fetchPanels(ctx); err == nil {
			msg.panels = panels
		} else {
			msg.note = err.Error()
		}
		pending := a.fetchPending(ctx)
		msg.pending = &pending
		return msg
	}
}
