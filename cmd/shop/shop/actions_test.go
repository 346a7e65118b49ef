package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopnerd/internal/api"
	"shopnerd/internal/store"
)

// fakeGateway records every call and serves canned results per endpoint
// path. Unconfigured endpoints succeed with an empty object.
type fakeGateway struct {
	mu        sync.Mutex
	calls     []string
	bodies    []any
	responses map[string]api.Result
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{responses: map[string]api.Result{}}
}

func (f *fakeGateway) respond(endpoint, body string) {
	f.responses[endpoint] = api.Result{OK: true, Status: 200, Data: json.RawMessage(body)}
}

func (f *fakeGateway) fail(endpoint string, status int) {
	f.responses[endpoint] = api.Result{OK: false, Status: status}
}

func (f *fakeGateway) Call(_ context.Context, endpoint string, opts api.Options) api.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpoint)
	f.bodies = append(f.bodies, opts.Body)

	path, _, _ := strings.Cut(endpoint, "?")
	if res, ok := f.responses[path]; ok {
		return res
	}
	return api.Result{OK: true, Status: 200, Data: json.RawMessage(`{}`)}
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGateway) callsCopy() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func runAction(t *testing.T, cmd tea.Cmd) syncMsg {
	t.Helper()
	msg, ok := cmd().(syncMsg)
	require.True(t, ok, "action returned %T, want syncMsg", msg)
	return msg
}

func TestCheckoutPurchasesSequentiallyInOrder(t *testing.T) {
	gw := newFakeGateway()
	a := Actions{Gateway: gw}

	items := []store.CartItem{
		{ProductID: 3, Name: "Tea", Quantity: 1},
		{ProductID: 5, Name: "Rice", Quantity: 2},
	}
	msg, ok := a.Checkout(items)().(syncMsg)
	require.True(t, ok)

	calls := gw.callsCopy()
	require.GreaterOrEqual(t, len(calls), 3)
	assert.Equal(t, api.EndpointSimPurchase, calls[0])
	assert.Equal(t, api.EndpointSimPurchase, calls[1])
	assert.Equal(t, api.EndpointStoreData, calls[2])

	assert.Equal(t, api.QuantityPayload{ProductID: 3, Quantity: 1}, gw.bodies[0])
	assert.Equal(t, api.QuantityPayload{ProductID: 5, Quantity: 2}, gw.bodies[1])

	// Panels reload after the snapshot; order within the batch varies.
	assert.ElementsMatch(t, []string{
		api.EndpointBusinessSignals,
		api.EndpointCompetitors,
		api.EndpointStrategyPreview,
		fmt.Sprintf("%s?limit=20", api.EndpointAgentLogs),
	}, calls[3:])

	assert.NotNil(t, msg.snapshot)
}

func TestCheckoutEmptyCartMakesNoCalls(t *testing.T) {
	gw := newFakeGateway()
	a := Actions{Gateway: gw}

	msg, ok := a.Checkout(nil)().(syncMsg)
	require.True(t, ok)

	assert.Zero(t, gw.callCount())
	assert.Equal(t, "Cart is empty.", msg.note)
	assert.Nil(t, msg.snapshot)
}

func TestMutationsReloadTheSnapshot(t *testing.T) {
	cases := []struct {
		name     string
		action   func(Actions) tea.Cmd
		endpoint string
		body     any
	}{
		{"like", func(a Actions) tea.Cmd { return a.ToggleLike(4) },
			api.EndpointToggleLike, api.ProductPayload{ProductID: 4}},
		{"wishlist", func(a Actions) tea.Cmd { return a.ToggleWishlist(7) },
			api.EndpointToggleWishlist, api.ProductPayload{ProductID: 7}},
		{"cart add", func(a Actions) tea.Cmd { return a.CartAdd(2, 1) },
			api.EndpointCartAdd, api.QuantityPayload{ProductID: 2, Quantity: 1}},
		{"cart remove", func(a Actions) tea.Cmd { return a.CartRemove(2) },
			api.EndpointCartRemove, api.ProductPayload{ProductID: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := newFakeGateway()
			gw.respond(api.EndpointStoreData, `{"source": "db", "products": []}`)
			a := Actions{Gateway: gw}

			msg := runAction(t, tc.action(a))

			require.Equal(t, []string{tc.endpoint, api.EndpointStoreData}, gw.callsCopy())
			assert.Equal(t, tc.body, gw.bodies[0])
			require.NotNil(t, msg.snapshot)
			assert.Equal(t, "db", msg.snapshot.Source)
		})
	}
}

func TestMutationReloadsEvenWhenMutationFails(t *testing.T) {
	gw := newFakeGateway()
	gw.fail(api.EndpointToggleLike, 500)
	gw.respond(api.EndpointStoreData, `{"source": "db"}`)
	a := Actions{Gateway: gw}

	msg, ok := a.ToggleLike(1)().(syncMsg)
	require.True(t, ok)

	assert.Equal(t, []string{api.EndpointToggleLike, api.EndpointStoreData}, gw.callsCopy())
	require.NotNil(t, msg.snapshot)
}

func TestSnapshotReloadFailureLeavesSnapshotNil(t *testing.T) {
	gw := newFakeGateway()
	gw.fail(api.EndpointStoreData, 503)
	a := Actions{Gateway: gw}

	msg, ok := a.LoadStore()().(syncMsg)
	require.True(t, ok)
	assert.Nil(t, msg.snapshot)
}

func TestLoadPanelsBatchFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(api.EndpointBusinessSignals, `{"ok": true, "data": [{"name": "Tea"}]}`)
	gw.fail(api.EndpointCompetitors, 500)
	a := Actions{Gateway: gw}

	msg, ok := a.LoadPanels()().(syncMsg)
	require.True(t, ok)

	// One failed panel fails the whole batch; nothing is partially applied.
	assert.Nil(t, msg.panels)
	assert.Contains(t, msg.note, "competitor prices")
}

func TestLoadPanelsUsesConfiguredLogLimit(t *testing.T) {
	gw := newFakeGateway()
	a := Actions{Gateway: gw, LogLimit: 5}

	_, ok := a.LoadPanels()().(syncMsg)
	require.True(t, ok)
	assert.Contains(t, gw.callsCopy(), fmt.Sprintf("%s?limit=5", api.EndpointAgentLogs))
}

func TestRunAgentReturnsFreshDecisions(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(api.EndpointRunAgent,
		`{"ok": true, "data": [
			{"product_id": 3, "name": "Tea", "action": "discount", "success": true, "action_value": 10},
			{"product_id": 5, "action": "hold", "success": false, "action_value": "x"}
		]}`)
	gw.respond(api.EndpointAgentState, `{"has_pending": true}`)
	a := Actions{Gateway: gw}

	msg, ok := a.RunAgent()().(syncMsg)
	require.True(t, ok)

	assert.True(t, msg.ranAgent)
	require.Len(t, msg.decisions, 2)
	assert.Equal(t, "Tea", msg.decisions[0].Label())
	assert.Equal(t, "Product 5", msg.decisions[1].Label())
	require.NotNil(t, msg.pending)
	assert.True(t, *msg.pending)
}

func TestApplyDecisionsReportsOutcome(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(api.EndpointApplyDecisions, `{"ok": true, "applied": 3}`)
	gw.respond(api.EndpointAgentState, `{"has_pending": false}`)
	a := Actions{Gateway: gw}

	msg, ok := a.ApplyDecisions()().(syncMsg)
	require.True(t, ok)

	assert.True(t, msg.applied)
	require.NotNil(t, msg.pending)
	assert.False(t, *msg.pending)
}

func TestRefreshFetchesEverything(t *testing.T) {
	gw := newFakeGateway()
	gw.respond(api.EndpointHealth, `{"mode": "db"}`)
	gw.respond(api.EndpointStoreData, `{"source": "db", "products": [{"id": 1, "name": "Tea"}]}`)
	a := Actions{Gateway: gw}

	msg, ok := a.Refresh()().(syncMsg)
	require.True(t, ok)

	require.NotNil(t, msg.health)
	assert.Equal(t, "Live DB Mode", msg.health.ModeLabel())
	require.NotNil(t, msg.snapshot)
	require.NotNil(t, msg.panels)
	require.NotNil(t, msg.pending)
}
