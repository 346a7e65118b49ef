package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult(body string) Result {
	return Result{OK: true, Status: 200, Data: json.RawMessage(body)}
}

func TestDecodeSnapshot(t *testing.T) {
	body := `{
		"source": "db",
		"products": [{"id": 1, "name": "Tea", "category": "Grocery", "price": 120, "stock": 9}],
		"cart": {"items": [{"product_id": 1, "name": "Tea", "quantity": 2, "subtotal": 240}], "count": 2, "total": 240},
		"likes_count": 4,
		"wishlist_count": 2
	}`
	snap, ok := DecodeSnapshot(okResult(body))
	require.True(t, ok)
	assert.Equal(t, "db", snap.Source)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Tea", snap.Products[0].Name)
	assert.Equal(t, 240.0, snap.Cart.Total)
	assert.Equal(t, 4, snap.LikesCount)
}

func TestDecodeSnapshotFailurePreservesNothing(t *testing.T) {
	_, ok := DecodeSnapshot(Result{OK: false})
	assert.False(t, ok)

	_, ok = DecodeSnapshot(okResult(`not json`))
	assert.False(t, ok)
}

func TestDecodeSnapshotDefaults(t *testing.T) {
	snap, ok := DecodeSnapshot(okResult(`{"source": "demo"}`))
	require.True(t, ok)
	assert.Equal(t, "demo", snap.Source)
	assert.NotNil(t, snap.Products)
	assert.Empty(t, snap.Products)
	assert.Zero(t, snap.Cart.Count)
}

func TestDecodeHealth(t *testing.T) {
	assert.Equal(t, "db", DecodeHealth(okResult(`{"mode": "db"}`)).Mode)
	assert.Equal(t, "unknown", DecodeHealth(Result{OK: false}).Mode)
	assert.Equal(t, "unknown", DecodeHealth(okResult(`{}`)).Mode)
}

func TestHealthModeLabel(t *testing.T) {
	assert.Equal(t, "Live DB Mode", Health{Mode: "db"}.ModeLabel())
	assert.Equal(t, "Demo Mode (DB Offline)", Health{Mode: "demo"}.ModeLabel())
	assert.Equal(t, "Demo Mode (DB Offline)", Health{Mode: "unknown"}.ModeLabel())
}

func TestDecodePending(t *testing.T) {
	assert.True(t, DecodePending(okResult(`{"has_pending": true}`)))
	assert.False(t, DecodePending(okResult(`{"has_pending": false}`)))
	assert.False(t, DecodePending(Result{OK: false}))
	assert.False(t, DecodePending(okResult(`garbage`)))
}

func TestDecodeListEndpoints(t *testing.T) {
	signals, err := DecodeSignals(okResult(`{"ok": true, "data": [{"name": "Tea", "sales_trend": "up", "demand": 82, "stock": 9, "stock_risk": "medium"}]}`))
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "up", signals[0].SalesTrend)
	assert.Equal(t, 82, signals[0].Demand)

	competitors, err := DecodeCompetitors(okResult(`{"ok": true, "data": [{"name": "Tea", "our_price": 120, "competitor_price": 110, "gap_percent": 8.33}]}`))
	require.NoError(t, err)
	require.Len(t, competitors, 1)
	assert.Equal(t, 8.33, competitors[0].GapPercent)

	decisions, err := DecodeDecisions(okResult(`{"ok": true, "data": [{"product_id": 3, "action": "discount", "success": true, "action_value": 8}]}`))
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	assert.Equal(t, 8.0, float64(decisions[0].ActionValue))
}

func TestDecodeListMissingDataIsEmpty(t *testing.T) {
	// Missing or null data is the empty-result case, not an error.
	rows, err := DecodeSignals(okResult(`{"ok": true}`))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = DecodeSignals(okResult(`{"ok": true, "data": null}`))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeListFailures(t *testing.T) {
	_, err := DecodeSignals(Result{OK: false, Status: 500})
	assert.Error(t, err)

	_, err = DecodeSignals(okResult(`not json`))
	assert.Error(t, err)
}

func TestStrategySelected(t *testing.T) {
	raw := `{"ok": true, "data": [
		{"name": "Tea", "selected": {"strategy": "discount_8_percent", "projected_profit": 290.4}},
		{"name": "Rice"}
	]}`
	strategies, err := DecodeStrategies(okResult(raw))
	require.NoError(t, err)
	require.Len(t, strategies, 2)

	assert.Equal(t, "discount_8_percent", strategies[0].SelectedStrategy())
	assert.Equal(t, 290.4, strategies[0].SelectedProfit())
	assert.Equal(t, "none", strategies[1].SelectedStrategy())
	assert.Zero(t, strategies[1].SelectedProfit())
}
