package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"shopnerd/internal/agent"
	"shopnerd/internal/store"
)

// Endpoints consumed from the commerce backend. Paths match the service
// contract exactly; mutating endpoints take JSON bodies.
const (
	EndpointHealth          = "/health"
	EndpointStoreData       = "/store-data"
	EndpointAgentState      = "/agent-state"
	EndpointBusinessSignals = "/business-signals"
	EndpointCompetitors     = "/competitor-prices"
	EndpointStrategyPreview = "/strategy-preview"
	EndpointAgentLogs       = "/agent-logs"
	EndpointRunAgent        = "/run-agent"
	EndpointToggleLike      = "/toggle-like"
	EndpointToggleWishlist  = "/wishlist/toggle"
	EndpointCartAdd         = "/cart/add"
	EndpointCartRemove      = "/cart/remove"
	EndpointSimPurchase     = "/simulate-purchase"
	EndpointSimSales        = "/simulate-sales"
	EndpointApplyDecisions  = "/apply-agent-decisions"
)

// ProductPayload is the body of toggle-like, wishlist/toggle, and
// cart/remove calls.
type ProductPayload struct {
	ProductID int `json:"product_id"`
}

// QuantityPayload is the body of cart/add and simulate-purchase calls.
type QuantityPayload struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// Health is the decoded /health response.
type Health struct {
	Mode string `json:"mode"`
}

// ModeLabel maps the server mode tag to the human label shown in the
// header.
func (h Health) ModeLabel() string {
	if h.Mode == "db" {
		return "Live DB Mode"
	}
	return "Demo Mode (DB Offline)"
}

// PendingState is the decoded /agent-state response.
type PendingState struct {
	HasPending bool `json:"has_pending"`
}

// Signal is one business-signals row.
type Signal struct {
	ProductID  int    `json:"product_id"`
	Name       string `json:"name"`
	SalesTrend string `json:"sales_trend"`
	StockRisk  string `json:"stock_risk"`
	Stock      int    `json:"stock"`
	Demand     int    `json:"demand"`
}

// Competitor is one competitor-prices row.
type Competitor struct {
	ProductID       int     `json:"product_id"`
	Name            string  `json:"name"`
	OurPrice        float64 `json:"our_price"`
	CompetitorPrice float64 `json:"competitor_price"`
	GapPercent      float64 `json:"gap_percent"`
}

// StrategyOption is one candidate plan inside a strategy preview.
type StrategyOption struct {
	Strategy        string  `json:"strategy"`
	ProjectedProfit float64 `json:"projected_profit"`
}

// Strategy is one strategy-preview row. Selected may be absent.
type Strategy struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Selected  *StrategyOption `json:"selected"`
	Reason    string          `json:"reason"`
}

// SelectedStrategy returns the chosen plan name, "none" when absent.
func (s Strategy) SelectedStrategy() string {
	if s.Selected == nil || s.Selected.Strategy == "" {
		return "none"
	}
	return s.Selected.Strategy
}

// SelectedProfit returns the projected profit of the chosen plan, 0
// when absent.
func (s Strategy) SelectedProfit() float64 {
	if s.Selected == nil {
		return 0
	}
	return s.Selected.ProjectedProfit
}

// dataEnvelope is the generic {ok, data} wrapper used by list endpoints.
type dataEnvelope struct {
	OK   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

// DecodeSnapshot decodes a /store-data result. The boolean is false on
// any failure, in which case the previous cache must be left untouched.
func DecodeSnapshot(res Result) (store.Snapshot, bool) {
	if !res.OK {
		return store.Snapshot{}, false
	}
	snap := store.EmptySnapshot()
	if err := json.Unmarshal(res.Data, &snap); err != nil {
		return store.Snapshot{}, false
	}
	return snap, true
}

// DecodeHealth decodes a /health result, defaulting the mode tag.
func DecodeHealth(res Result) Health {
	h := Health{Mode: "unknown"}
	if res.OK {
		_ = json.Unmarshal(res.Data, &h)
		if h.Mode == "" {
			h.Mode = "unknown"
		}
	}
	return h
}

// DecodePending decodes an /agent-state result. Any failure reads as
// no pending decisions, which keeps the apply control disabled.
func DecodePending(res Result) bool {
	if !res.OK {
		return false
	}
	var p PendingState
	if err := json.Unmarshal(res.Data, &p); err != nil {
		return false
	}
	return p.HasPending
}

// decodeList decodes a {ok, data: [...]} envelope into dst, mapping a
// missing or malformed data field to an empty list rather than an error.
func decodeList(res Result, dst any) error {
	if !res.OK {
		return fmt.Errorf("request failed with status %d", res.Status)
	}
	var env dataEnvelope
	if err := json.Unmarshal(res.Data, &env); err != nil {
		return fmt.Errorf("failed to parse response envelope: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("failed to parse rows: %w", err)
	}
	return nil
}

// DecodeSignals decodes a /business-signals result.
func DecodeSignals(res Result) ([]Signal, error) {
	var rows []Signal
	err := decodeList(res, &rows)
	return rows, err
}

// DecodeCompetitors decodes a /competitor-prices result.
func DecodeCompetitors(res Result) ([]Competitor, error) {
	var rows []Competitor
	err := decodeList(res, &rows)
	return rows, err
}

// DecodeStrategies decodes a /strategy-preview result.
func DecodeStrategies(res Result) ([]Strategy, error) {
	var rows []Strategy
	err := decodeList(res, &rows)
	return rows, err
}

// DecodeDecisions decodes /agent-logs and /run-agent results, which
// share the decision-list shape.
func DecodeDecisions(res Result) ([]agent.Decision, error) {
	var rows []agent.Decision
	err := decodeList(res, &rows)
	return rows, err
}

// Post is shorthand for a JSON POST.
func Post(body any) Options {
	return Options{Method: http.MethodPost, Body: body}
}
