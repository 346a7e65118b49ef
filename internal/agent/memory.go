// Package agent models the pricing agent's decision records and derives
// the execution-memory summary shown on the dashboard. The agent itself
// is an opaque remote service; nothing here performs I/O.
package agent

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Decision is one pricing action taken (or proposed) by the agent.
type Decision struct {
	ProductID   int         `json:"product_id"`
	Name        string      `json:"name,omitempty"`
	Action      string      `json:"action"`
	BeforePrice float64     `json:"before_price"`
	AfterPrice  float64     `json:"after_price"`
	Reason      string      `json:"reason"`
	Success     bool        `json:"success"`
	ActionValue ActionValue `json:"action_value"`
}

// Label returns the display name for a decision, falling back to the
// product id when the backend omits the name.
func (d Decision) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("Product %d", d.ProductID)
}

// ActionValue is a number that tolerates absent, null, string, or
// otherwise non-numeric JSON, all of which coerce to 0.
type ActionValue float64

// UnmarshalJSON accepts numbers, numeric strings, and garbage (as 0).
func (v *ActionValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*v = ActionValue(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			*v = ActionValue(f)
			return nil
		}
	}
	*v = 0
	return nil
}

// BuildMemory aggregates a decision-log sequence into the human-readable
// execution-memory summary. Total over any input; an empty log yields
// the fixed sentinel rather than a divide-by-zero summary.
func BuildMemory(logs []Decision) string {
	if len(logs) == 0 {
		return "No execution memory yet."
	}

	success := 0
	sum := 0.0
	for _, d := range logs {
		if d.Success {
			success++
		}
		sum += float64(d.ActionValue)
	}
	avg := sum / float64(len(logs))

	return strings.Join([]string{
		fmt.Sprintf("Total decisions: %d", len(logs)),
		fmt.Sprintf("Successful actions: %d", success),
		fmt.Sprintf("Average discount/action: %.2f%%", avg),
		"Learning: discount when demand weak and stock high.",
	}, "\n")
}
