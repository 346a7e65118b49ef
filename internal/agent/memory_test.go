package agent

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMemoryEmpty(t *testing.T) {
	assert.Equal(t, "No execution memory yet.", BuildMemory(nil))
	assert.Equal(t, "No execution memory yet.", BuildMemory([]Decision{}))
}

func TestBuildMemoryCoercesNonNumeric(t *testing.T) {
	// Mirrors the backend sending a junk action_value: it counts as 0
	// in the average, never as an error.
	var logs []Decision
	raw := `[{"success": true, "action_value": 10}, {"success": false, "action_value": "x"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &logs))

	summary := BuildMemory(logs)
	assert.Contains(t, summary, "Total decisions: 2")
	assert.Contains(t, summary, "Successful actions: 1")
	assert.Contains(t, summary, "Average discount/action: 5.00%")
	assert.Contains(t, summary, "Learning: discount when demand weak and stock high.")
}

func TestBuildMemoryAverageFormat(t *testing.T) {
	logs := []Decision{
		{Success: true, ActionValue: 7},
		{Success: true, ActionValue: 8},
		{Success: false, ActionValue: 0},
	}
	summary := BuildMemory(logs)
	assert.Contains(t, summary, "Average discount/action: 5.00%")
	assert.Equal(t, 4, len(strings.Split(summary, "\n")))
}

func TestActionValueUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`12.5`, 12.5},
		{`"4.5"`, 4.5},
		{`null`, 0},
		{`"oops"`, 0},
		{`{"nested": true}`, 0},
		{`[1,2]`, 0},
	}
	for _, tt := range tests {
		var v ActionValue
		require.NoError(t, v.UnmarshalJSON([]byte(tt.raw)), "raw %s", tt.raw)
		assert.Equal(t, tt.want, float64(v), "raw %s", tt.raw)
	}
}

func TestDecisionLabel(t *testing.T) {
	assert.Equal(t, "Mango Juice", Decision{ProductID: 2, Name: "Mango Juice"}.Label())
	assert.Equal(t, "Product 7", Decision{ProductID: 7}.Label())
}
