package ui

import (
	"strings"
	"testing"
)

func TestListPanelEmpty(t *testing.T) {
	p := NewListPanel("Signals")
	styles := DefaultStyles()
	view := p.View(styles, 40)

	if !strings.Contains(view, "Signals") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "No data") {
		t.Error("View missing empty placeholder")
	}
}

func TestListPanelRows(t *testing.T) {
	p := NewListPanel("Signals")
	p.Empty = "should not appear"
	p.SetRows([]Row{
		{Headline: "Tea", Detail: "Trend: up"},
		{Headline: "Rice"},
	})

	styles := DefaultStyles()
	view := p.View(styles, 40)
	t.Logf("View:\n%q", view)

	for _, want := range []string{"Tea", "Trend: up", "Rice"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
	if strings.Contains(view, "should not appear") {
		t.Error("placeholder rendered despite rows")
	}
}

func TestListPanelCustomEmpty(t *testing.T) {
	p := NewListPanel("Cart")
	p.Empty = "Your cart is empty."
	view := p.View(DefaultStyles(), 40)
	if !strings.Contains(view, "Your cart is empty.") {
		t.Error("View missing custom placeholder")
	}
}
