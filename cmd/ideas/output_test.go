package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ideafactory/ideas/internal/model"
	"github.com/ideafactory/ideas/internal/ui"
)

func TestFormatRupees(t *testing.T) {
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{50000, "₹50,000"},
		{500000, "₹5,00,000"},
		{2500000, "₹25,00,000"},
		{40000000, "₹4,00,00,000"},
		{-1500, "₹-1,500"},
	} {
		if got := formatRupees(tc.in); got != tc.want {
			t.Errorf("formatRupees(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("Smart Vertical Farming", 10); got != "Smart V..." {
		t.Errorf("truncate long = %q", got)
	}
	// Multi-byte runes are not split.
	if got := truncate("₹₹₹₹₹₹₹₹₹₹₹₹", 6); got != "₹₹₹..." {
		t.Errorf("truncate runes = %q", got)
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken("tok_verylongsecret"); got != "tok_very..." {
		t.Errorf("maskToken = %q", got)
	}
	if got := maskToken("short"); got != "short" {
		t.Errorf("maskToken short = %q", got)
	}
}

func TestPrintItemTable(t *testing.T) {
	ui.ForceNoColor()
	items := []model.CatalogItem{{
		ID: "7", Title: "Home Tiffin Service", Category: "food-and-beverage",
		Investment: model.Investment{Min: 500000, Max: 2500000},
		Difficulty: model.DifficultyEasy, MarketScore: 6, PainPointScore: 7, TimingScore: 9,
		IsFavorite: true,
	}}
	var buf bytes.Buffer
	if err := printItemTable(&buf, items, 12); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Home Tiffin Service", "₹5,00,000 - ₹25,00,000", "Easy", "* ", "1 ideas (12 total)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
