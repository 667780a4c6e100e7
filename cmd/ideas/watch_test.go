package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ideafactory/ideas/internal/model"
)

func TestDiffItems(t *testing.T) {
	seen := map[string]string{}
	a := model.CatalogItem{ID: "1", Title: "Tiffin", Difficulty: model.DifficultyEasy}
	b := model.CatalogItem{ID: "2", Title: "Solar dryers", Difficulty: model.DifficultyModerate}
	c := model.CatalogItem{ID: "3", Title: "Drone survey", Difficulty: model.DifficultyChallenging}

	changed, removed := diffItems([]model.CatalogItem{a, b, c}, seen)
	if len(changed) != 3 || len(removed) != 0 {
		t.Fatalf("first load: changed=%d removed=%v", len(changed), removed)
	}

	// Nothing changed.
	changed, removed = diffItems([]model.CatalogItem{a, b, c}, seen)
	if len(changed) != 0 || len(removed) != 0 {
		t.Fatalf("steady state: changed=%d removed=%v", len(changed), removed)
	}

	// Scores move on every load with placeholder scores; they are not a change.
	a.MarketScore, a.TimingScore = 9, 2
	b.Title = "Solar crop dryers"
	changed, removed = diffItems([]model.CatalogItem{b, a}, seen)
	if diff := cmp.Diff([]string{"2"}, ids(changed)); diff != "" {
		t.Errorf("changed IDs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"3"}, removed); diff != "" {
		t.Errorf("removed IDs mismatch (-want +got):\n%s", diff)
	}
	if _, ok := seen["3"]; ok {
		t.Error("removed item should be dropped from seen")
	}

	// Toggling a favorite is reported.
	a.IsFavorite = true
	changed, _ = diffItems([]model.CatalogItem{a, b}, seen)
	if diff := cmp.Diff([]string{"1"}, ids(changed)); diff != "" {
		t.Errorf("favorite change mismatch (-want +got):\n%s", diff)
	}
}

func ids(items []model.CatalogItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
