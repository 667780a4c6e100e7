// Package catalog holds the in-memory idea catalog: the filter predicate,
// the transformation from remote records, and the store that ties them
// together.
package catalog

import (
	"fmt"
	"strings"

	"github.com/ideafactory/ideas/internal/model"
)

// Matches reports whether item satisfies every non-empty criterion in c.
//
// Criteria are expected to have passed FilterCriteria.Validate. A bucket
// that does not decode is a programming error and panics.
func Matches(item model.CatalogItem, c model.FilterCriteria) bool {
	if c.SearchTerm != "" && !matchesSearch(item, c.SearchTerm) {
		return false
	}
	if c.Category != "" && item.Category != c.Category {
		return false
	}
	if c.Subcategory != "" && item.Subcategory != c.Subcategory {
		return false
	}
	if c.InvestmentRange != "" {
		r := mustRange(model.ParseInvestmentRange(c.InvestmentRange))
		if !r.Encloses(item.Investment.Min, item.Investment.Max) {
			return false
		}
	}
	if c.Difficulty != "" && !strings.EqualFold(string(item.Difficulty), c.Difficulty) {
		return false
	}
	for _, s := range []struct {
		bucket string
		score  int
	}{
		{c.MarketScore, item.MarketScore},
		{c.PainPointScore, item.PainPointScore},
		{c.TimingScore, item.TimingScore},
	} {
		if s.bucket == "" {
			continue
		}
		if !mustRange(model.ParseScoreRange(s.bucket)).Contains(float64(s.score)) {
			return false
		}
	}
	if c.IdeaType != "" {
		t, ok := model.IdeaTypeForSlug(c.IdeaType)
		if !ok {
			panic(fmt.Sprintf("catalog: unknown idea type slug %q", c.IdeaType))
		}
		if item.IdeaType != t {
			return false
		}
	}
	return true
}

func matchesSearch(item model.CatalogItem, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(item.Title), term) ||
		strings.Contains(strings.ToLower(item.Description), term) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func mustRange(r model.Range, err error) model.Range {
	if err != nil {
		panic("catalog: " + err.Error())
	}
	return r
}

// Filter returns the items matching c, preserving input order.
func Filter(items []model.CatalogItem, c model.FilterCriteria) []model.CatalogItem {
	out := make([]model.CatalogItem, 0, len(items))
	for _, it := range items {
		if Matches(it, c) {
			out = append(out, it)
		}
	}
	return out
}
