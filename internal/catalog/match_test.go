package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ideafactory/ideas/internal/model"
)

// sampleItems returns a small catalog covering each filter dimension.
func sampleItems() []model.CatalogItem {
	return []model.CatalogItem{
		{
			ID:          "1",
			Title:       "Smart Vertical Farming for Urban Areas",
			Description: "Automated vertical farming system using IoT sensors.",
			Category:    "agriculture",
			Subcategory: "agriculture-agri-tech-solutions",
			Tags:        []string{"Massive market", "Perfect timing"},
			Investment:  model.Investment{Min: 4000000, Max: 16000000, Currency: "₹"},
			Difficulty:  model.DifficultyModerate,
			MarketScore: 9, PainPointScore: 8, TimingScore: 9,
			IdeaType: model.IdeaTypeNewTech,
		},
		{
			ID:          "2",
			Title:       "Women-Only Co-working Spaces",
			Description: "Safe, supportive co-working spaces for women entrepreneurs.",
			Category:    "for-women",
			Subcategory: "for-women-others",
			Tags:        []string{"Clear distribution", "Organic growth"},
			Investment:  model.Investment{Min: 2500000, Max: 8000000, Currency: "₹"},
			Difficulty:  model.DifficultyModerate,
			MarketScore: 7, PainPointScore: 9, TimingScore: 8,
			IdeaType: model.IdeaTypeWomenFocused,
		},
		{
			ID:          "3",
			Title:       "AI-Powered Personal Finance Assistant",
			Description: "Personalized budgeting and financial planning.",
			Category:    "technology",
			Subcategory: "technology-fintech",
			Tags:        []string{"10x better", "Massive market"},
			Investment:  model.Investment{Min: 16000000, Max: 80000000, Currency: "₹"},
			Difficulty:  model.DifficultyChallenging,
			MarketScore: 10, PainPointScore: 9, TimingScore: 9,
			IdeaType: model.IdeaTypeUnicorn,
		},
		{
			ID:          "4",
			Title:       "Home Tiffin Service",
			Description: "Daily home-cooked meals for office workers.",
			Category:    "food-and-beverage",
			Subcategory: "food-and-beverage-catering-services",
			Tags:        []string{"Low capital"},
			Investment:  model.Investment{Min: 500000, Max: 2500000, Currency: "₹"},
			Difficulty:  model.DifficultyEasy,
			MarketScore: 6, PainPointScore: 7, TimingScore: 7,
			IdeaType: model.IdeaTypeMiddleClass,
		},
	}
}

func ids(items []model.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestMatches_EmptyCriteriaMatchesEverything(t *testing.T) {
	for _, it := range sampleItems() {
		if !Matches(it, model.FilterCriteria{}) {
			t.Errorf("item %s did not match empty criteria", it.ID)
		}
	}
}

func TestMatches_SearchTitleWinsOverOtherFields(t *testing.T) {
	it := sampleItems()[0]
	it.Description = ""
	it.Tags = nil
	if !Matches(it, model.FilterCriteria{SearchTerm: "VERTICAL farm"}) {
		t.Error("case-folded title substring should match")
	}
}

func TestMatches_SearchTagsAndDescription(t *testing.T) {
	items := sampleItems()
	if got := ids(Filter(items, model.FilterCriteria{SearchTerm: "massive"})); !cmp.Equal(got, []string{"1", "3"}) {
		t.Errorf("tag search = %v", got)
	}
	if got := ids(Filter(items, model.FilterCriteria{SearchTerm: "office workers"})); !cmp.Equal(got, []string{"4"}) {
		t.Errorf("description search = %v", got)
	}
	if got := Filter(items, model.FilterCriteria{SearchTerm: "spaceship"}); len(got) != 0 {
		t.Errorf("unmatched search = %v", ids(got))
	}
}

func TestMatches_CategoryAndSubcategory(t *testing.T) {
	items := sampleItems()
	if got := ids(Filter(items, model.FilterCriteria{Category: "technology"})); !cmp.Equal(got, []string{"3"}) {
		t.Errorf("category = %v", got)
	}
	c := model.FilterCriteria{Category: "agriculture", Subcategory: "agriculture-agri-tech-solutions"}
	if got := ids(Filter(items, c)); !cmp.Equal(got, []string{"1"}) {
		t.Errorf("subcategory = %v", got)
	}
	c.Subcategory = "agriculture-organic-farming"
	if got := Filter(items, c); len(got) != 0 {
		t.Errorf("mismatched subcategory = %v", ids(got))
	}
}

func TestMatches_InvestmentRange(t *testing.T) {
	it := sampleItems()[3] // {500000, 2500000}
	for _, tc := range []struct {
		bucket string
		want   bool
	}{
		{"500000-2500000", true},
		{"0-50000", false},
		{"50000-500000", false},
		{"2500000-8000000", false},
	} {
		if got := Matches(it, model.FilterCriteria{InvestmentRange: tc.bucket}); got != tc.want {
			t.Errorf("bucket %s: Matches = %v, want %v", tc.bucket, got, tc.want)
		}
	}
}

func TestMatches_InvestmentOpenEndedBucket(t *testing.T) {
	it := sampleItems()[2]
	it.Investment = model.Investment{Min: 40000000, Max: 900000000}
	if !Matches(it, model.FilterCriteria{InvestmentRange: "40000000+"}) {
		t.Error("open-ended bucket should enclose any max above its low bound")
	}
	it.Investment.Min = 39999999
	if Matches(it, model.FilterCriteria{InvestmentRange: "40000000+"}) {
		t.Error("min below the low bound must not match")
	}
}

func TestMatches_DifficultyCaseInsensitive(t *testing.T) {
	items := sampleItems()
	for _, v := range []string{"easy", "EASY", "Easy"} {
		if got := ids(Filter(items, model.FilterCriteria{Difficulty: v})); !cmp.Equal(got, []string{"4"}) {
			t.Errorf("difficulty %q = %v", v, got)
		}
	}
}

func TestMatches_TopScoreBucket(t *testing.T) {
	var items []model.CatalogItem
	for i, score := range []int{6, 9, 10} {
		it := sampleItems()[0]
		it.ID = string(rune('a' + i))
		it.MarketScore = score
		items = append(items, it)
	}
	got := ids(Filter(items, model.FilterCriteria{MarketScore: "9-10"}))
	if !cmp.Equal(got, []string{"b", "c"}) {
		t.Errorf("9-10 bucket = %v, want [b c]", got)
	}
}

func TestMatches_ScoreBucketsAreAnded(t *testing.T) {
	items := sampleItems()
	c := model.FilterCriteria{MarketScore: "7-8", PainPointScore: "9-10", TimingScore: "7-8"}
	if got := ids(Filter(items, c)); !cmp.Equal(got, []string{"2"}) {
		t.Errorf("combined score buckets = %v", got)
	}
}

func TestMatches_IdeaType(t *testing.T) {
	items := sampleItems()
	for _, tc := range []struct {
		slug string
		want []string
	}{
		{"new-tech", []string{"1"}},
		{"women-focused", []string{"2"}},
		{"unicorn-ideas", []string{"3"}},
		{"middle-class", []string{"4"}},
		{"rural-focused", []string{}},
	} {
		got := ids(Filter(items, model.FilterCriteria{IdeaType: tc.slug}))
		if !cmp.Equal(got, tc.want) {
			t.Errorf("idea type %s = %v, want %v", tc.slug, got, tc.want)
		}
	}
}

func TestMatches_MalformedBucketPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for malformed bucket")
		}
	}()
	Matches(sampleItems()[0], model.FilterCriteria{InvestmentRange: "lots"})
}

func TestFilter_Idempotent(t *testing.T) {
	items := sampleItems()
	c := model.FilterCriteria{SearchTerm: "a", Difficulty: "moderate"}
	first := Filter(items, c)
	second := Filter(items, c)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("filter not idempotent (-first +second):\n%s", diff)
	}
	if again := Filter(first, c); !cmp.Equal(ids(again), ids(first)) {
		t.Errorf("refiltering changed result: %v vs %v", ids(again), ids(first))
	}
}
