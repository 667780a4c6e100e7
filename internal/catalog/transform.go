package catalog

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/ideafactory/ideas/internal/model"
)

// ScoreSource supplies market, pain-point, and timing scores for records the
// server sent without them.
type ScoreSource interface {
	Scores(idea *model.Idea) (market, painPoint, timing int)
	// Placeholder reports whether the scores are synthetic.
	Placeholder() bool
}

// PlaceholderScores draws synthetic scores uniformly from [8, 10]. They are
// not real data and exist only so that score filters have something to act
// on until the API serves scores.
type PlaceholderScores struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPlaceholderScores returns a placeholder source seeded with seed.
func NewPlaceholderScores(seed uint64) *PlaceholderScores {
	return &PlaceholderScores{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *PlaceholderScores) Scores(*model.Idea) (int, int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 8 + p.rng.IntN(3), 8 + p.rng.IntN(3), 8 + p.rng.IntN(3)
}

func (p *PlaceholderScores) Placeholder() bool { return true }

// MissingScores leaves absent scores at zero.
type MissingScores struct{}

func (MissingScores) Scores(*model.Idea) (int, int, int) { return 0, 0, 0 }

func (MissingScores) Placeholder() bool { return false }

// DefaultIdeaType is assigned when no hint in a record identifies its type.
const DefaultIdeaType = model.IdeaTypeService

var ideaTypeHints = []struct {
	substr string
	typ    model.IdeaType
}{
	{"unicorn", model.IdeaTypeUnicorn},
	{"women", model.IdeaTypeWomenFocused},
	{"rural", model.IdeaTypeRuralFocused},
	{"agri", model.IdeaTypeRuralFocused},
	{"manufactur", model.IdeaTypeManufacturing},
	{"middle", model.IdeaTypeMiddleClass},
	{"service", model.IdeaTypeService},
	{"tech", model.IdeaTypeNewTech},
}

// InferIdeaType derives the idea type of a record. A target audience entry
// naming a type wins; otherwise the category and then the sector are checked
// for known substrings. The second return value is false when the default
// was used.
func InferIdeaType(idea *model.Idea) (model.IdeaType, bool) {
	for _, a := range idea.TargetAudience {
		for _, t := range model.IdeaTypes {
			if strings.EqualFold(strings.TrimSpace(a), string(t)) {
				return t, true
			}
		}
	}
	for _, field := range []string{idea.Category, idea.Sector} {
		lower := strings.ToLower(field)
		for _, h := range ideaTypeHints {
			if strings.Contains(lower, h.substr) {
				return h.typ, true
			}
		}
	}
	return DefaultIdeaType, false
}

// FromIdea converts a remote record into a catalog item. Scores come from the
// record when it carries all three, otherwise from scores.
func FromIdea(idea *model.Idea, scores ScoreSource) model.CatalogItem {
	difficulty, _ := model.ParseDifficulty(idea.DifficultyLevel)
	ideaType, _ := InferIdeaType(idea)

	it := model.CatalogItem{
		ID:                strconv.FormatInt(idea.ID, 10),
		Title:             idea.Title,
		Description:       idea.Description,
		Category:          model.CategorySlug(strings.TrimSpace(idea.Category)),
		Tags:              tagsFor(idea),
		Investment:        investmentFor(idea),
		Difficulty:        difficulty,
		IdeaType:          ideaType,
		SpecialAdvantages: idea.SpecialAdvantages,
		TargetAudience:    idea.TargetAudience,
		Location:          idea.Location,
		ImageURL:          idea.ImageURL,
	}
	if s := strings.TrimSpace(idea.Sector); s != "" {
		it.Subcategory = model.SubcategorySlug(strings.TrimSpace(idea.Category), s)
	}

	if idea.HasScores() {
		it.MarketScore = clampScore(*idea.MarketScore)
		it.PainPointScore = clampScore(*idea.PainPointScore)
		it.TimingScore = clampScore(*idea.TimingScore)
	} else if scores != nil {
		it.MarketScore, it.PainPointScore, it.TimingScore = scores.Scores(idea)
	}
	return it
}

func investmentFor(idea *model.Idea) model.Investment {
	inv := model.Investment{
		Min:      idea.InvestmentNeeded,
		Max:      idea.InvestmentNeeded,
		Currency: model.DefaultCurrency,
	}
	if idea.MinInvestment != nil {
		inv.Min = *idea.MinInvestment
	}
	if idea.MaxInvestment != nil {
		inv.Max = *idea.MaxInvestment
	}
	inv.Min = max(inv.Min, 0)
	inv.Max = max(inv.Max, 0)
	if inv.Min > inv.Max {
		inv.Min, inv.Max = inv.Max, inv.Min
	}
	return inv
}

func tagsFor(idea *model.Idea) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		tags = append(tags, s)
	}
	add(idea.Sector)
	for _, a := range idea.TargetAudience {
		add(a)
	}
	add(idea.Location)
	add(idea.TimeToMarket)
	return tags
}

func clampScore(s int) int {
	return min(max(s, 0), 10)
}
