package submission

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ideafactory/ideas/internal/model"
)

// amount multipliers for the Indian numbering words the form accepts.
var multipliers = []struct {
	suffix string
	factor float64
}{
	{"crore", 1e7},
	{"cr", 1e7},
	{"lakhs", 1e5},
	{"lakh", 1e5},
	{"lac", 1e5},
	{"l", 1e5},
	{"k", 1e3},
}

// ParseAmount reads a free-text investment figure such as "₹25,00,000",
// "25 lakh" or "1.5cr". It reports false when no number can be read.
func ParseAmount(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		if r == ',' || r == '₹' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "rs.")
	s = strings.TrimPrefix(s, "rs")
	if s == "" {
		return 0, false
	}

	factor := 1.0
	for _, m := range multipliers {
		if rest, ok := strings.CutSuffix(s, m.suffix); ok && rest != "" {
			s, factor = rest, m.factor
			break
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v * factor, true
}

// ToProposal builds the submission payload from form fields. Category and
// timeframe values are sent as their display labels; an investment figure
// that cannot be parsed is carried as text only. The proposal starts inactive
// until an administrator publishes it.
func ToProposal(fields map[string]string, clientRef string) *model.IdeaProposal {
	get := func(name string) string { return strings.TrimSpace(fields[name]) }

	inactive := false
	p := &model.IdeaProposal{
		Idea: model.Idea{
			Title:           get(model.FieldTitle),
			Description:     get(model.FieldDescription),
			Category:        model.OptionLabel(model.IdeaCategories, get(model.FieldCategory)),
			Resources:       get(model.FieldResources),
			ExpertiseNeeded: get(model.FieldExpertise),
			TimeToMarket:    model.OptionLabel(model.TimeframeOptions, get(model.FieldTimeframe)),
			IsActive:        &inactive,
		},
		TargetMarket:   get(model.FieldTargetMarket),
		InvestmentText: get(model.FieldInvestmentNeeded),
		ExpectedROI:    get(model.FieldExpectedROI),
		Challenges:     get(model.FieldChallenges),
		ContactName:    get(model.FieldName),
		ContactEmail:   get(model.FieldContactEmail),
		ContactPhone:   get(model.FieldContactPhone),
		ClientRef:      clientRef,
	}
	if amount, ok := ParseAmount(p.InvestmentText); ok {
		p.InvestmentNeeded = amount
	}
	for _, a := range strings.Split(p.TargetMarket, ",") {
		if a = strings.TrimSpace(a); a != "" {
			p.TargetAudience = append(p.TargetAudience, a)
		}
	}
	return p
}
