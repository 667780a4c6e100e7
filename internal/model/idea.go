package model

import "strings"

// Difficulty is the build difficulty of a catalog item.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "Easy"
	DifficultyModerate    Difficulty = "Moderate"
	DifficultyChallenging Difficulty = "Challenging"
)

// String returns the string representation of the difficulty.
func (d Difficulty) String() string {
	return string(d)
}

// IsValid checks whether the difficulty is a known value.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
		return true
	}
	return false
}

// ParseDifficulty normalizes a free-form difficulty string. Matching is
// case-insensitive and accepts the server's Easy/Medium/Hard vocabulary.
// The second return value is false when s was not recognized, in which case
// DifficultyModerate is returned.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "beginner", "low":
		return DifficultyEasy, true
	case "moderate", "medium", "intermediate":
		return DifficultyModerate, true
	case "challenging", "hard", "difficult", "advanced", "high":
		return DifficultyChallenging, true
	}
	return DifficultyModerate, false
}

// IdeaType is the coarse classification label shown on catalog cards.
type IdeaType string

const (
	IdeaTypeNewTech       IdeaType = "New Tech"
	IdeaTypeWomenFocused  IdeaType = "Women Focused"
	IdeaTypeUnicorn       IdeaType = "Unicorn Ideas"
	IdeaTypeManufacturing IdeaType = "Manufacturing"
	IdeaTypeService       IdeaType = "Service Ideas"
	IdeaTypeMiddleClass   IdeaType = "Middle Class"
	IdeaTypeRuralFocused  IdeaType = "Rural Focused"
)

// String returns the string representation of the idea type.
func (t IdeaType) String() string {
	return string(t)
}

// IsValid checks whether the idea type is one of the seven known labels.
func (t IdeaType) IsValid() bool {
	_, ok := ideaTypeSlugs[t]
	return ok
}

// Slug returns the filter value for the idea type (e.g. "new-tech").
func (t IdeaType) Slug() string {
	return ideaTypeSlugs[t]
}

var ideaTypeSlugs = map[IdeaType]string{
	IdeaTypeNewTech:       "new-tech",
	IdeaTypeWomenFocused:  "women-focused",
	IdeaTypeUnicorn:       "unicorn-ideas",
	IdeaTypeManufacturing: "manufacturing",
	IdeaTypeService:       "service-ideas",
	IdeaTypeMiddleClass:   "middle-class",
	IdeaTypeRuralFocused:  "rural-focused",
}

// IdeaTypes lists the idea types in display order.
var IdeaTypes = []IdeaType{
	IdeaTypeNewTech,
	IdeaTypeWomenFocused,
	IdeaTypeUnicorn,
	IdeaTypeManufacturing,
	IdeaTypeService,
	IdeaTypeMiddleClass,
	IdeaTypeRuralFocused,
}

// IdeaTypeForSlug translates a filter slug into its idea type label.
func IdeaTypeForSlug(slug string) (IdeaType, bool) {
	for t, s := range ideaTypeSlugs {
		if s == slug {
			return t, true
		}
	}
	return "", false
}

// Investment is a closed range of required capital.
type Investment struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// DefaultCurrency is the symbol attached to investments read from the API.
const DefaultCurrency = "₹"

// CatalogItem is one business idea as rendered in the catalog.
type CatalogItem struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Category          string     `json:"category"`
	Subcategory       string     `json:"subcategory,omitempty"`
	Tags              []string   `json:"tags"`
	Investment        Investment `json:"investment"`
	Difficulty        Difficulty `json:"difficulty"`
	MarketScore       int        `json:"marketScore"`
	PainPointScore    int        `json:"painPointScore"`
	TimingScore       int        `json:"timingScore"`
	IdeaType          IdeaType   `json:"ideaType"`
	SpecialAdvantages []string   `json:"specialAdvantages,omitempty"`
	TargetAudience    []string   `json:"targetAudience,omitempty"`
	Location          string     `json:"location,omitempty"`
	ImageURL          string     `json:"image,omitempty"`
	IsFavorite        bool       `json:"isFavorite"`
}

// Idea is an idea record as served by the remote API.
type Idea struct {
	ID                  int64    `json:"id,omitempty"`
	Title               string   `json:"title"`
	Description         string   `json:"description,omitempty"`
	Category            string   `json:"category"`
	Sector              string   `json:"sector,omitempty"`
	InvestmentNeeded    float64  `json:"investmentNeeded"`
	ExpertiseNeeded     string   `json:"expertiseNeeded,omitempty"`
	TrainingNeeded      string   `json:"trainingNeeded,omitempty"`
	Resources           string   `json:"resources,omitempty"`
	SuccessExamples     string   `json:"successExamples,omitempty"`
	VideoURL            string   `json:"videoUrl,omitempty"`
	GovernmentSubsidies string   `json:"governmentSubsidies,omitempty"`
	FundingOptions      string   `json:"fundingOptions,omitempty"`
	BankAssistance      string   `json:"bankAssistance,omitempty"`
	TargetAudience      []string `json:"targetAudience,omitempty"`
	SpecialAdvantages   []string `json:"specialAdvantages,omitempty"`
	DifficultyLevel     string   `json:"difficultyLevel,omitempty"`
	TimeToMarket        string   `json:"timeToMarket,omitempty"`
	Location            string   `json:"location,omitempty"`
	ImageURL            string   `json:"imageUrl,omitempty"`
	IsActive            *bool    `json:"isActive,omitempty"`

	// Optional fields some deployments attach; nil when the server omits them.
	MinInvestment  *float64 `json:"minInvestment,omitempty"`
	MaxInvestment  *float64 `json:"maxInvestment,omitempty"`
	MarketScore    *int     `json:"marketScore,omitempty"`
	PainPointScore *int     `json:"painPointScore,omitempty"`
	TimingScore    *int     `json:"timingScore,omitempty"`
}

// Active reports whether the idea is visible in the public catalog. Records
// without an isActive flag are treated as active.
func (i *Idea) Active() bool {
	return i.IsActive == nil || *i.IsActive
}

// HasScores reports whether the server supplied all three scores.
func (i *Idea) HasScores() bool {
	return i.MarketScore != nil && i.PainPointScore != nil && i.TimingScore != nil
}
