package model

import (
	"fmt"
	"unicode/utf8"
)

// FactorType is the SWOT quadrant of an internal-factors group.
type FactorType string

const (
	FactorStrengths     FactorType = "STRENGTHS"
	FactorWeaknesses    FactorType = "WEAKNESSES"
	FactorOpportunities FactorType = "OPPORTUNITIES"
	FactorThreats       FactorType = "THREATS"
)

// FactorTypes lists the quadrants in display order.
var FactorTypes = []FactorType{FactorStrengths, FactorWeaknesses, FactorOpportunities, FactorThreats}

func (t FactorType) IsValid() bool {
	switch t {
	case FactorStrengths, FactorWeaknesses, FactorOpportunities, FactorThreats:
		return true
	}
	return false
}

// PriorityLevel ranks an investment line item.
type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "HIGH"
	PriorityMedium PriorityLevel = "MEDIUM"
	PriorityLow    PriorityLevel = "LOW"
)

func (p PriorityLevel) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// SchemeType is the provider kind of a funding scheme.
type SchemeType string

const (
	SchemeGovernment SchemeType = "GOVERNMENT"
	SchemeBank       SchemeType = "BANK"
	SchemePrivate    SchemeType = "PRIVATE"
	SchemeNGO        SchemeType = "NGO"
)

func (t SchemeType) IsValid() bool {
	switch t {
	case SchemeGovernment, SchemeBank, SchemePrivate, SchemeNGO:
		return true
	}
	return false
}

// SchemeCategory is the kind of support a scheme gives.
type SchemeCategory string

const (
	SchemeSubsidy  SchemeCategory = "SUBSIDY"
	SchemeLoan     SchemeCategory = "LOAN"
	SchemeGrant    SchemeCategory = "GRANT"
	SchemeTraining SchemeCategory = "TRAINING"
)

// InternalFactors is one SWOT quadrant for an idea.
type InternalFactors struct {
	ID         int64      `json:"id,omitempty"`
	IdeaID     int64      `json:"ideaId,omitempty"`
	FactorType FactorType `json:"factorType"`
	Factors    []string   `json:"factors"`
	ColorCode  string     `json:"colorCode,omitempty"`
	IconCode   string     `json:"iconCode,omitempty"`
}

// IdeaInvestment is one line item of an idea's startup cost.
type IdeaInvestment struct {
	ID                 int64         `json:"id,omitempty"`
	IdeaID             int64         `json:"ideaId,omitempty"`
	InvestmentCategory string        `json:"investmentCategory"`
	Amount             float64       `json:"amount"`
	Description        string        `json:"description,omitempty"`
	PriorityLevel      PriorityLevel `json:"priorityLevel,omitempty"`
	IsOptional         bool          `json:"isOptional"`
	PaymentTerms       string        `json:"paymentTerms,omitempty"`
	SupplierInfo       string        `json:"supplierInfo,omitempty"`
}

// InvestmentSummary is the investment breakdown with its total.
type InvestmentSummary struct {
	Investments     []IdeaInvestment `json:"investments"`
	TotalInvestment float64          `json:"totalInvestment"`
	InvestmentCount int              `json:"investmentCount"`
}

// Scheme is a government, bank, private or NGO programme relevant to an idea.
type Scheme struct {
	ID                  int64          `json:"id,omitempty"`
	IdeaID              int64          `json:"ideaId,omitempty"`
	SchemeName          string         `json:"schemeName"`
	SchemeType          SchemeType     `json:"schemeType,omitempty"`
	SchemeCategory      SchemeCategory `json:"schemeCategory,omitempty"`
	RegionState         string         `json:"regionState,omitempty"`
	Description         string         `json:"description,omitempty"`
	EligibilityCriteria string         `json:"eligibilityCriteria,omitempty"`
	MaximumAmount       *float64       `json:"maximumAmount,omitempty"`
	InterestRate        *float64       `json:"interestRate,omitempty"`
	RepaymentPeriod     string         `json:"repaymentPeriod,omitempty"`
	ApplicationDeadline string         `json:"applicationDeadline,omitempty"`
	ContactInfo         string         `json:"contactInfo,omitempty"`
	WebsiteURL          string         `json:"websiteUrl,omitempty"`
	IsActive            bool           `json:"isActive"`
	CreatedAt           string         `json:"createdAt,omitempty"`
	UpdatedAt           string         `json:"updatedAt,omitempty"`
}

// BankLoan is a loan product that can fund an idea.
type BankLoan struct {
	ID                  int64    `json:"id,omitempty"`
	IdeaID              int64    `json:"ideaId,omitempty"`
	BankName            string   `json:"bankName"`
	LoanType            string   `json:"loanType"`
	LoanName            string   `json:"loanName,omitempty"`
	Description         string   `json:"description,omitempty"`
	MinimumAmount       *float64 `json:"minimumAmount,omitempty"`
	MaximumAmount       *float64 `json:"maximumAmount,omitempty"`
	InterestRateMin     *float64 `json:"interestRateMin,omitempty"`
	InterestRateMax     *float64 `json:"interestRateMax,omitempty"`
	LoanTenureMin       string   `json:"loanTenureMin,omitempty"`
	LoanTenureMax       string   `json:"loanTenureMax,omitempty"`
	ProcessingFee       *float64 `json:"processingFee,omitempty"`
	EligibilityCriteria string   `json:"eligibilityCriteria,omitempty"`
	RequiredDocuments   string   `json:"requiredDocuments,omitempty"`
	ContactInfo         string   `json:"contactInfo,omitempty"`
	WebsiteURL          string   `json:"websiteUrl,omitempty"`
	IsActive            bool     `json:"isActive"`
	CreatedAt           string   `json:"createdAt,omitempty"`
	UpdatedAt           string   `json:"updatedAt,omitempty"`
}

// Review is a reader review of an idea. New reviews stay hidden until an
// administrator approves them.
type Review struct {
	ID              int64  `json:"id,omitempty"`
	IdeaID          int64  `json:"ideaId,omitempty"`
	ReviewerName    string `json:"reviewerName"`
	ReviewerEmail   string `json:"reviewerEmail,omitempty"`
	ReviewerWebsite string `json:"reviewerWebsite,omitempty"`
	Comment         string `json:"comment"`
	Rating          int    `json:"rating"`
	HelpfulVotes    int    `json:"helpfulVotes"`
	UnhelpfulVotes  int    `json:"unhelpfulVotes"`
	IsRecommended   bool   `json:"isRecommended"`
	IsApproved      bool   `json:"isApproved"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// Rating bounds for reviews.
const (
	MinRating = 1
	MaxRating = 5
)

// RatingSummary aggregates the approved reviews of an idea.
// RatingDistribution maps each star value to its review count.
type RatingSummary struct {
	AverageRating      float64       `json:"averageRating"`
	TotalReviews       int64         `json:"totalReviews"`
	RatingDistribution map[int]int64 `json:"ratingDistribution"`
}

// IdeaDetails is everything the detail page of an idea shows.
type IdeaDetails struct {
	InternalFactors []InternalFactors `json:"internalFactors"`
	Investments     InvestmentSummary `json:"investments"`
	Schemes         []Scheme          `json:"schemes"`
	BankLoans       []BankLoan        `json:"bankLoans"`
	RatingSummary   RatingSummary     `json:"ratingSummary"`
	Reviews         []Review          `json:"reviews"`
}

// ReviewRequest is the body of a new review.
type ReviewRequest struct {
	ReviewerName    string `json:"reviewerName"`
	ReviewerEmail   string `json:"reviewerEmail,omitempty"`
	ReviewerWebsite string `json:"reviewerWebsite,omitempty"`
	Comment         string `json:"comment"`
	Rating          int    `json:"rating"`
	IsRecommended   bool   `json:"isRecommended"`
}

// Length limits of review fields.
const (
	maxReviewerField = 100
	maxReviewComment = 500
)

// Validate applies the server's review constraints locally.
func (r *ReviewRequest) Validate() error {
	var ve ValidationError
	if isBlank(r.ReviewerName) {
		ve.Errors = append(ve.Errors, FieldError{Field: "reviewerName", Message: "is required"})
	}
	if isBlank(r.Comment) {
		ve.Errors = append(ve.Errors, FieldError{Field: "comment", Message: "is required"})
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		ve.Errors = append(ve.Errors, FieldError{Field: "rating",
			Message: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)})
	}
	for _, f := range []struct {
		name, value string
		limit       int
	}{
		{"reviewerName", r.ReviewerName, maxReviewerField},
		{"reviewerEmail", r.ReviewerEmail, maxReviewerField},
		{"reviewerWebsite", r.ReviewerWebsite, maxReviewerField},
		{"comment", r.Comment, maxReviewComment},
	} {
		if utf8.RuneCountInString(f.value) > f.limit {
			ve.Errors = append(ve.Errors, FieldError{Field: f.name,
				Message: fmt.Sprintf("must be at most %d characters", f.limit)})
		}
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// Validate checks a new internal-factors group.
func (f *InternalFactors) Validate() error {
	var ve ValidationError
	if !f.FactorType.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{Field: "factorType", Message: fmt.Sprintf("unknown type %q", f.FactorType)})
	}
	if len(f.Factors) == 0 {
		ve.Errors = append(ve.Errors, FieldError{Field: "factors", Message: "is required"})
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// Validate checks a new investment line item.
func (i *IdeaInvestment) Validate() error {
	var ve ValidationError
	if isBlank(i.InvestmentCategory) {
		ve.Errors = append(ve.Errors, FieldError{Field: "investmentCategory", Message: "is required"})
	}
	if i.Amount < 0 {
		ve.Errors = append(ve.Errors, FieldError{Field: "amount", Message: "must not be negative"})
	}
	if i.PriorityLevel != "" && !i.PriorityLevel.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{Field: "priorityLevel", Message: fmt.Sprintf("unknown level %q", i.PriorityLevel)})
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// Validate checks a new scheme.
func (s *Scheme) Validate() error {
	var ve ValidationError
	if isBlank(s.SchemeName) {
		ve.Errors = append(ve.Errors, FieldError{Field: "schemeName", Message: "is required"})
	}
	if s.SchemeType != "" && !s.SchemeType.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{Field: "schemeType", Message: fmt.Sprintf("unknown type %q", s.SchemeType)})
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// Validate checks a new bank loan.
func (l *BankLoan) Validate() error {
	var ve ValidationError
	if isBlank(l.BankName) {
		ve.Errors = append(ve.Errors, FieldError{Field: "bankName", Message: "is required"})
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}
