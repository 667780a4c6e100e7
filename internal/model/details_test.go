package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func validReview() ReviewRequest {
	return ReviewRequest{
		ReviewerName:  "Asha Rao",
		ReviewerEmail: "asha@example.com",
		Comment:       "Clear cost breakdown",
		Rating:        4,
		IsRecommended: true,
	}
}

func TestReviewRequestValidate_Valid(t *testing.T) {
	r := validReview()
	if err := r.Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestReviewRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ReviewRequest)
		field  string
	}{
		{"blank name", func(r *ReviewRequest) { r.ReviewerName = "  " }, "reviewerName"},
		{"blank comment", func(r *ReviewRequest) { r.Comment = "" }, "comment"},
		{"rating zero", func(r *ReviewRequest) { r.Rating = 0 }, "rating"},
		{"rating six", func(r *ReviewRequest) { r.Rating = MaxRating + 1 }, "rating"},
		{"long name", func(r *ReviewRequest) { r.ReviewerName = strings.Repeat("a", 101) }, "reviewerName"},
		{"long website", func(r *ReviewRequest) { r.ReviewerWebsite = strings.Repeat("w", 101) }, "reviewerWebsite"},
		{"long comment", func(r *ReviewRequest) { r.Comment = strings.Repeat("c", 501) }, "comment"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := validReview()
			tc.modify(&r)
			errs := fieldErrors(t, r.Validate())
			if !hasFieldError(errs, tc.field) {
				t.Errorf("expected error on field %q, got %v", tc.field, errs)
			}
		})
	}
}

func TestReviewRequestValidate_LimitsCountRunes(t *testing.T) {
	r := validReview()
	// 100 two-byte runes are within the limit.
	r.ReviewerName = strings.Repeat("é", 100)
	if err := r.Validate(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestDetailEnums(t *testing.T) {
	for _, ft := range FactorTypes {
		if !ft.IsValid() {
			t.Errorf("%q should be valid", ft)
		}
	}
	if FactorType("strengths").IsValid() {
		t.Error("factor types are upper case")
	}
	if !PriorityMedium.IsValid() || PriorityLevel("URGENT").IsValid() {
		t.Error("unexpected PriorityLevel.IsValid result")
	}
	if !SchemeNGO.IsValid() || SchemeType("STATE").IsValid() {
		t.Error("unexpected SchemeType.IsValid result")
	}
}

func TestDetailValidation(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"factors unknown type", (&InternalFactors{FactorType: "RISKS", Factors: []string{"x"}}).Validate(), "factorType"},
		{"factors empty", (&InternalFactors{FactorType: FactorThreats}).Validate(), "factors"},
		{"investment category", (&IdeaInvestment{Amount: 10}).Validate(), "investmentCategory"},
		{"investment negative", (&IdeaInvestment{InvestmentCategory: "Rent", Amount: -1}).Validate(), "amount"},
		{"investment priority", (&IdeaInvestment{InvestmentCategory: "Rent", PriorityLevel: "NOW"}).Validate(), "priorityLevel"},
		{"scheme name", (&Scheme{SchemeType: SchemeBank}).Validate(), "schemeName"},
		{"scheme type", (&Scheme{SchemeName: "Stand-Up India", SchemeType: "STATE"}).Validate(), "schemeType"},
		{"loan bank", (&BankLoan{LoanType: "MSME LOAN"}).Validate(), "bankName"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if errs := fieldErrors(t, tc.err); !hasFieldError(errs, tc.field) {
				t.Errorf("expected error on field %q, got %v", tc.field, errs)
			}
		})
	}

	ok := []interface{ Validate() error }{
		&InternalFactors{FactorType: FactorStrengths, Factors: []string{"Low startup cost"}},
		&IdeaInvestment{InvestmentCategory: "Equipment", Amount: 0},
		&Scheme{SchemeName: "PM MUDRA Yojana"},
		&BankLoan{BankName: "SBI"},
	}
	for _, v := range ok {
		if err := v.Validate(); err != nil {
			t.Errorf("%T: expected nil, got %v", v, err)
		}
	}
}

func TestRatingSummaryDecodesDistribution(t *testing.T) {
	var s RatingSummary
	data := `{"averageRating":4.5,"totalReviews":2,"ratingDistribution":{"5":1,"4":1}}`
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.RatingDistribution[5] != 1 || s.RatingDistribution[4] != 1 || s.TotalReviews != 2 {
		t.Errorf("summary = %+v", s)
	}
}
