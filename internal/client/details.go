package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ideafactory/ideas/internal/model"
)

// detailsPrefix is the cache key prefix of everything under /idea-details.
const detailsPrefix = "details:"

func detailsKey(ideaID int64, part string) string {
	return detailsPrefix + strconv.FormatInt(ideaID, 10) + ":" + part
}

func detailsPath(ideaID int64, part string) string {
	return "/idea-details/" + strconv.FormatInt(ideaID, 10) + "/" + part
}

func itemPath(kind string, id int64) string {
	return "/idea-details/" + kind + "/" + strconv.FormatInt(id, 10)
}

// forgetDetails drops the cached detail views of one idea, or of every idea
// when ideaID is zero.
func (c *HTTPClient) forgetDetails(ideaID int64) {
	if ideaID == 0 {
		c.forgetPrefix(detailsPrefix)
		return
	}
	c.forgetPrefix(detailsPrefix + strconv.FormatInt(ideaID, 10) + ":")
}

// --- Complete view ---

// IdeaDetails returns the full detail page of an idea: SWOT factors,
// investment breakdown, schemes, bank loans, rating summary and approved
// reviews.
func (c *HTTPClient) IdeaDetails(ctx context.Context, ideaID int64) (*model.IdeaDetails, error) {
	d, err := cached(c, detailsKey(ideaID, "complete"), func() (model.IdeaDetails, error) {
		var d model.IdeaDetails
		err := c.doJSON(ctx, http.MethodGet, detailsPath(ideaID, "complete"), nil, &d)
		return d, err
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// --- Internal factors ---

func (c *HTTPClient) InternalFactors(ctx context.Context, ideaID int64) ([]model.InternalFactors, error) {
	return cached(c, detailsKey(ideaID, "internal-factors"), func() ([]model.InternalFactors, error) {
		var out []model.InternalFactors
		err := c.doJSON(ctx, http.MethodGet, detailsPath(ideaID, "internal-factors"), nil, &out)
		return out, err
	})
}

func (c *HTTPClient) CreateInternalFactors(ctx context.Context, ideaID int64, f *model.InternalFactors) (*model.InternalFactors, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var created model.InternalFactors
	if err := c.doJSON(ctx, http.MethodPost, detailsPath(ideaID, "internal-factors"), f, &created); err != nil {
		return nil, err
	}
	c.forgetDetails(ideaID)
	return &created, nil
}

func (c *HTTPClient) DeleteInternalFactors(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath("internal-factors", id), nil, nil); err != nil {
		return err
	}
	c.forgetDetails(0)
	return nil
}

// --- Investments ---

func (c *HTTPClient) Investments(ctx context.Context, ideaID int64) (*model.InvestmentSummary, error) {
	s, err := cached(c, detailsKey(ideaID, "investments"), func() (model.InvestmentSummary, error) {
		var s model.InvestmentSummary
		err := c.doJSON(ctx, http.MethodGet, detailsPath(ideaID, "investments"), nil, &s)
		return s, err
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) CreateInvestment(ctx context.Context, ideaID int64, inv *model.IdeaInvestment) (*model.IdeaInvestment, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	var created model.IdeaInvestment
	if err := c.doJSON(ctx, http.MethodPost, detailsPath(ideaID, "investments"), inv, &created); err != nil {
		return nil, err
	}
	c.forgetDetails(ideaID)
	return &created, nil
}

func (c *HTTPClient) DeleteInvestment(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath("investments", id), nil, nil); err != nil {
		return err
	}
	c.forgetDetails(0)
	return nil
}

// --- Schemes ---

// Schemes returns the schemes of an idea. A non-empty schemeType narrows the
// list on the server.
func (c *HTTPClient) Schemes(ctx context.Context, ideaID int64, schemeType model.SchemeType) ([]model.Scheme, error) {
	part := "schemes"
	if schemeType != "" {
		part += "/" + url.PathEscape(string(schemeType))
	}
	return cached(c, detailsKey(ideaID, part), func() ([]model.Scheme, error) {
		var out []model.Scheme
		err := c.doJSON(ctx, http.MethodGet, detailsPath(ideaID, part), nil, &out)
		return out, err
	})
}

func (c *HTTPClient) CreateScheme(ctx context.Context, ideaID int64, s *model.Scheme) (*model.Scheme, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var created model.Scheme
	if err := c.doJSON(ctx, http.MethodPost, detailsPath(ideaID, "schemes"), s, &created); err != nil {
		return nil, err
	}
	c.forgetDetails(ideaID)
	return &created, nil
}

func (c *HTTPClient) DeleteScheme(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath("schemes", id), nil, nil); err != nil {
		return err
	}
	c.forgetDetails(0)
	return nil
}

// --- Bank loans ---

// BankLoans returns the loan products for an idea. A non-empty loanType
// narrows the list on the server.
func (c *HTTPClient) BankLoans(ctx context.Context, ideaID int64, loanType string) ([]model.BankLoan, error) {
	part := "bank-loans"
	if loanType != "" {
		part += "/" + url.PathEscape(loanType)
	}
	return cached(c, detailsKey(ideaID, part), func() ([]model.BankLoan, error) {
		var out []model.BankLoan
		err := c.doJSON(ctx, http.MethodGet, detailsPath(ideaID, part), nil, &out)
		return out, err
	})
}

func (c *HTTPClient) CreateBankLoan(ctx context.Context, ideaID int64, l *model.BankLoan) (*model.BankLoan, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	var created model.BankLoan
	if err := c.doJSON(ctx, http.MethodPost, detailsPath(ideaID, "bank-loans"), l, &created); err != nil {
		return nil, err
	}
	c.forgetDetails(ideaID)
	return &created, nil
}

func (c *HTTPClient) DeleteBankLoan(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath("bank-loans", id), nil, nil); err != nil {
		return err
	}
	c.forgetDetails(0)
	return nil
}

// --- Reviews ---

// Reviews returns the approved reviews of an idea. They are not cached since
// votes change them.
func (c *HTTPClient) Reviews(ctx context.Context, ideaID int64) ([]model.Review, error) {
	var out []model.Review
	if err := c.doJSON(ctx, http.MethodGet, detailsPath(ideaID, "reviews"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) RatingSummary(ctx context.Context, ideaID int64) (*model.RatingSummary, error) {
	var s model.RatingSummary
	if err := c.doJSON(ctx, http.MethodGet, detailsPath(ideaID, "rating-summary"), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateReview posts a review. It is validated locally first; the server
// holds it for moderation.
func (c *HTTPClient) CreateReview(ctx context.Context, ideaID int64, r *model.ReviewRequest) (*model.Review, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var created model.Review
	if err := c.doJSON(ctx, http.MethodPost, detailsPath(ideaID, "reviews"), r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// VoteReview records a helpful or unhelpful vote and returns the updated
// review.
func (c *HTTPClient) VoteReview(ctx context.Context, reviewID int64, helpful bool) (*model.Review, error) {
	q := url.Values{}
	q.Set("isHelpful", strconv.FormatBool(helpful))
	var r model.Review
	if err := c.doJSON(ctx, http.MethodPost, itemPath("reviews", reviewID)+"/vote?"+q.Encode(), nil, &r); err != nil {
		return nil, err
	}
	c.forgetDetails(r.IdeaID)
	return &r, nil
}

// --- Review moderation ---

func (c *HTTPClient) PendingReviews(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	if err := c.doJSON(ctx, http.MethodGet, "/idea-details/admin/reviews/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveReview publishes a pending review.
func (c *HTTPClient) ApproveReview(ctx context.Context, reviewID int64) (*model.Review, error) {
	var r model.Review
	if err := c.doJSON(ctx, http.MethodPost, itemPath("admin/reviews", reviewID)+"/approve", nil, &r); err != nil {
		return nil, err
	}
	c.forgetDetails(r.IdeaID)
	return &r, nil
}

func (c *HTTPClient) DeleteReview(ctx context.Context, reviewID int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, itemPath("admin/reviews", reviewID), nil, nil); err != nil {
		return err
	}
	c.forgetDetails(0)
	return nil
}
