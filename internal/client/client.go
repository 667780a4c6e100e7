// Package client provides a transport-agnostic interface for the ideas API and
// an HTTP/JSON implementation that talks to its REST endpoints.
package client

import (
	"context"
	"io"

	"github.com/ideafactory/ideas/internal/model"
)

// IdeasClient is the interface the CLI uses to reach the ideas API. It is
// implemented by HTTPClient.
type IdeasClient interface {
	// Public catalog
	ListIdeas(ctx context.Context) ([]model.Idea, error)
	ListIdeasPage(ctx context.Context, page, size int) (*model.IdeaPage, error)
	GetIdea(ctx context.Context, id int64) (*model.Idea, error)
	FilterIdeas(ctx context.Context, q *IdeaQuery) ([]model.Idea, error)
	IdeasBy(ctx context.Context, dim Dimension, value string) ([]model.Idea, error)
	IdeasByInvestment(ctx context.Context, lo, hi float64) ([]model.Idea, error)

	// Option lists
	FilterOptions(ctx context.Context) (*model.PublicFilterOptions, error)
	MainCategories(ctx context.Context) ([]string, error)
	SubCategories(ctx context.Context, mainCategory string) ([]string, error)
	CategoryHierarchy(ctx context.Context) (map[string][]string, error)

	// Idea CRUD
	CreateIdea(ctx context.Context, idea *model.Idea) (*model.Idea, error)
	SubmitIdea(ctx context.Context, p *model.IdeaProposal) (*model.Idea, error)
	UpdateIdea(ctx context.Context, id int64, idea *model.Idea) (*model.Idea, error)
	DeleteIdea(ctx context.Context, id int64) error

	// Idea details
	IdeaDetails(ctx context.Context, ideaID int64) (*model.IdeaDetails, error)
	InternalFactors(ctx context.Context, ideaID int64) ([]model.InternalFactors, error)
	CreateInternalFactors(ctx context.Context, ideaID int64, f *model.InternalFactors) (*model.InternalFactors, error)
	DeleteInternalFactors(ctx context.Context, id int64) error
	Investments(ctx context.Context, ideaID int64) (*model.InvestmentSummary, error)
	CreateInvestment(ctx context.Context, ideaID int64, inv *model.IdeaInvestment) (*model.IdeaInvestment, error)
	DeleteInvestment(ctx context.Context, id int64) error
	Schemes(ctx context.Context, ideaID int64, schemeType model.SchemeType) ([]model.Scheme, error)
	CreateScheme(ctx context.Context, ideaID int64, s *model.Scheme) (*model.Scheme, error)
	DeleteScheme(ctx context.Context, id int64) error
	BankLoans(ctx context.Context, ideaID int64, loanType string) ([]model.BankLoan, error)
	CreateBankLoan(ctx context.Context, ideaID int64, l *model.BankLoan) (*model.BankLoan, error)
	DeleteBankLoan(ctx context.Context, id int64) error

	// Reviews
	Reviews(ctx context.Context, ideaID int64) ([]model.Review, error)
	RatingSummary(ctx context.Context, ideaID int64) (*model.RatingSummary, error)
	CreateReview(ctx context.Context, ideaID int64, r *model.ReviewRequest) (*model.Review, error)
	VoteReview(ctx context.Context, reviewID int64, helpful bool) (*model.Review, error)
	PendingReviews(ctx context.Context) ([]model.Review, error)
	ApproveReview(ctx context.Context, reviewID int64) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error

	// Users
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*model.AuthResponse, error)
	GoogleLogin(ctx context.Context, req *model.GoogleLoginRequest) (*model.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	GetProfile(ctx context.Context) (*model.Profile, error)
	UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error)
	Logout(ctx context.Context) error

	// Admin
	AdminLogin(ctx context.Context, usernameOrEmail, password string) (*model.AdminLoginResponse, error)
	ValidateToken(ctx context.Context) (bool, error)
	ListAdminIdeas(ctx context.Context, q *AdminIdeaQuery) (*model.IdeaPage, error)
	AdminUpdateIdea(ctx context.Context, id int64, idea *model.Idea) (*model.Idea, error)
	AdminDeleteIdea(ctx context.Context, id int64) error
	ToggleIdeaStatus(ctx context.Context, id int64) (*model.Idea, error)
	UploadIdeas(ctx context.Context, filename string, r io.Reader) (*model.UploadResult, error)
	AdminFilterOptions(ctx context.Context) (*model.AdminFilterOptions, error)
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	UploadHistory(ctx context.Context) ([]model.UploadHistory, error)
	UploadHistoryStats(ctx context.Context) (*model.UploadHistoryStats, error)
	DeleteUploadBatch(ctx context.Context, batchID string) (*model.DeleteUploadResult, error)

	// Lifecycle
	Close() error
}

// Dimension names a single-value catalog lookup served under /ideas/{dim}/{value}.
type Dimension string

const (
	ByCategory   Dimension = "category"
	BySector     Dimension = "sector"
	ByDifficulty Dimension = "difficulty"
	ByLocation   Dimension = "location"
	ByAudience   Dimension = "audience"
	ByAdvantage  Dimension = "advantage"
)

// IsValid checks whether the dimension is a known value.
func (d Dimension) IsValid() bool {
	switch d {
	case ByCategory, BySector, ByDifficulty, ByLocation, ByAudience, ByAdvantage:
		return true
	}
	return false
}

// IdeaQuery holds the server-side filters of GET /ideas/filter. Empty fields
// are omitted.
type IdeaQuery struct {
	Category        string  `json:"category,omitempty"`
	Sector          string  `json:"sector,omitempty"`
	DifficultyLevel string  `json:"difficultyLevel,omitempty"`
	Location        string  `json:"location,omitempty"`
	MaxInvestment   float64 `json:"maxInvestment,omitempty"`
}

// AdminIdeaQuery holds paging, sorting and filters for the admin listing.
type AdminIdeaQuery struct {
	Page             int
	Size             int
	SortBy           string
	SortDir          string
	Search           string
	Category         string
	Sector           string
	DifficultyLevel  string
	Location         string
	MaxInvestment    float64
	TargetAudience   string
	SpecialAdvantage string
}

// Admin listing defaults.
const (
	DefaultPageSize = 20
	DefaultSortBy   = "id"
	DefaultSortDir  = "desc"
)
