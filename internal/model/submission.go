package model

// Submission form field names.
const (
	FieldTitle            = "title"
	FieldCategory         = "category"
	FieldDescription      = "description"
	FieldInvestmentNeeded = "investmentNeeded"
	FieldTargetMarket     = "targetMarket"
	FieldExpectedROI      = "expectedROI"
	FieldTimeframe        = "timeframe"
	FieldResources        = "resources"
	FieldExpertise        = "expertise"
	FieldChallenges       = "challenges"
	FieldContactEmail     = "contactEmail"
	FieldContactPhone     = "contactPhone"
	FieldName             = "name"
)

// SubmissionFields lists every form field in the order the form presents them.
var SubmissionFields = []string{
	FieldTitle,
	FieldCategory,
	FieldDescription,
	FieldInvestmentNeeded,
	FieldTargetMarket,
	FieldExpectedROI,
	FieldTimeframe,
	FieldResources,
	FieldExpertise,
	FieldChallenges,
	FieldContactEmail,
	FieldContactPhone,
	FieldName,
}

// RequiredFields must be non-blank before a submission is accepted.
var RequiredFields = []string{
	FieldTitle,
	FieldCategory,
	FieldDescription,
	FieldName,
	FieldContactEmail,
}

// IsSubmissionField reports whether name is a known form field.
func IsSubmissionField(name string) bool {
	for _, f := range SubmissionFields {
		if f == name {
			return true
		}
	}
	return false
}

// FormStep is one page of the multi-step submission form.
type FormStep struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// FormSteps is the fixed step list of the submission form.
var FormSteps = []FormStep{
	{"wind-rose", "Wind Rose", "Your idea has the power to ignite change, so don't hesitate to submit it and let the world witness your brilliance"},
	{"albert-einstein", "Albert Einstein", "Innovation distinguishes between a leader and a follower"},
	{"walt-disney", "Walt Disney", "The way to get started is to quit talking and begin doing"},
	{"steve-jobs", "Steve Jobs", "Innovation distinguishes between a leader and a follower"},
	{"bill-gates", "Bill Gates", "Your most unhappy customers are your greatest source of learning"},
	{"mark-zuckerberg", "Mark Zuckerberg", "The biggest risk is not taking any risk"},
	{"guy-kawasaki", "Guy Kawasaki", "Ideas are easy. Implementation is hard"},
	{"paul-graham", "Paul Graham", "A startup is a company designed to grow fast"},
}

// IdeaCategories are the categories offered by the submission form.
var IdeaCategories = []Option{
	{"technology", "Technology"},
	{"healthcare", "Healthcare"},
	{"education", "Education"},
	{"environment", "Environment"},
	{"social-impact", "Social Impact"},
	{"business", "Business"},
	{"manufacturing", "Manufacturing"},
	{"agriculture", "Agriculture"},
	{"food-beverage", "Food & Beverage"},
	{"fashion", "Fashion"},
	{"sports", "Sports"},
	{"entertainment", "Entertainment & Media"},
	{"travel", "Travel & Tourism"},
	{"other", "Other"},
}

// TimeframeOptions are the launch timeframes offered by the submission form.
var TimeframeOptions = []Option{
	{"3-6-months", "3-6 months"},
	{"6-12-months", "6-12 months"},
	{"1-2-years", "1-2 years"},
	{"2-years", "2+ years"},
}

// SubmitStatus is the lifecycle state of a form submission.
type SubmitStatus string

const (
	SubmitIdle       SubmitStatus = "idle"
	SubmitSubmitting SubmitStatus = "submitting"
	SubmitSuccess    SubmitStatus = "success"
	SubmitError      SubmitStatus = "error"
)

// String returns the string representation of the status.
func (s SubmitStatus) String() string {
	return string(s)
}

// IdeaProposal is the payload posted when a user submits a new idea. The
// embedded Idea carries the fields the catalog stores; the remaining fields
// describe the proposal and its author.
type IdeaProposal struct {
	Idea
	TargetMarket   string `json:"targetMarket,omitempty"`
	InvestmentText string `json:"investmentText,omitempty"`
	ExpectedROI    string `json:"expectedROI,omitempty"`
	Challenges     string `json:"challenges,omitempty"`
	ContactName    string `json:"contactName"`
	ContactEmail   string `json:"contactEmail"`
	ContactPhone   string `json:"contactPhone,omitempty"`
	ClientRef      string `json:"clientRef,omitempty"`
}

// OptionLabel returns the label of the option with the given value, or the
// value itself when no option matches.
func OptionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
