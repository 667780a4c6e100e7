package model

import (
	"regexp"
	"strings"
)

// Option is one selectable value in a filter or form dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterData holds the option lists offered by the catalog filter panel.
type FilterData struct {
	Categories            []Option `json:"categories"`
	Subcategories         []Option `json:"subcategories"`
	InvestmentRanges      []Option `json:"investmentRanges"`
	BuildDifficulties     []Option `json:"buildDifficulties"`
	MarketScoreOptions    []Option `json:"marketScoreOptions"`
	PainPointScoreOptions []Option `json:"painPointScoreOptions"`
	TimingScoreOptions    []Option `json:"timingScoreOptions"`
	IdeaTypes             []Option `json:"ideaTypes"`
}

// CategoryGroup is a top-level catalog category with its subcategories.
type CategoryGroup struct {
	Name          string
	Subcategories []string
}

// Categories is the fixed catalog taxonomy in display order.
var Categories = []CategoryGroup{
	{"For Women", []string{
		"Beauty", "Fashion", "Event Planning", "Eco-Friendly Products", "Home Decor",
		"Fitness", "Creative Arts", "Personal Development", "Social Impact", "Childcare",
		"Health", "Online Retail", "Education", "Coaching/Mentoring", "Others",
	}},
	{"Technology", []string{
		"Software", "E-commerce", "Mobile Apps", "Cybersecurity", "Artificial Intelligence (AI)",
		"Data Analytics", "Robotics", "Blockchain", "Digital Marketing", "Edtech", "Fintech", "Saas",
	}},
	{"Agriculture", []string{
		"Organic Farming", "Precision Agriculture", "Agri-Tourism", "Agri-Tech Solutions",
		"Livestock Farming", "Data Analytics", "Agricultural Consulting", "Equipment Manufacturing",
		"Agroforestry", "Agricultural Education and Training",
	}},
	{"Fashion", []string{
		"Clothing & Accessories", "Ethical Fashion", "Sustainable Fashion", "Fashion Consulting",
		"Blogging", "Fashion Styling", "Event Management", "Fashion label/studio",
	}},
	{"Manufacturing", []string{
		"Electronics", "Textile", "Automotive", "Food Processing", "Pharmaceutical", "Furniture",
		"Chemical", "Metal Fabrication", "Printing and Publishing", "Consumer goods",
		"Renewable energy", "Construction materials", "Jewelry", "Others",
	}},
	{"Food & Beverage", []string{
		"Restaurant", "Food Truck", "Craft Brewery", "Ice cream parlour", "Catering services",
		"Gourmet Food products",
	}},
	{"Startup Ideas", []string{
		"Tech Startups", "Social Impact Startups", "Green Startups", "FinTech Startups",
		"HealthTech Startups", "EdTech Startups", "E-commerce Startups", "AI/ML Startups",
		"Food Tech Startups", "Travel Tech Startups",
	}},
	{"Sports", []string{
		"Fitness Training", "Sports Equipment", "Athletic Coaching", "Sports Analytics",
		"Sports Medicine", "Event Management", "Sports Marketing", "Youth Sports Programs",
		"Professional Sports Services", "Sports Nutrition",
	}},
	{"Entertainment & Media", []string{
		"Content Creation", "Video Production", "Music Industry", "Gaming", "Event Planning",
		"Social Media Management", "Podcasting", "Streaming Services", "Digital Art",
		"Photography Services",
	}},
	{"Travel & Tourism", []string{
		"Tour Operations", "Travel Planning", "Hospitality Services", "Adventure Tourism",
		"Cultural Tourism", "Eco-Tourism", "Travel Technology", "Accommodation Services",
		"Transportation Services", "Travel Consulting",
	}},
	{"Professional Services", []string{
		"Consulting", "Legal Services", "Accounting & Finance", "Marketing Services",
		"HR Services", "Business Coaching", "Project Management", "Real Estate Services",
		"Insurance Services", "Training & Development",
	}},
	{"Education", []string{
		"Online Learning", "Tutoring Services", "Educational Technology", "Language Learning",
		"Skill Development", "Professional Training", "Educational Content", "Learning Management",
		"Educational Consulting", "Special Education Services",
	}},
}

var whitespace = regexp.MustCompile(`\s+`)

// CategorySlug converts a category name into its filter value:
// lowercased, whitespace runs become "-", "&" becomes "and".
func CategorySlug(name string) string {
	s := whitespace.ReplaceAllString(strings.ToLower(name), "-")
	return strings.ReplaceAll(s, "&", "and")
}

// SubcategorySlug namespaces a subcategory under its category, e.g.
// ("Technology", "Artificial Intelligence (AI)") -> "technology-artificial-intelligence-ai".
func SubcategorySlug(category, sub string) string {
	s := CategorySlug(sub)
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	return CategorySlug(category) + "-" + s
}

// DefaultFilterData returns the option lists for the catalog filter panel.
// The first option of each list is the "any" choice with an empty value.
func DefaultFilterData() FilterData {
	fd := FilterData{
		Categories:    []Option{{"", "All Categories"}},
		Subcategories: []Option{{"", "All Subcategories"}},
		InvestmentRanges: []Option{
			{"", "Any Range"},
			{"0-50000", "₹0 - ₹50,000"},
			{"50000-500000", "₹50,000 - ₹5,00,000"},
			{"500000-2500000", "₹5,00,000 - ₹25,00,000"},
			{"2500000-8000000", "₹25,00,000 - ₹80,00,000"},
			{"8000000-40000000", "₹80,00,000 - ₹4,00,00,000"},
			{"40000000+", "₹4,00,00,000+"},
		},
		BuildDifficulties: []Option{
			{"", "Any Difficulty"},
			{"easy", "Easy"},
			{"moderate", "Moderate"},
			{"challenging", "Challenging"},
		},
		MarketScoreOptions:    scoreOptions("Average", "Good", "Exceptional"),
		PainPointScoreOptions: scoreOptions("Moderate", "Important", "Critical"),
		TimingScoreOptions:    scoreOptions("Okay", "Good", "Perfect"),
		IdeaTypes:             []Option{{"", "Any Type"}},
	}
	for _, g := range Categories {
		fd.Categories = append(fd.Categories, Option{CategorySlug(g.Name), g.Name})
		for _, sub := range g.Subcategories {
			fd.Subcategories = append(fd.Subcategories, Option{SubcategorySlug(g.Name, sub), sub})
		}
	}
	for _, t := range IdeaTypes {
		fd.IdeaTypes = append(fd.IdeaTypes, Option{t.Slug(), t.String()})
	}
	return fd
}

func scoreOptions(mid, good, top string) []Option {
	return []Option{
		{"", "Any Score"},
		{"5-6", "5-6 (" + mid + ")"},
		{"7-8", "7-8 (" + good + ")"},
		{TopScoreBucket, "9+ (" + top + ")"},
	}
}

// CategoryNameForSlug returns the display name of a category slug.
func CategoryNameForSlug(slug string) (string, bool) {
	for _, g := range Categories {
		if CategorySlug(g.Name) == slug {
			return g.Name, true
		}
	}
	return "", false
}
