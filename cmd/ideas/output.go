package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ideafactory/ideas/internal/model"
	"github.com/ideafactory/ideas/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// maskToken keeps the first 8 characters of a token.
func maskToken(tok string) string {
	if len(tok) > 8 {
		return tok[:8] + "..."
	}
	return tok
}

// formatRupees renders an amount with Indian digit grouping, e.g.
// 2500000 -> "₹25,00,000".
func formatRupees(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(groups, ",") + "," + tail
	}
	if neg {
		s = "-" + s
	}
	return model.DefaultCurrency + s
}

func formatInvestment(inv model.Investment) string {
	if inv.Min == inv.Max {
		return formatRupees(inv.Min)
	}
	return formatRupees(inv.Min) + " - " + formatRupees(inv.Max)
}

func printItemTable(w io.Writer, items []model.CatalogItem, total int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tTITLE\tCATEGORY\tINVESTMENT\tDIFFICULTY\tMKT\tPAIN\tTIME")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			ui.FavoriteMark(it.IsFavorite),
			it.ID,
			truncate(it.Title, 48),
			it.Category,
			formatInvestment(it.Investment),
			ui.RenderDifficulty(it.Difficulty),
			ui.RenderScore(it.MarketScore),
			ui.RenderScore(it.PainPointScore),
			ui.RenderScore(it.TimingScore),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d ideas (%d total)\n", len(items), total)
	return err
}

func printItemDetail(w io.Writer, it *model.CatalogItem) {
	fmt.Fprintf(w, "ID:           %s\n", it.ID)
	fmt.Fprintf(w, "Title:        %s\n", it.Title)
	fmt.Fprintf(w, "Category:     %s\n", it.Category)
	if it.Subcategory != "" {
		fmt.Fprintf(w, "Subcategory:  %s\n", it.Subcategory)
	}
	fmt.Fprintf(w, "Type:         %s\n", it.IdeaType)
	fmt.Fprintf(w, "Investment:   %s\n", formatInvestment(it.Investment))
	fmt.Fprintf(w, "Difficulty:   %s\n", ui.RenderDifficulty(it.Difficulty))
	fmt.Fprintf(w, "Scores:       market %d, pain point %d, timing %d\n",
		it.MarketScore, it.PainPointScore, it.TimingScore)
	if it.Location != "" {
		fmt.Fprintf(w, "Location:     %s\n", it.Location)
	}
	if len(it.TargetAudience) > 0 {
		fmt.Fprintf(w, "Audience:     %s\n", strings.Join(it.TargetAudience, ", "))
	}
	if len(it.SpecialAdvantages) > 0 {
		fmt.Fprintf(w, "Advantages:   %s\n", strings.Join(it.SpecialAdvantages, ", "))
	}
	if len(it.Tags) > 0 {
		fmt.Fprintf(w, "Tags:         %s\n", strings.Join(it.Tags, ", "))
	}
	if it.IsFavorite {
		fmt.Fprintf(w, "Favorite:     yes\n")
	}
	if it.Description != "" {
		fmt.Fprintf(w, "\n%s\n", it.Description)
	}
}

// printIdeaExtras prints the long-form fields only the raw record carries.
func printIdeaExtras(w io.Writer, idea *model.Idea) {
	for _, f := range []struct{ label, value string }{
		{"Expertise needed", idea.ExpertiseNeeded},
		{"Training needed", idea.TrainingNeeded},
		{"Resources", idea.Resources},
		{"Time to market", idea.TimeToMarket},
		{"Success examples", idea.SuccessExamples},
		{"Government subsidies", idea.GovernmentSubsidies},
		{"Funding options", idea.FundingOptions},
		{"Bank assistance", idea.BankAssistance},
		{"Video", idea.VideoURL},
	} {
		if f.value != "" {
			fmt.Fprintf(w, "\n%s\n  %s\n", ui.RenderAccent(f.label+":"), f.value)
		}
	}
}

func printIdeaRows(w io.Writer, ideas []model.Idea) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACTIVE\tTITLE\tCATEGORY\tSECTOR\tINVESTMENT\tDIFFICULTY")
	for i := range ideas {
		idea := &ideas[i]
		active := "yes"
		if !idea.Active() {
			active = ui.RenderMuted("no")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			idea.ID, active, truncate(idea.Title, 48), idea.Category,
			idea.Sector, formatRupees(idea.InvestmentNeeded), idea.DifficultyLevel)
	}
	return tw.Flush()
}

func printOptions(w io.Writer, title string, opts []model.Option) {
	fmt.Fprintln(w, ui.RenderAccent(title+":"))
	for _, o := range opts {
		if o.Value == "" {
			continue
		}
		if o.Value == o.Label {
			fmt.Fprintf(w, "  %s\n", o.Value)
		} else {
			fmt.Fprintf(w, "  %-40s %s\n", o.Value, ui.RenderMuted(o.Label))
		}
	}
}

func printStrings(w io.Writer, title string, values []string) {
	fmt.Fprintln(w, ui.RenderAccent(title+":"))
	for _, v := range values {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

// printStats prints a flat key/value map sorted by key.
func printStats(w io.Writer, stats map[string]any) error {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s:\t%v\n", k, stats[k])
	}
	return tw.Flush()
}

// printIdeaDetails prints the detail-page sections that have content.
func printIdeaDetails(w io.Writer, d *model.IdeaDetails) {
	if len(d.InternalFactors) > 0 {
		fmt.Fprintf(w, "\n%s\n", ui.RenderAccent("SWOT:"))
		for _, f := range d.InternalFactors {
			fmt.Fprintf(w, "  %s\n", strings.ToLower(string(f.FactorType)))
			for _, v := range f.Factors {
				fmt.Fprintf(w, "    - %s\n", v)
			}
		}
	}

	if len(d.Investments.Investments) > 0 {
		fmt.Fprintf(w, "\n%s %s\n", ui.RenderAccent("Investment breakdown:"), formatRupees(d.Investments.TotalInvestment))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, inv := range d.Investments.Investments {
			opt := ""
			if inv.IsOptional {
				opt = ui.RenderMuted("optional")
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", inv.InvestmentCategory, formatRupees(inv.Amount), inv.PriorityLevel, opt)
		}
		_ = tw.Flush()
	}

	if len(d.Schemes) > 0 {
		fmt.Fprintf(w, "\n%s\n", ui.RenderAccent("Schemes:"))
		for _, s := range d.Schemes {
			line := s.SchemeName
			if s.SchemeType != "" {
				line += " (" + strings.ToLower(string(s.SchemeType)) + ")"
			}
			if s.MaximumAmount != nil {
				line += ", up to " + formatRupees(*s.MaximumAmount)
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	if len(d.BankLoans) > 0 {
		fmt.Fprintf(w, "\n%s\n", ui.RenderAccent("Bank loans:"))
		for _, l := range d.BankLoans {
			line := l.BankName + " " + l.LoanType
			if l.InterestRateMin != nil && l.InterestRateMax != nil {
				line += fmt.Sprintf(", %.2f%%-%.2f%%", *l.InterestRateMin, *l.InterestRateMax)
			} else if l.InterestRateMin != nil {
				line += fmt.Sprintf(", from %.2f%%", *l.InterestRateMin)
			}
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	rs := d.RatingSummary
	fmt.Fprintf(w, "\n%s %.1f/5 from %d reviews\n", ui.RenderAccent("Rating:"), rs.AverageRating, rs.TotalReviews)
	for star := model.MaxRating; star >= model.MinRating; star-- {
		if n := rs.RatingDistribution[star]; n > 0 {
			fmt.Fprintf(w, "  %d★ %d\n", star, n)
		}
	}
	if len(d.Reviews) > 0 {
		fmt.Fprintln(w)
		_ = printReviews(w, d.Reviews)
	}
}

func printReviews(w io.Writer, reviews []model.Review) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tIDEA\tRATING\tBY\tVOTES\tCOMMENT")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t+%d/-%d\t%s\n",
			r.ID, r.IdeaID, strings.Repeat("★", max(r.Rating, 0)), truncate(r.ReviewerName, 20),
			r.HelpfulVotes, r.UnhelpfulVotes, truncate(r.Comment, 60))
	}
	return tw.Flush()
}
