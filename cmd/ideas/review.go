package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideafactory/ideas/internal/events"
	"github.com/ideafactory/ideas/internal/model"
	"github.com/ideafactory/ideas/internal/ui"
)

func parseReviewID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid review id %q", s)
	}
	return id, nil
}

var reviewCmd = &cobra.Command{
	Use:     "review",
	Short:   "Read, write and vote on idea reviews",
	GroupID: "catalog",
}

var reviewListCmd = &cobra.Command{
	Use:   "list <idea-id>",
	Short: "List approved reviews of an idea with its rating summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		summary, err := ideasClient.RatingSummary(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("getting rating summary: %w", err)
		}
		reviews, err := ideasClient.Reviews(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("listing reviews: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"summary": summary, "reviews": reviews})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%.1f/5 from %d reviews\n\n", summary.AverageRating, summary.TotalReviews)
		if len(reviews) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no reviews yet")
			return nil
		}
		return printReviews(cmd.OutOrStdout(), reviews)
	},
}

var reviewAddCmd = &cobra.Command{
	Use:   "add <idea-id>",
	Short: "Write a review",
	Long: `Write a review of an idea. Reviews are published once an administrator
approves them. Name and email default to the signed-in account.`,
	Example: `  ideas review add 12 --rating 4 --comment "Clear cost breakdown" --recommend`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		rating, _ := cmd.Flags().GetInt("rating")
		recommend, _ := cmd.Flags().GetBool("recommend")
		website, _ := cmd.Flags().GetString("website")

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		if sess, err := state.Current(); err == nil {
			if name == "" {
				name = sess.User.FullName
			}
			if email == "" {
				email = sess.User.Email
			}
		}
		p := prompter(cmd)
		if name == "" {
			if name, err = p.Ask("Your name: "); err != nil {
				return err
			}
		}
		comment, err := flagOrAsk(cmd, p, "comment", "Comment", false)
		if err != nil {
			return err
		}
		if rating == 0 {
			v, err := p.Ask(fmt.Sprintf("Rating (%d-%d): ", model.MinRating, model.MaxRating))
			if err != nil {
				return err
			}
			if rating, err = strconv.Atoi(strings.TrimSpace(v)); err != nil {
				return fmt.Errorf("invalid rating %q", v)
			}
		}

		review, err := ideasClient.CreateReview(cmd.Context(), id, &model.ReviewRequest{
			ReviewerName:    name,
			ReviewerEmail:   email,
			ReviewerWebsite: website,
			Comment:         comment,
			Rating:          rating,
			IsRecommended:   recommend,
		})
		if err != nil {
			return fmt.Errorf("posting review: %w", err)
		}
		publishChange(cmd, events.TopicReviewCreated, events.ReviewCreated{ReviewID: review.ID, IdeaID: id, Rating: rating})
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), review)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s review %d submitted; it appears once approved\n", ui.RenderSuccess("✓"), review.ID)
		return nil
	},
}

var reviewVoteCmd = &cobra.Command{
	Use:   "vote <review-id>",
	Short: "Mark a review as helpful (or unhelpful with --unhelpful)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseReviewID(args[0])
		if err != nil {
			return err
		}
		unhelpful, _ := cmd.Flags().GetBool("unhelpful")
		review, err := ideasClient.VoteReview(cmd.Context(), id, !unhelpful)
		if err != nil {
			return fmt.Errorf("voting on review %d: %w", id, err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), review)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "review %d: %d helpful, %d unhelpful\n", review.ID, review.HelpfulVotes, review.UnhelpfulVotes)
		return nil
	},
}

// --- moderation (under "ideas admin") ---

var adminReviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Moderate reviews",
}

var adminReviewsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List reviews waiting for approval",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reviews, err := ideasClient.PendingReviews(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing pending reviews: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), reviews)
		}
		if len(reviews) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no pending reviews")
			return nil
		}
		return printReviews(cmd.OutOrStdout(), reviews)
	},
}

var adminReviewsApproveCmd = &cobra.Command{
	Use:   "approve <review-id>",
	Short: "Publish a pending review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseReviewID(args[0])
		if err != nil {
			return err
		}
		review, err := ideasClient.ApproveReview(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("approving review %d: %w", id, err)
		}
		publishChange(cmd, events.TopicReviewApproved, events.ReviewApproved{ReviewID: id, IdeaID: review.IdeaID})
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), review)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "review %d approved\n", id)
		return nil
	},
}

var adminReviewsDeleteCmd = &cobra.Command{
	Use:   "delete <review-id>",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseReviewID(args[0])
		if err != nil {
			return err
		}
		if err := ideasClient.DeleteReview(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting review %d: %w", id, err)
		}
		publishChange(cmd, events.TopicReviewDeleted, events.ReviewDeleted{ReviewID: id})
		fmt.Fprintf(cmd.OutOrStdout(), "review %d deleted\n", id)
		return nil
	},
}

func init() {
	fs := reviewAddCmd.Flags()
	fs.Int("rating", 0, "stars from 1 to 5 (prompted when omitted)")
	fs.String("comment", "", "review text (prompted when omitted)")
	fs.String("name", "", "reviewer name (defaults to the signed-in user)")
	fs.String("email", "", "reviewer email (defaults to the signed-in user)")
	fs.String("website", "", "reviewer website")
	fs.Bool("recommend", false, "recommend the idea")

	reviewVoteCmd.Flags().Bool("unhelpful", false, "vote the review unhelpful")

	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewAddCmd)
	reviewCmd.AddCommand(reviewVoteCmd)

	adminReviewsCmd.AddCommand(adminReviewsPendingCmd)
	adminReviewsCmd.AddCommand(adminReviewsApproveCmd)
	adminReviewsCmd.AddCommand(adminReviewsDeleteCmd)
	adminCmd.AddCommand(adminReviewsCmd)
}
