package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ideafactory/ideas/internal/catalog"
	"github.com/ideafactory/ideas/internal/client"
	"github.com/ideafactory/ideas/internal/events"
	"github.com/ideafactory/ideas/internal/model"
)

// fetcherFunc adapts a lookup to catalog.Fetcher.
type fetcherFunc func(ctx context.Context) ([]model.Idea, error)

func (f fetcherFunc) ListIdeas(ctx context.Context) ([]model.Idea, error) { return f(ctx) }

// newPublisher connects to NATS when a URL is configured. Events are best
// effort, so a failed connection degrades to a no-op publisher.
func newPublisher() events.Publisher {
	url := natsURL()
	if url == "" {
		return &events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(url)
	if err != nil {
		logger.Warn("event publishing disabled", zap.String("nats_url", url), zap.Error(err))
		return &events.NoopPublisher{}
	}
	return pub
}

func scoreSource() catalog.ScoreSource {
	if cfg.PlaceholderScores {
		return catalog.NewPlaceholderScores(uint64(time.Now().UnixNano()))
	}
	return catalog.MissingScores{}
}

// newStore builds a catalog store over f with local favorites.
func newStore(f catalog.Fetcher, pub events.Publisher) *catalog.Store {
	return catalog.NewStore(f,
		catalog.WithScores(scoreSource()),
		catalog.WithFavorites(state.Favorites()),
		catalog.WithPublisher(pub),
		catalog.WithLogger(logger.Named("catalog")),
	)
}

// criteriaFlags registers the client-side filter flags on fs.
func criteriaFlags(fs *pflag.FlagSet) {
	fs.StringP("search", "q", "", "match title, description or tags")
	fs.String("category", "", "category slug (see 'ideas options')")
	fs.String("subcategory", "", "subcategory slug")
	fs.String("investment", "", "investment bucket, e.g. 500000-2500000 or 40000000+")
	fs.String("difficulty", "", "easy, moderate or challenging")
	fs.String("market", "", "market score bucket, e.g. 7-8 or 9-10")
	fs.String("pain", "", "pain point score bucket")
	fs.String("timing", "", "timing score bucket")
	fs.String("type", "", "idea type slug, e.g. new-tech")
}

func criteriaFromFlags(fs *pflag.FlagSet, args []string) (model.FilterCriteria, error) {
	get := func(name string) string {
		v, _ := fs.GetString(name)
		return strings.TrimSpace(v)
	}
	c := model.FilterCriteria{
		SearchTerm:      get("search"),
		Category:        get("category"),
		Subcategory:     get("subcategory"),
		InvestmentRange: get("investment"),
		Difficulty:      get("difficulty"),
		MarketScore:     get("market"),
		PainPointScore:  get("pain"),
		TimingScore:     get("timing"),
		IdeaType:        get("type"),
	}
	if len(args) > 0 {
		c.SearchTerm = strings.TrimSpace(strings.Join(append([]string{c.SearchTerm}, args...), " "))
	}
	if err := c.Validate(); err != nil {
		return model.FilterCriteria{}, err
	}
	return c, nil
}

// serverFetcher narrows the fetch on the server when any server-side flag
// is set; otherwise it lists the whole catalog.
func serverFetcher(fs *pflag.FlagSet) (catalog.Fetcher, error) {
	sector, _ := fs.GetString("sector")
	location, _ := fs.GetString("location")
	minInv, _ := fs.GetFloat64("min-investment")
	maxInv, _ := fs.GetFloat64("max-investment")
	audience, _ := fs.GetString("audience")
	advantage, _ := fs.GetString("advantage")

	switch {
	case audience != "" && advantage != "":
		return nil, fmt.Errorf("--audience and --advantage cannot be combined")
	case audience != "":
		return fetcherFunc(func(ctx context.Context) ([]model.Idea, error) {
			return ideasClient.IdeasBy(ctx, client.ByAudience, audience)
		}), nil
	case advantage != "":
		return fetcherFunc(func(ctx context.Context) ([]model.Idea, error) {
			return ideasClient.IdeasBy(ctx, client.ByAdvantage, advantage)
		}), nil
	case minInv > 0:
		if maxInv < minInv {
			return nil, fmt.Errorf("--min-investment needs a --max-investment at least as large")
		}
		return fetcherFunc(func(ctx context.Context) ([]model.Idea, error) {
			return ideasClient.IdeasByInvestment(ctx, minInv, maxInv)
		}), nil
	case sector != "" || location != "" || maxInv > 0:
		q := &client.IdeaQuery{Sector: sector, Location: location, MaxInvestment: maxInv}
		return fetcherFunc(func(ctx context.Context) ([]model.Idea, error) {
			return ideasClient.FilterIdeas(ctx, q)
		}), nil
	}
	return ideasClient, nil
}

var listCmd = &cobra.Command{
	Use:     "list [search terms...]",
	Aliases: []string{"search"},
	Short:   "List catalog ideas matching filters",
	GroupID: "catalog",
	Example: `  ideas list --category technology --difficulty easy
  ideas search vertical farming --market 9-10
  ideas list --sector Fintech --max-investment 2500000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := criteriaFromFlags(cmd.Flags(), args)
		if err != nil {
			return err
		}
		fetcher, err := serverFetcher(cmd.Flags())
		if err != nil {
			return err
		}
		favsOnly, _ := cmd.Flags().GetBool("favorites")
		limit, _ := cmd.Flags().GetInt("limit")

		store := newStore(fetcher, &events.NoopPublisher{})
		defer store.Close()
		if err := store.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		store.SetFilters(criteria)

		items := store.Filtered()
		if favsOnly {
			kept := items[:0:0]
			for _, it := range items {
				if it.IsFavorite {
					kept = append(kept, it)
				}
			}
			items = kept
		}
		total := len(store.Items())
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), items)
		}
		return printItemTable(cmd.OutOrStdout(), items, total)
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show details of an idea",
	GroupID: "catalog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid idea id %q", args[0])
		}
		withDetails, _ := cmd.Flags().GetBool("details")
		idea, err := ideasClient.GetIdea(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("getting idea %d: %w", id, err)
		}
		var details *model.IdeaDetails
		if withDetails {
			if details, err = ideasClient.IdeaDetails(cmd.Context(), id); err != nil {
				return fmt.Errorf("getting details of idea %d: %w", id, err)
			}
		}
		if jsonOutput {
			if details != nil {
				return printJSON(cmd.OutOrStdout(), map[string]any{"idea": idea, "details": details})
			}
			return printJSON(cmd.OutOrStdout(), idea)
		}

		item := catalog.FromIdea(idea, scoreSource())
		if favs, err := state.Favorites().Favorites(); err == nil {
			item.IsFavorite = favs[item.ID]
		}
		printItemDetail(cmd.OutOrStdout(), &item)
		printIdeaExtras(cmd.OutOrStdout(), idea)
		if details != nil {
			printIdeaDetails(cmd.OutOrStdout(), details)
		}
		return nil
	},
}

var optionsCmd = &cobra.Command{
	Use:     "options",
	Short:   "Show filter values",
	GroupID: "catalog",
	Long: `Show the values accepted by the list filters. With --server, show the
option lists the API derives from its own data instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		server, _ := cmd.Flags().GetBool("server")
		if !server {
			fd := model.DefaultFilterData()
			if jsonOutput {
				return printJSON(out, fd)
			}
			printOptions(out, "Categories", fd.Categories)
			printOptions(out, "Investment ranges", fd.InvestmentRanges)
			printOptions(out, "Difficulties", fd.BuildDifficulties)
			printOptions(out, "Market scores", fd.MarketScoreOptions)
			printOptions(out, "Pain point scores", fd.PainPointScoreOptions)
			printOptions(out, "Timing scores", fd.TimingScoreOptions)
			printOptions(out, "Idea types", fd.IdeaTypes)
			if sub, _ := cmd.Flags().GetBool("subcategories"); sub {
				printOptions(out, "Subcategories", fd.Subcategories)
			}
			return nil
		}

		opts, err := ideasClient.FilterOptions(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting filter options: %w", err)
		}
		hierarchy, err := ideasClient.CategoryHierarchy(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting category hierarchy: %w", err)
		}
		if jsonOutput {
			return printJSON(out, map[string]any{"options": opts, "hierarchy": hierarchy})
		}
		printStrings(out, "Categories", opts.Categories)
		printStrings(out, "Sectors", opts.Sectors)
		printStrings(out, "Difficulty levels", opts.DifficultyLevels)
		printStrings(out, "Locations", opts.Locations)
		mains, err := ideasClient.MainCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting main categories: %w", err)
		}
		for _, main := range mains {
			printStrings(out, main, hierarchy[main])
		}
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:     "favorite <id>",
	Short:   "Toggle an idea's favorite flag",
	GroupID: "catalog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pub := newPublisher()
		defer pub.Close()

		store := newStore(ideasClient, pub)
		defer store.Close()
		if err := store.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		fav, err := store.ToggleFavorite(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if fav {
			fmt.Fprintf(cmd.OutOrStdout(), "idea %s added to favorites\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "idea %s removed from favorites\n", args[0])
		}
		return nil
	},
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Short:   "List favorite ideas",
	GroupID: "catalog",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore(ideasClient, &events.NoopPublisher{})
		defer store.Close()
		if err := store.Load(cmd.Context()); err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		items := store.Favorites()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), items)
		}
		return printItemTable(cmd.OutOrStdout(), items, len(store.Items()))
	},
}

func init() {
	criteriaFlags(listCmd.Flags())
	listCmd.Flags().String("sector", "", "server-side: exact sector")
	listCmd.Flags().String("location", "", "server-side: exact location")
	listCmd.Flags().Float64("min-investment", 0, "server-side: minimum investment (needs --max-investment)")
	listCmd.Flags().Float64("max-investment", 0, "server-side: maximum investment")
	listCmd.Flags().String("audience", "", "server-side: target audience")
	listCmd.Flags().String("advantage", "", "server-side: special advantage")
	listCmd.Flags().Bool("favorites", false, "only show favorites")
	listCmd.Flags().Int("limit", 0, "maximum number of ideas to print (0 = all)")

	showCmd.Flags().Bool("details", false, "include SWOT factors, costs, schemes, loans and reviews")

	optionsCmd.Flags().Bool("server", false, "show option lists served by the API")
	optionsCmd.Flags().Bool("subcategories", false, "include subcategory slugs")
}
