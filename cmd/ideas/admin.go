package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ideafactory/ideas/internal/client"
	"github.com/ideafactory/ideas/internal/events"
	"github.com/ideafactory/ideas/internal/export"
	"github.com/ideafactory/ideas/internal/model"
	"github.com/ideafactory/ideas/internal/session"
)

var errAdminSignIn = fmt.Errorf("%w as administrator; run 'ideas admin login'", session.ErrNotSignedIn)

// requireAdmin is the pre-run of every admin subcommand except login.
func requireAdmin(cmd *cobra.Command, args []string) error {
	if err := connect(cmd, adminCredentials); err != nil {
		return err
	}
	if profile.AdminToken == "" {
		return errAdminSignIn
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid idea id %q", s)
	}
	return id, nil
}

// publishChange emits a catalog change. Delivery failures are logged, not
// returned, since the change itself already succeeded.
func publishChange(cmd *cobra.Command, topic string, event any) {
	pub := newPublisher()
	defer pub.Close()
	if err := events.PublishChange(cmd.Context(), pub, topic, event); err != nil {
		logger.Warn("publishing event failed", zap.String("topic", topic), zap.Error(err))
	}
}

var adminCmd = &cobra.Command{
	Use:               "admin",
	Short:             "Moderate and manage the catalog",
	GroupID:           "admin",
	PersistentPreRunE: requireAdmin,
}

var adminLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as an administrator",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return connect(cmd, adminCredentials)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		p := prompter(cmd)
		user, err := flagOrAsk(cmd, p, "user", "Username or email", false)
		if err != nil {
			return err
		}
		password, err := flagOrAsk(cmd, p, "password", "Password", true)
		if err != nil {
			return err
		}
		resp, err := ideasClient.AdminLogin(cmd.Context(), user, password)
		if err != nil {
			return fmt.Errorf("admin login: %w", err)
		}
		if err := state.SignInAdmin(resp); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "signed in as administrator %s", resp.Username)
		if resp.Role != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", resp.Role)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

var adminLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the administrator token",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadLocal(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := state.SignOutAdmin(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "administrator signed out")
		return nil
	},
}

var adminValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the administrator token is still accepted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := ideasClient.ValidateToken(cmd.Context())
		if err != nil {
			return fmt.Errorf("validating token: %w", err)
		}
		if !ok {
			return fmt.Errorf("token rejected: %w", errAdminSignIn)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "token valid for %s\n", profile.AdminUser)
		return nil
	},
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ideas, including inactive ones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		var q client.AdminIdeaQuery
		q.Page, _ = fs.GetInt("page")
		q.Size, _ = fs.GetInt("size")
		q.SortBy, _ = fs.GetString("sort")
		q.SortDir, _ = fs.GetString("dir")
		q.Search, _ = fs.GetString("search")
		q.Category, _ = fs.GetString("category")
		q.Sector, _ = fs.GetString("sector")
		q.DifficultyLevel, _ = fs.GetString("difficulty")
		q.Location, _ = fs.GetString("location")
		q.MaxInvestment, _ = fs.GetFloat64("max-investment")
		q.TargetAudience, _ = fs.GetString("audience")
		q.SpecialAdvantage, _ = fs.GetString("advantage")
		if q.SortDir != "" && q.SortDir != "asc" && q.SortDir != "desc" {
			return fmt.Errorf("--dir must be asc or desc, got %q", q.SortDir)
		}

		page, err := ideasClient.ListAdminIdeas(cmd.Context(), &q)
		if err != nil {
			return fmt.Errorf("listing ideas: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), page)
		}
		if err := printIdeaRows(cmd.OutOrStdout(), page.Content); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\npage %d of %d (%d ideas)\n", page.Number+1, max(page.TotalPages, 1), page.TotalElements)
		return nil
	},
}

func readIdeaFile(path string) (*model.Idea, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idea model.Idea
	if err := json.Unmarshal(data, &idea); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &idea, nil
}

var adminCreateCmd = &cobra.Command{
	Use:   "create <idea.json>",
	Short: "Create an idea from a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idea, err := readIdeaFile(args[0])
		if err != nil {
			return err
		}
		if strings.TrimSpace(idea.Title) == "" || strings.TrimSpace(idea.Category) == "" {
			return errors.New("idea needs a title and a category")
		}
		created, err := ideasClient.CreateIdea(cmd.Context(), idea)
		if err != nil {
			return fmt.Errorf("creating idea: %w", err)
		}
		publishChange(cmd, events.TopicIdeaCreated, events.IdeaCreated{Idea: created})
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), created)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created idea %d\n", created.ID)
		return nil
	},
}

var adminUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an idea",
	Long: `Update an idea. With --file the idea is replaced by the file's contents;
otherwise the given flags are applied to the current record.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		fs := cmd.Flags()

		var idea *model.Idea
		if file, _ := fs.GetString("file"); file != "" {
			if idea, err = readIdeaFile(file); err != nil {
				return err
			}
		} else {
			if idea, err = ideasClient.GetIdea(cmd.Context(), id); err != nil {
				return fmt.Errorf("getting idea %d: %w", id, err)
			}
			for flag, dst := range map[string]*string{
				"title":       &idea.Title,
				"description": &idea.Description,
				"category":    &idea.Category,
				"sector":      &idea.Sector,
				"difficulty":  &idea.DifficultyLevel,
				"location":    &idea.Location,
			} {
				if fs.Changed(flag) {
					*dst, _ = fs.GetString(flag)
				}
			}
			if fs.Changed("investment") {
				idea.InvestmentNeeded, _ = fs.GetFloat64("investment")
			}
		}
		idea.ID = id

		updated, err := ideasClient.AdminUpdateIdea(cmd.Context(), id, idea)
		if err != nil {
			return fmt.Errorf("updating idea %d: %w", id, err)
		}
		publishChange(cmd, events.TopicIdeaUpdated, events.IdeaUpdated{Idea: updated})
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), updated)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated idea %d\n", id)
		return nil
	},
}

var adminDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := ideasClient.AdminDeleteIdea(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting idea %d: %w", id, err)
		}
		publishChange(cmd, events.TopicIdeaDeleted, events.IdeaDeleted{IdeaID: args[0]})
		fmt.Fprintf(cmd.OutOrStdout(), "deleted idea %d\n", id)
		return nil
	},
}

var adminToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Publish or unpublish an idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		idea, err := ideasClient.ToggleIdeaStatus(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("toggling idea %d: %w", id, err)
		}
		publishChange(cmd, events.TopicIdeaStatusToggled,
			events.IdeaStatusToggled{IdeaID: args[0], Active: idea.Active()})
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), idea)
		}
		status := "inactive"
		if idea.Active() {
			status = "active"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "idea %d is now %s\n", id, status)
		return nil
	},
}

// archiveUpload copies an uploaded file to the configured bucket. It
// returns an empty key when no bucket is configured.
func archiveUpload(cmd *cobra.Command, batchID, filename string, data []byte) (string, error) {
	if cfg.S3Bucket == "" {
		return "", nil
	}
	dest, err := export.NewS3Destination(cmd.Context(), export.S3Options{
		Bucket:   cfg.S3Bucket,
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
		Prefix:   cfg.S3Prefix,
	}, "")
	if err != nil {
		return "", err
	}
	return dest.Archive(cmd.Context(), batchID, filename, mime.TypeByExtension(filepath.Ext(filename)), data)
}

var adminUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Bulk upload ideas from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		res, err := ideasClient.UploadIdeas(cmd.Context(), path, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
		}

		if res.Success {
			key, err := archiveUpload(cmd, res.BatchID, path, data)
			if err != nil {
				logger.Warn("archiving upload failed", zap.String("file", path), zap.Error(err))
			}
			res.ArchivedKey = key
			publishChange(cmd, events.TopicUploadCompleted, events.UploadCompleted{
				BatchID:     res.BatchID,
				Filename:    filepath.Base(path),
				IdeasCount:  res.IdeasCount,
				ArchivedKey: key,
			})
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Message)
		if res.BatchID != "" {
			fmt.Fprintf(out, "batch:    %s\n", res.BatchID)
		}
		fmt.Fprintf(out, "ideas:    %d\n", res.IdeasCount)
		if res.ArchivedKey != "" {
			fmt.Fprintf(out, "archived: s3://%s/%s\n", cfg.S3Bucket, res.ArchivedKey)
		}
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  error: %s\n", e)
		}
		if !res.Success {
			return errors.New("upload rejected")
		}
		return nil
	},
}

var adminUploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Show bulk upload history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		history, err := ideasClient.UploadHistory(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting upload history: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), history)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BATCH\tFILE\tIDEAS\tSTATUS\tUPLOADED\tBY")
		for _, h := range history {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
				h.BatchID, truncate(h.Filename, 32), h.IdeasCount, h.Status, h.UploadTimestamp, h.UploadedBy)
		}
		return w.Flush()
	},
}

var adminUploadStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show upload totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := ideasClient.UploadHistoryStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting upload stats: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), stats)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploads: %d\nideas:   %d\n", stats.TotalUploads, stats.TotalIdeasUploaded)
		return nil
	},
}

var adminUploadDeleteCmd = &cobra.Command{
	Use:   "delete <batch-id>",
	Short: "Delete an upload batch and its ideas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := ideasClient.DeleteUploadBatch(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("deleting batch %s: %w", args[0], err)
		}
		if res.Success {
			publishChange(cmd, events.TopicUploadDeleted, events.UploadDeleted{
				BatchID:           args[0],
				DeletedIdeasCount: res.DeletedIdeasCount,
			})
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		if !res.Success {
			return errors.New("batch not deleted")
		}
		return nil
	},
}

var adminDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show dashboard counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := ideasClient.DashboardStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting dashboard stats: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), stats)
		}
		return printStats(cmd.OutOrStdout(), stats)
	},
}

var adminOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the admin filter option lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := ideasClient.AdminFilterOptions(cmd.Context())
		if err != nil {
			return fmt.Errorf("getting filter options: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), opts)
		}
		out := cmd.OutOrStdout()
		printStrings(out, "Categories", opts.Categories)
		printStrings(out, "Sectors", opts.Sectors)
		printStrings(out, "Difficulty levels", opts.DifficultyLevels)
		printStrings(out, "Locations", opts.Locations)
		printStrings(out, "Target audiences", opts.TargetAudiences)
		printStrings(out, "Special advantages", opts.SpecialAdvantages)
		return nil
	},
}

func init() {
	adminLoginCmd.Flags().String("user", "", "username or email")
	adminLoginCmd.Flags().String("password", "", "password (prompted when omitted)")

	fs := adminListCmd.Flags()
	fs.Int("page", 0, "zero-based page number")
	fs.Int("size", client.DefaultPageSize, "page size")
	fs.String("sort", client.DefaultSortBy, "sort field")
	fs.String("dir", client.DefaultSortDir, "sort direction (asc or desc)")
	fs.StringP("search", "q", "", "search text")
	fs.String("category", "", "exact category")
	fs.String("sector", "", "exact sector")
	fs.String("difficulty", "", "exact difficulty level")
	fs.String("location", "", "exact location")
	fs.Float64("max-investment", 0, "maximum investment")
	fs.String("audience", "", "target audience")
	fs.String("advantage", "", "special advantage")

	fs = adminUpdateCmd.Flags()
	fs.String("file", "", "replace the idea with this JSON file")
	fs.String("title", "", "new title")
	fs.String("description", "", "new description")
	fs.String("category", "", "new category")
	fs.String("sector", "", "new sector")
	fs.String("difficulty", "", "new difficulty level")
	fs.String("location", "", "new location")
	fs.Float64("investment", 0, "new investment amount")

	adminUploadsCmd.AddCommand(adminUploadStatsCmd)
	adminUploadsCmd.AddCommand(adminUploadDeleteCmd)

	adminCmd.AddCommand(adminLoginCmd)
	adminCmd.AddCommand(adminLogoutCmd)
	adminCmd.AddCommand(adminValidateCmd)
	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminCreateCmd)
	adminCmd.AddCommand(adminUpdateCmd)
	adminCmd.AddCommand(adminDeleteCmd)
	adminCmd.AddCommand(adminToggleCmd)
	adminCmd.AddCommand(adminUploadCmd)
	adminCmd.AddCommand(adminUploadsCmd)
	adminCmd.AddCommand(adminDashboardCmd)
	adminCmd.AddCommand(adminOptionsCmd)
}
