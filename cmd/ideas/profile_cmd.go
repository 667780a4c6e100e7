package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ideafactory/ideas/internal/session"
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Short:   "Manage named server profiles",
	GroupID: "system",
	// Profile subcommands only touch local files; no API client is built.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadLocal(cmd)
	},
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q (want http:// or https://)", raw)
	}
	return nil
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name> <api-url>",
	Short: "Add or update a named profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, apiURL := args[0], args[1]
		if err := checkURL(apiURL); err != nil {
			return err
		}
		adminURL, _ := cmd.Flags().GetString("admin-url")
		natsURL, _ := cmd.Flags().GetString("nats")
		token, _ := cmd.Flags().GetString("token")

		profs, err := state.LoadProfiles()
		if err != nil {
			return err
		}
		// Credentials survive an upsert unless the server changes.
		p := profs.Profiles[name]
		if p.APIURL != apiURL {
			p = session.Profile{}
		}
		p.APIURL = apiURL
		p.AdminURL = adminURL
		p.NATSURL = natsURL
		if token != "" {
			p.Token = token
		}
		profs.Profiles[name] = p
		if err := state.SaveProfiles(profs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile %q added (%s)\n", name, apiURL)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		profs, err := state.LoadProfiles()
		if err != nil {
			return err
		}
		if _, ok := profs.Profiles[name]; !ok {
			return fmt.Errorf("profile %q not found", name)
		}
		delete(profs.Profiles, name)
		if profs.Active == name {
			profs.Active = ""
		}
		if err := state.SaveProfiles(profs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "profile %q removed\n", name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profs, err := state.LoadProfiles()
		if err != nil {
			return err
		}
		if len(profs.Profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no profiles configured")
			return nil
		}
		names := make([]string, 0, len(profs.Profiles))
		for name := range profs.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tAPI URL\tUSER\tTOKEN")
		for _, name := range names {
			p := profs.Profiles[name]
			marker := "  "
			if name == profs.ActiveName() {
				marker = "* "
			}
			user := ""
			if p.User != nil {
				user = p.User.Email
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", marker, name, p.APIURL, user, maskToken(p.Token))
		}
		return w.Flush()
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		profs, err := state.LoadProfiles()
		if err != nil {
			return err
		}
		if _, ok := profs.Profiles[name]; !ok {
			return fmt.Errorf("profile %q not found", name)
		}
		profs.Active = name
		if err := state.SaveProfiles(profs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "active profile set to %q\n", name)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [<name>]",
	Short: "Show details for a profile (defaults to active)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profs, err := state.LoadProfiles()
		if err != nil {
			return err
		}
		name := profs.Active
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no active profile; specify a name or run 'ideas profile use <name>'")
		}
		p, ok := profs.Profiles[name]
		if !ok {
			return fmt.Errorf("profile %q not found", name)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		active := ""
		if name == profs.Active {
			active = " (active)"
		}
		fmt.Fprintf(w, "name:\t%s%s\n", name, active)
		fmt.Fprintf(w, "api_url:\t%s\n", p.APIURL)
		if p.AdminURL != "" {
			fmt.Fprintf(w, "admin_url:\t%s\n", p.AdminURL)
		}
		if p.NATSURL != "" {
			fmt.Fprintf(w, "nats_url:\t%s\n", p.NATSURL)
		}
		if p.User != nil {
			fmt.Fprintf(w, "user:\t%s <%s>\n", p.User.FullName, p.User.Email)
		}
		if p.Token != "" {
			masked := p.Token
			if len(masked) > 8 {
				masked = masked[:8] + strings.Repeat("*", len(masked)-8)
			}
			fmt.Fprintf(w, "token:\t%s\n", masked)
		}
		if p.AdminUser != "" {
			fmt.Fprintf(w, "admin:\t%s\n", p.AdminUser)
		}
		return w.Flush()
	},
}

func init() {
	profileAddCmd.Flags().String("admin-url", "", "admin API base URL (defaults to the API URL)")
	profileAddCmd.Flags().String("nats", "", "NATS URL for catalog events")
	profileAddCmd.Flags().String("token", "", "bearer token for authentication")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileUseCmd)
	profileCmd.AddCommand(profileShowCmd)
}
