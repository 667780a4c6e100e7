package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ideafactory/ideas/internal/client"
	"github.com/ideafactory/ideas/internal/model"
	"github.com/ideafactory/ideas/internal/session"
	"github.com/ideafactory/ideas/internal/ui"
)

func prompter(cmd *cobra.Command) *ui.Prompter {
	return ui.NewPrompter(os.Stdin, cmd.ErrOrStderr())
}

// flagOrAsk returns the flag value, prompting for it when empty.
func flagOrAsk(cmd *cobra.Command, p *ui.Prompter, flag, label string, secret bool) (string, error) {
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v, nil
	}
	if secret {
		return p.ReadSecret(label + ": ")
	}
	return p.Ask(label + ": ")
}

func signedIn(cmd *cobra.Command, resp *model.AuthResponse) error {
	if err := state.SignIn(resp); err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), resp.User())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s <%s>\n", resp.FullName, resp.Email)
	if !resp.EmailVerified {
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMuted("email not verified yet; check your inbox"))
	}
	return nil
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Short:   "Create an account",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := prompter(cmd)
		var req model.SignupRequest
		var err error
		if req.FullName, err = flagOrAsk(cmd, p, "name", "Full name", false); err != nil {
			return err
		}
		if req.Email, err = flagOrAsk(cmd, p, "email", "Email", false); err != nil {
			return err
		}
		if req.Password, err = flagOrAsk(cmd, p, "password", "Password", true); err != nil {
			return err
		}
		req.PhoneNumber, _ = cmd.Flags().GetString("phone")

		resp, err := ideasClient.Signup(cmd.Context(), &req)
		if err != nil {
			return fmt.Errorf("signing up: %w", err)
		}
		return signedIn(cmd, resp)
	},
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in with email and password",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := prompter(cmd)
		email, err := flagOrAsk(cmd, p, "email", "Email", false)
		if err != nil {
			return err
		}
		password, err := flagOrAsk(cmd, p, "password", "Password", true)
		if err != nil {
			return err
		}
		resp, err := ideasClient.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("logging in: %w", err)
		}
		return signedIn(cmd, resp)
	},
}

var googleLoginCmd = &cobra.Command{
	Use:     "google-login",
	Short:   "Sign in with a Google identity",
	GroupID: "account",
	Long: `Sign in with an identity already verified by Google. The Google account
ID, email and name are normally supplied by a browser sign-in flow.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var req model.GoogleLoginRequest
		req.GoogleID, _ = cmd.Flags().GetString("google-id")
		req.Email, _ = cmd.Flags().GetString("email")
		req.FullName, _ = cmd.Flags().GetString("name")
		req.ProfilePictureURL, _ = cmd.Flags().GetString("picture")
		if req.GoogleID == "" || req.Email == "" {
			return errors.New("--google-id and --email are required")
		}
		resp, err := ideasClient.GoogleLogin(cmd.Context(), &req)
		if err != nil {
			return fmt.Errorf("google login: %w", err)
		}
		return signedIn(cmd, resp)
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Sign out of the active profile",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := state.Current(); errors.Is(err, session.ErrNotSignedIn) {
			fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
			return nil
		}
		// The local session is dropped even if the server call fails.
		if err := ideasClient.Logout(cmd.Context()); err != nil && !client.IsAuthCode(err, model.AuthUnauthorized) {
			logger.Sugar().Warnf("server logout failed: %v", err)
		}
		if err := state.SignOut(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in user",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := state.Current()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), sess.User)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "profile:  %s\n", sess.Profile)
		fmt.Fprintf(out, "name:     %s\n", sess.User.FullName)
		fmt.Fprintf(out, "email:    %s\n", sess.User.Email)
		if sess.User.Role != "" {
			fmt.Fprintf(out, "role:     %s\n", sess.User.Role)
		}
		fmt.Fprintf(out, "verified: %t\n", sess.User.EmailVerified)
		if sess.Expired(time.Now()) {
			fmt.Fprintln(out, ui.RenderError("session expired; run 'ideas login'"))
		}
		return nil
	},
}

var passwordCmd = &cobra.Command{
	Use:     "password",
	Short:   "Reset a forgotten password",
	GroupID: "account",
}

var passwordForgotCmd = &cobra.Command{
	Use:   "forgot <email>",
	Short: "Email a password reset link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := ideasClient.ForgotPassword(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("requesting password reset: %w", err)
		}
		if msg == "" {
			msg = "if an account exists for this email, a reset link has been sent"
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset <token>",
	Short: "Set a new password using a reset token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := flagOrAsk(cmd, prompter(cmd), "password", "New password", true)
		if err != nil {
			return err
		}
		if len(pw) < 6 {
			return errors.New("password must be at least 6 characters")
		}
		msg, err := ideasClient.ResetPassword(cmd.Context(), args[0], pw)
		if err != nil {
			return fmt.Errorf("resetting password: %w", err)
		}
		if msg == "" {
			msg = "password updated"
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var verifyEmailCmd = &cobra.Command{
	Use:     "verify-email <token>",
	Short:   "Confirm an email address",
	GroupID: "account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := ideasClient.VerifyEmail(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("verifying email: %w", err)
		}
		if err := state.UpdateActive(func(p *session.Profile) {
			if p.User != nil {
				p.User.EmailVerified = true
			}
		}); err != nil {
			return err
		}
		if msg == "" {
			msg = "email verified"
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var accountProfileCmd = &cobra.Command{
	Use:     "account",
	Short:   "Show or edit your dashboard profile",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := state.Current(); err != nil {
			return err
		}
		fs := cmd.Flags()
		var prof *model.Profile
		var err error
		if fs.Changed("bio") || fs.Changed("phone") || fs.Changed("location") {
			cur, err := ideasClient.GetProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("getting profile: %w", err)
			}
			if fs.Changed("bio") {
				cur.Bio, _ = fs.GetString("bio")
			}
			if fs.Changed("phone") {
				cur.PhoneNumber, _ = fs.GetString("phone")
			}
			if fs.Changed("location") {
				cur.Location, _ = fs.GetString("location")
			}
			prof, err = ideasClient.UpdateProfile(cmd.Context(), cur)
			if err != nil {
				return fmt.Errorf("updating profile: %w", err)
			}
		} else if prof, err = ideasClient.GetProfile(cmd.Context()); err != nil {
			return fmt.Errorf("getting profile: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), prof)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:     %s\n", prof.FullName)
		fmt.Fprintf(out, "email:    %s\n", prof.Email)
		fmt.Fprintf(out, "phone:    %s\n", prof.PhoneNumber)
		fmt.Fprintf(out, "location: %s\n", prof.Location)
		if prof.Bio != "" {
			fmt.Fprintf(out, "\n%s\n", prof.Bio)
		}
		return nil
	},
}

func init() {
	signupCmd.Flags().String("name", "", "full name")
	signupCmd.Flags().String("email", "", "email address")
	signupCmd.Flags().String("password", "", "password (prompted when omitted)")
	signupCmd.Flags().String("phone", "", "phone number")

	loginCmd.Flags().String("email", "", "email address")
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")

	googleLoginCmd.Flags().String("google-id", "", "Google account ID")
	googleLoginCmd.Flags().String("email", "", "email address")
	googleLoginCmd.Flags().String("name", "", "full name")
	googleLoginCmd.Flags().String("picture", "", "profile picture URL")

	passwordResetCmd.Flags().String("password", "", "new password (prompted when omitted)")
	passwordCmd.AddCommand(passwordForgotCmd)
	passwordCmd.AddCommand(passwordResetCmd)

	accountProfileCmd.Flags().String("bio", "", "set bio")
	accountProfileCmd.Flags().String("phone", "", "set phone number")
	accountProfileCmd.Flags().String("location", "", "set location")
}
