package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ideafactory/ideas/internal/model"
	"github.com/ideafactory/ideas/internal/submission"
	"github.com/ideafactory/ideas/internal/ui"
)

// stepFields assigns the form fields to the pages of the submission form.
var stepFields = [][]string{
	{model.FieldTitle, model.FieldCategory},
	{model.FieldDescription},
	{model.FieldInvestmentNeeded, model.FieldExpectedROI},
	{model.FieldTargetMarket},
	{model.FieldTimeframe},
	{model.FieldResources, model.FieldExpertise},
	{model.FieldChallenges},
	{model.FieldName, model.FieldContactEmail, model.FieldContactPhone},
}

var fieldLabels = map[string]string{
	model.FieldTitle:            "Idea title",
	model.FieldCategory:         "Category",
	model.FieldDescription:      "Description",
	model.FieldInvestmentNeeded: "Investment needed (e.g. 5 lakh)",
	model.FieldTargetMarket:     "Target market (comma separated)",
	model.FieldExpectedROI:      "Expected ROI",
	model.FieldTimeframe:        "Timeframe",
	model.FieldResources:        "Resources needed",
	model.FieldExpertise:        "Expertise needed",
	model.FieldChallenges:       "Challenges",
	model.FieldContactEmail:     "Contact email",
	model.FieldContactPhone:     "Contact phone",
	model.FieldName:             "Your name",
}

func fieldLabel(name string) string {
	if l, ok := fieldLabels[name]; ok {
		return l
	}
	return name
}

func stepOf(field string) int {
	for i, fields := range stepFields {
		if slices.Contains(fields, field) {
			return i
		}
	}
	return 0
}

func fieldOptions(field string) []model.Option {
	switch field {
	case model.FieldCategory:
		return model.IdeaCategories
	case model.FieldTimeframe:
		return model.TimeframeOptions
	}
	return nil
}

// errQuit ends an interactive session without submitting.
var errQuit = errors.New("submission abandoned")

// formSession walks a controller through the form pages on a terminal.
type formSession struct {
	c   *submission.Controller
	p   *ui.Prompter
	out io.Writer
}

func (s *formSession) askStep() error {
	step := s.c.Step()
	fs := s.c.CurrentStep()
	fmt.Fprintf(s.out, "\n%s  %s\n", ui.Steps(step, s.c.StepCount()), ui.RenderAccent(fs.Name))
	if fs.Description != "" {
		fmt.Fprintf(s.out, "%s\n\n", ui.RenderMuted(`"`+fs.Description+`"`))
	}
	for _, field := range stepFields[step] {
		if opts := fieldOptions(field); opts != nil {
			for _, o := range opts {
				fmt.Fprintf(s.out, "  %-14s %s\n", o.Value, ui.RenderMuted(o.Label))
			}
		}
		v, err := s.p.AskDefault(fieldLabel(field), s.c.Field(field))
		if err != nil {
			return err
		}
		if err := s.c.SetField(field, v); err != nil {
			return err
		}
	}
	return nil
}

// navigate asks where to go after a page and reports whether to submit.
func (s *formSession) navigate() (bool, error) {
	def := "n"
	if !s.c.CanGoNext() {
		def = "s"
	}
	choice, err := s.p.AskDefault("[n]ext, [b]ack, [s]ubmit, [q]uit", def)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(choice) {
	case "n", "next":
		s.c.NextStep()
	case "b", "back":
		s.c.PrevStep()
	case "s", "submit":
		return true, nil
	case "q", "quit":
		return false, errQuit
	default:
		fmt.Fprintf(s.out, "unknown choice %q\n", choice)
	}
	return false, nil
}

// run loops over pages until the form is submitted successfully or the
// user quits. A failed or invalid submission returns to the form with the
// entered values kept.
func (s *formSession) run(cmd *cobra.Command) (*model.Idea, error) {
	for {
		if err := s.askStep(); err != nil {
			return nil, err
		}
		submit, err := s.navigate()
		if err != nil {
			return nil, err
		}
		if !submit {
			continue
		}
		if !s.c.IsValid() {
			missing := s.c.Missing()
			fmt.Fprintf(s.out, "%s %s\n", ui.RenderError("missing:"), strings.Join(missing, ", "))
			target := stepOf(missing[0])
			for s.c.Step() > target {
				s.c.PrevStep()
			}
			for s.c.Step() < target {
				s.c.NextStep()
			}
			continue
		}
		idea, err := s.c.Submit(cmd.Context())
		if err != nil {
			fmt.Fprintf(s.out, "%s %v\n", ui.RenderError("submission failed:"), err)
			retry, aerr := s.p.AskDefault("retry? [y/n]", "y")
			if aerr != nil {
				return nil, aerr
			}
			if strings.HasPrefix(strings.ToLower(retry), "y") {
				continue
			}
			return nil, err
		}
		return idea, nil
	}
}

var submitCmd = &cobra.Command{
	Use:     "submit",
	Short:   "Submit a new business idea",
	GroupID: "submit",
	Long: `Submit a new business idea through the multi-step form.

Fields can be prefilled with --set. With --no-input the form is submitted
straight from the --set values.`,
	Example: `  ideas submit
  ideas submit --no-input --set title="Solar dryers" --set category=agriculture \
    --set description="..." --set name="A. Rao" --set contactEmail=a@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, _ := cmd.Flags().GetStringToString("set")
		noInput, _ := cmd.Flags().GetBool("no-input")

		pub := newPublisher()
		defer pub.Close()

		c := submission.NewController(ideasClient,
			submission.WithResetDelay(cfg.ResetDelay),
			submission.WithPublisher(pub),
			submission.WithLogger(logger.Named("submission")),
		)
		defer c.Close()

		if sess, err := state.Current(); err == nil {
			_ = c.SetField(model.FieldName, sess.User.FullName)
			_ = c.SetField(model.FieldContactEmail, sess.User.Email)
		}
		for k, v := range preset {
			if err := c.SetField(k, v); err != nil {
				return err
			}
		}

		var (
			idea *model.Idea
			err  error
		)
		if noInput {
			idea, err = c.Submit(cmd.Context())
		} else {
			s := &formSession{c: c, p: ui.NewPrompter(os.Stdin, cmd.ErrOrStderr()), out: cmd.ErrOrStderr()}
			idea, err = s.run(cmd)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), idea)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s idea submitted", ui.RenderSuccess("✓"))
		if idea != nil && idea.ID != 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (id %d)", idea.ID)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "; it will appear in the catalog once reviewed")
		return nil
	},
}

func init() {
	submitCmd.Flags().StringToString("set", nil, "prefill a form field (name=value, repeatable)")
	submitCmd.Flags().Bool("no-input", false, "submit the --set values without prompting")
}
