package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llmnexus/nexus/internal/application"
	"github.com/llmnexus/nexus/internal/domain"
)

func newQueryCmd(app *app) *cobra.Command {
	var userID string
	var objective string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query <prompt>",
		Short: "Send a prompt to the cohort selected for an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, app, args[0], userID, objective, asJSON)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User identifier for rate limiting (required)")
	cmd.Flags().StringVar(&objective, "objective", "general", "Routing objective: general, coding, fast_response, cost_saving")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runQuery(cmd *cobra.Command, app *app, prompt, userID, objective string, asJSON bool) error {
	if strings.TrimSpace(prompt) == "" {
		return errors.New("prompt must not be empty")
	}

	execute := application.ExecuteCommand{
		UserID:    userID,
		Prompt:    prompt,
		Objective: objective,
	}

	var result application.ExecuteResult
	dispatch := func(ctx context.Context) error {
		var err error
		result, err = app.orchestrator.Execute(ctx, execute)
		return err
	}

	var err error
	if asJSON {
		err = dispatch(cmd.Context())
	} else {
		err = runDispatchSpinner(cmd.Context(), cmd.ErrOrStderr(), dispatch)
	}
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			return fmt.Errorf("rate limit reached for user %q, try again in a minute", userID)
		}
		return err
	}

	if !result.MetricsPersisted {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "warning: metrics were not recorded for this request")
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	rendered, err := app.resultRenderer(result)
	if err != nil {
		return fmt.Errorf("render result: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
