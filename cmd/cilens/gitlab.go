package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/cilens-dev/cilens/internal/cliconfig"
	"github.com/cilens-dev/cilens/internal/logging"
	"github.com/cilens-dev/cilens/internal/progress"
	"github.com/cilens-dev/cilens/internal/providers"
	"github.com/cilens-dev/cilens/internal/providers/gitlab"
	"github.com/cilens-dev/cilens/internal/token"
	"github.com/cilens-dev/cilens/pkg/cierrors"
)

// gitlabFlagOptions is validated with go-playground/validator before
// any network call is made, so a malformed invocation fails fast with
// a ConfigError (spec §7).
type gitlabFlagOptions struct {
	Token             string `validate:"required"`
	URL               string `validate:"required,url"`
	Project           string `validate:"required"`
	Limit             int    `validate:"gt=0,lte=1000"`
	Branch            string
	MinTypePercentage int `validate:"gte=0,lte=100"`
}

func newGitLabCmd(root *rootFlags) *cobra.Command {
	var flagOpts gitlabFlagOptions

	cmd := &cobra.Command{
		Use:   "gitlab",
		Short: "Collect pipeline insights from a GitLab project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGitLab(cmd, root, &flagOpts)
		},
	}

	cmd.Flags().StringVar(&flagOpts.Token, "token", "", "GitLab personal or project access token")
	cmd.Flags().StringVar(&flagOpts.URL, "url", "https://gitlab.com", "Base URL of the GitLab instance")
	cmd.Flags().StringVar(&flagOpts.Project, "project", "", "Project path, e.g. group/project")
	cmd.Flags().IntVar(&flagOpts.Limit, "limit", 20, "Maximum number of pipelines to analyze")
	cmd.Flags().StringVar(&flagOpts.Branch, "branch", "", "Restrict analysis to this branch/ref")
	cmd.Flags().IntVar(&flagOpts.MinTypePercentage, "min-type-percentage", 1, "Drop pipeline types below this percentage of total pipelines")

	return cmd
}

func runGitLab(cmd *cobra.Command, root *rootFlags, flagOpts *gitlabFlagOptions) error {
	file, err := cliconfig.Load(root.config)
	if err != nil {
		return err
	}

	flagOpts.Token = cliconfig.StringOr(flagOpts.Token, "GITLAB_TOKEN", "")
	// Flags with a non-empty built-in default only take precedence over
	// the environment and the config file when given explicitly.
	if !cmd.Flags().Changed("url") {
		if v := cliconfig.StringOr("", "GITLAB_URL", file.URL); v != "" {
			flagOpts.URL = v
		}
	}
	flagOpts.Project = cliconfig.StringOr(flagOpts.Project, "CILENS_PROJECT", file.Project)
	flagOpts.Branch = cliconfig.StringOr(flagOpts.Branch, "CILENS_BRANCH", file.Branch)
	if !cmd.Flags().Changed("limit") {
		flagOpts.Limit = cliconfig.IntOr(file.Limit, flagOpts.Limit)
	}
	if !cmd.Flags().Changed("min-type-percentage") {
		flagOpts.MinTypePercentage = cliconfig.IntOr(file.MinTypePercentage, flagOpts.MinTypePercentage)
	}
	root.output = cliconfig.StringOr(root.output, "CILENS_OUTPUT", file.Output)
	root.pretty = root.pretty || file.Pretty

	if err := validator.New().Struct(flagOpts); err != nil {
		return cierrors.NewConfigError("invalid options", err)
	}

	log := logging.New(logging.Options{Verbose: root.verbose}).With("gitlab")

	provider, err := gitlab.NewProvider(flagOpts.URL, token.New(flagOpts.Token))
	if err != nil {
		return err
	}

	reporter, stop := progress.Start(flagOpts.Limit, func(completed, total int) {
		log.Debug("ingesting pipeline jobs", "completed", completed, "total", total)
	})
	provider.WithProgress(reporter)

	log.Info("collecting pipeline insights", "project", flagOpts.Project, "limit", flagOpts.Limit)

	start := time.Now()
	report, err := provider.CollectInsights(context.Background(), providers.Options{
		Project:           flagOpts.Project,
		Limit:             flagOpts.Limit,
		Branch:            flagOpts.Branch,
		MinTypePercentage: flagOpts.MinTypePercentage,
	})
	stop()
	if err != nil {
		log.Error(err, "collection failed")
		return err
	}
	log.Info("collection complete", "elapsed", time.Since(start).String(), "pipeline_types", report.TotalPipelineTypes)
	if report.TotalPipelines == 0 {
		log.Warn("no pipelines found", "project", flagOpts.Project)
	}

	return writeReport(cmd, root, report)
}

func writeReport(cmd *cobra.Command, root *rootFlags, report any) error {
	var data []byte
	var err error
	if root.pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return cierrors.NewJSONError(err)
	}
	data = append(data, '\n')

	if root.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		if err != nil {
			return cierrors.NewIOError("", err)
		}
		return nil
	}

	if err := os.WriteFile(root.output, data, 0o644); err != nil {
		return cierrors.NewIOError(root.output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", root.output)
	return nil
}
