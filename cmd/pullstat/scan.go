// Copyright 2026 Pullstat Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pullstathq/pullstat/internal/config"
	pserrors "github.com/pullstathq/pullstat/internal/errors"
	"github.com/pullstathq/pullstat/internal/github"
	"github.com/pullstathq/pullstat/internal/output"
	"github.com/pullstathq/pullstat/internal/pipeline"
	"github.com/pullstathq/pullstat/internal/ratelimit"
)

// scanFlags holds the scan command's flag values before they are merged with
// file and environment configuration.
type scanFlags struct {
	repo          string
	token         string
	window        int
	state         string
	maxPRs        int
	basic         bool
	includeDrafts bool
	outputFile    string
	configFile    string
	verbose       bool
}

func newScanCommand() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "scan <owner>",
		Short: "Scan an organization or user and emit pull request metrics as CSV",
		Long: `Scan the repositories of a GitHub organization or user, collect pull
requests created within the scan window, and emit one CSV row of derived
metrics per pull request.

The owner is tried as an organization first; if that fails, it is treated
as a user account.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(flags.configFile)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg, &flags)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runScan(cmd.Context(), args[0], cfg, flags)
		},
	}

	cmd.Flags().StringVar(&flags.repo, "repo", "", "Scan a single repository instead of the whole owner")
	cmd.Flags().StringVar(&flags.token, "token", "", "GitHub personal access token (overrides the token environment variable)")
	cmd.Flags().IntVar(&flags.window, "window", 30, "Scan window in days; pull requests created earlier are excluded")
	cmd.Flags().StringVar(&flags.state, "state", "all", "Pull request state filter: all, open or closed")
	cmd.Flags().IntVar(&flags.maxPRs, "max-prs", 200, "Maximum pull requests collected per repository")
	cmd.Flags().BoolVar(&flags.basic, "basic", false, "Skip review and comment detail calls (faster, fewer columns populated)")
	cmd.Flags().BoolVar(&flags.includeDrafts, "include-drafts", false, "Include draft pull requests")
	cmd.Flags().StringVar(&flags.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flags.configFile, "config", "", "Config file path (default: .pullstat.yaml discovery)")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// applyFlagOverrides merges explicitly set flags over the loaded
// configuration, then reads the effective values back so runScan sees one
// consistent set.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags *scanFlags) {
	if cmd.Flags().Changed("window") {
		cfg.Defaults.WindowDays = flags.window
	}
	if cmd.Flags().Changed("state") {
		cfg.Defaults.State = strings.ToLower(flags.state)
	}
	if cmd.Flags().Changed("max-prs") {
		cfg.Defaults.MaxPerRepo = flags.maxPRs
	}
	if cmd.Flags().Changed("include-drafts") {
		cfg.Defaults.IncludeDrafts = flags.includeDrafts
	}

	flags.window = cfg.Defaults.WindowDays
	flags.state = cfg.Defaults.State
	flags.maxPRs = cfg.Defaults.MaxPerRepo
	flags.includeDrafts = cfg.Defaults.IncludeDrafts
}

// runScan executes the scan command.
func runScan(ctx context.Context, owner string, cfg *config.Config, flags scanFlags) error {
	token := getToken(flags.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w",
			cfg.GitHub.TokenEnv, pserrors.ErrInvalidToken)
	}

	log := newLogger(flags.verbose)
	defer log.Sync() //nolint:errcheck // stderr sync failure is uninteresting

	gate := ratelimit.NewGate(cfg.RateLimit.MinRemaining, cfg.RateLimit.PauseMargin, log)
	client := github.NewRESTClient(github.ClientConfig{
		Token:           token,
		APIEndpoint:     cfg.GitHub.APIEndpoint,
		GraphQLEndpoint: cfg.GitHub.GraphQLEndpoint,
		Cooldown:        cfg.RateLimit.Cooldown,
	}, gate, log)

	writer, err := newOutputWriter(flags.outputFile)
	if err != nil {
		return err
	}
	defer writer.Close()

	cutoff := time.Now().UTC().AddDate(0, 0, -flags.window)
	log.Debug("scan starting",
		zap.String("owner", owner),
		zap.String("repo", flags.repo),
		zap.Time("cutoff", cutoff),
		zap.String("state", flags.state))

	// For a single repository the metadata query gives the progress text a
	// denominator. Best effort only: the scan proceeds without it.
	total := 0
	if flags.repo != "" {
		if info, infoErr := client.GetRepositoryInfo(ctx, owner, flags.repo); infoErr == nil {
			total = info.TotalPullRequests
		} else {
			log.Debug("repository metadata query failed", zap.Error(infoErr))
		}
	}

	spinner, _ := pterm.DefaultSpinner.
		WithWriter(os.Stderr).
		Start(fmt.Sprintf("Scanning %s...", scanTarget(owner, flags.repo)))

	p := pipeline.New(client, log)
	p.Progress = func(repo string, rows int) {
		text := fmt.Sprintf("Scanned %s/%s: %d pull requests collected", owner, repo, rows)
		if total > 0 {
			text = fmt.Sprintf("Scanned %s/%s: %d pull requests collected (%d in repository)",
				owner, repo, rows, total)
		}
		spinner.UpdateText(text)
	}

	rows, err := p.Run(ctx, pipeline.Options{
		Owner:         owner,
		Repo:          flags.repo,
		Cutoff:        cutoff,
		State:         flags.state,
		IncludeDrafts: flags.includeDrafts,
		MaxPerRepo:    flags.maxPRs,
		Basic:         flags.basic,
	})
	if err != nil {
		spinner.Fail(fmt.Sprintf("Scan of %s failed", scanTarget(owner, flags.repo)))
		return err
	}

	if err := writer.WriteHeader(); err != nil {
		spinner.Fail("Failed to write output")
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			spinner.Fail("Failed to write output")
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	spinner.Success(fmt.Sprintf("Collected %d pull requests from %s",
		writer.Count(), scanTarget(owner, flags.repo)))
	return nil
}

// scanTarget formats the scan subject for user-facing messages.
func scanTarget(owner, repo string) string {
	if repo != "" {
		return owner + "/" + repo
	}
	return owner
}

// newOutputWriter opens the CSV destination: stdout by default, a file when
// requested.
func newOutputWriter(path string) (*output.Writer, error) {
	if path == "" {
		return output.NewWriter(os.Stdout), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return output.NewWriter(f), nil
}

// newLogger builds a console logger on stderr. Stdout stays reserved for CSV.
func newLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

// getToken returns the GitHub token from flag or environment variable.
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	if tokenEnv == "" {
		tokenEnv = "GITHUB_TOKEN"
	}
	return os.Getenv(tokenEnv)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, pserrors.ErrInvalidToken) ||
		errors.Is(err, pserrors.ErrForbidden) ||
		errors.Is(err, pserrors.ErrNotFound) ||
		errors.Is(err, pserrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, pserrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
