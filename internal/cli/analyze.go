package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"commitforge/internal/diff"
	"commitforge/internal/models"
)

func newAnalyzeCmd(getApp func() (*App, error)) *cobra.Command {
	var (
		src       diffFlags
		narrative string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a diff without generating a message",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			raw, err := src.load(app)
			if err != nil {
				return err
			}
			if strings.TrimSpace(raw) == "" {
				return fmt.Errorf("diff is empty")
			}

			doc, parseErrs := diff.Parse(raw)
			for _, perr := range parseErrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", &perr)
			}

			analysis, err := app.Cache.GetOrCompute(cmd.Context(), doc.Fingerprint, app.Config.CacheTTL,
				func(ctx context.Context) (*models.DiffAnalysis, error) {
					return app.Analyzer.Analyze(ctx, doc, narrative)
				})
			if err != nil {
				return err
			}

			printAnalysis(cmd, analysis)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&narrative, "narrative", "", "extra context about the change, mined for ticket references")
	return cmd
}

func printAnalysis(cmd *cobra.Command, a *models.DiffAnalysis) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "fingerprint:  %s\n", a.Fingerprint)
	fmt.Fprintf(out, "complexity:   %s\n", a.Complexity)
	fmt.Fprintf(out, "files:        %d (+%d/-%d lines)\n", a.TotalFilesChanged, a.TotalAddedLines, a.TotalDeletedLines)
	if len(a.Languages) > 0 {
		langs := make([]string, 0, len(a.Languages))
		for lang, count := range a.Languages {
			langs = append(langs, fmt.Sprintf("%s (%d)", lang, count))
		}
		sort.Strings(langs)
		fmt.Fprintf(out, "languages:    %s\n", strings.Join(langs, ", "))
	}
	if len(a.Modules) > 0 {
		fmt.Fprintf(out, "modules:      %s\n", strings.Join(a.Modules, ", "))
	}
	if len(a.DomainContexts) > 0 {
		fmt.Fprintf(out, "domains:      %s\n", strings.Join(a.DomainContexts, ", "))
	}
	if len(a.TicketIDs) > 0 {
		fmt.Fprintf(out, "tickets:      %s\n", strings.Join(a.TicketIDs, ", "))
	}

	var pre []string
	if a.Preflight.TouchesTests {
		pre = append(pre, "tests")
	}
	if a.Preflight.TouchesDependencies {
		pre = append(pre, "dependencies")
	}
	if a.Preflight.TouchesCI {
		pre = append(pre, "ci")
	}
	if a.Preflight.OversizedChange {
		pre = append(pre, "oversized")
	}
	if len(pre) > 0 {
		fmt.Fprintf(out, "touches:      %s\n", strings.Join(pre, ", "))
	}

	for _, finding := range a.SecurityFindings {
		fmt.Fprintf(out, "security [%s] %s: %s\n", finding.Severity, finding.File, finding.Description)
	}
	for _, smell := range a.Smells {
		fmt.Fprintf(out, "smell %s: %s\n", smell.File, smell.Description)
	}
	for _, suggestion := range a.RefactorSuggestions {
		fmt.Fprintf(out, "refactor %s: %s\n", suggestion.File, suggestion.Description)
	}
}
