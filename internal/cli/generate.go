package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"commitforge/internal/events"
	"commitforge/internal/pipeline"
	"commitforge/internal/utils"
)

type diffFlags struct {
	repoPath string
	diffFile string
}

func (f *diffFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.repoPath, "repo", "", "git repository whose HEAD commit diff is used")
	cmd.Flags().StringVar(&f.diffFile, "diff-file", "", "read the unified diff from a file, '-' for stdin")
}

// load resolves the diff text: an explicit file (or stdin) wins over a
// repository path; with neither set, the current directory's repo is tried.
func (f *diffFlags) load(app *App) (string, error) {
	switch {
	case f.diffFile == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read diff from stdin: %w", err)
		}
		return string(data), nil
	case f.diffFile != "":
		data, err := os.ReadFile(f.diffFile)
		if err != nil {
			return "", fmt.Errorf("read diff file: %w", err)
		}
		return string(data), nil
	case f.repoPath != "":
		if !utils.DirectoryExists(f.repoPath) {
			return "", fmt.Errorf("repository path %s does not exist", f.repoPath)
		}
		return app.Services.Git.HeadDiff(f.repoPath)
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		if !utils.HasGitRepo(cwd) {
			return "", fmt.Errorf("no diff source: pass --diff-file or --repo, or run inside a git repository")
		}
		return app.Services.Git.HeadDiff(cwd)
	}
}

func newGenerateCmd(getApp func() (*App, error)) *cobra.Command {
	var (
		src       diffFlags
		modelKey  string
		persona   string
		narrative string
		quiet     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a commit message for a diff",
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

			settings, err := app.Services.Settings.Get()
			if err != nil {
				return err
			}
			if modelKey == "" {
				modelKey = settings.DefaultModelKey
				if modelKey == "" {
					modelKey = app.Config.DefaultModelKey
				}
			}
			if persona == "" {
				persona = settings.Persona
			}

			var unsubscribe func()
			if !quiet {
				var ch <-chan events.ProgressEvent
				ch, unsubscribe = app.Hub.Subscribe(64)
				done := make(chan struct{})
				go func() {
					defer close(done)
					printProgress(cmd.ErrOrStderr(), ch)
				}()
				defer func() {
					unsubscribe()
					<-done
				}()
			}

			record, err := app.Orchestrator.Run(cmd.Context(), pipeline.TriggerRequest{
				Diff:      raw,
				ModelKey:  modelKey,
				Persona:   persona,
				Narrative: narrative,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), record.EnhancedMessage)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&modelKey, "model", "m", "", "model key (provider|apiName), defaults to the stored preference")
	cmd.Flags().StringVar(&persona, "persona", "", "override the system persona for this run")
	cmd.Flags().StringVar(&narrative, "narrative", "", "extra context about the change, mined for ticket references")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}

func printProgress(w io.Writer, ch <-chan events.ProgressEvent) {
	for evt := range ch {
		switch evt.Stage {
		case events.StageGenerationProgress:
			fmt.Fprint(w, evt.Message)
		case events.StageGenerationComplete:
			fmt.Fprintln(w)
		case events.StageError:
			fmt.Fprintf(w, "error at %s: %s\n", evt.Metadata["stage"], evt.Message)
		default:
			fmt.Fprintf(w, "[%s]\n", evt.Stage)
		}
	}
}
