package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/thomas-vilte/devrecap/internal/cli/completion_helper"
	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

// DefaultWindowDays is the search window used when --from is omitted.
const DefaultWindowDays = 30

// searchProvider builds the search orchestrator on demand.
type searchProvider interface {
	SearchService(ctx context.Context) (*services.SearchService, error)
}

type SearchCommandFactory struct {
	provider searchProvider
	now      func() time.Time
}

func NewSearchCommandFactory(provider searchProvider) *SearchCommandFactory {
	return &SearchCommandFactory{provider: provider, now: time.Now}
}

func (f *SearchCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	flags := Flags(t)
	flags = append(flags,
		&cli.BoolFlag{
			Name:  "json",
			Usage: t.GetMessage("search.json_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   t.GetMessage("search.output_flag", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "files",
			Usage: t.GetMessage("search.files_flag", 0, nil),
		},
	)

	return &cli.Command{
		Name:          "search",
		Aliases:       []string{"s"},
		Usage:         t.GetMessage("search.usage", 0, nil),
		Flags:         flags,
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			result, err := Run(ctx, cmd, f.provider, t, cfg, f.now)
			if err != nil {
				return err
			}

			if path := cmd.String("output"); path != "" {
				if err := WriteResult(path, result); err != nil {
					return err
				}
				ui.PrintSuccess(w, t.GetMessage("search.saved", 0, map[string]interface{}{"Path": path}))
			}

			if cmd.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			PrintResult(w, result, t, cmd.Bool("files"))
			return nil
		},
	}
}

// Flags returns the flags that describe a search. They are shared with the
// report command.
func Flags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   t.GetMessage("search.repo_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:  "from",
			Usage: t.GetMessage("search.from_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: t.GetMessage("search.to_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:  "scope",
			Value: string(models.ScopeBoth),
			Usage: t.GetMessage("search.scope_flag", 0, nil),
		},
		&cli.IntFlag{
			Name:  "max-prs",
			Usage: t.GetMessage("search.max_prs_flag", 0, nil),
		},
		&cli.IntFlag{
			Name:  "max-commits",
			Usage: t.GetMessage("search.max_commits_flag", 0, nil),
		},
	}
}

// Options reads the search flags of cmd. Limits default to the configured ones.
func Options(cmd *cli.Command, cfg *config.Config, now func() time.Time) services.SearchOptions {
	today := now()
	opts := services.SearchOptions{
		Repository: strings.TrimSpace(cmd.String("repo")),
		StartDate:  cmd.String("from"),
		EndDate:    cmd.String("to"),
		Scope:      models.SearchScope(strings.ToLower(cmd.String("scope"))),
		MaxPRs:     cfg.MaxPRs,
		MaxCommits: cfg.MaxCommits,
	}
	if opts.EndDate == "" {
		opts.EndDate = today.Format(time.DateOnly)
	}
	if opts.StartDate == "" {
		opts.StartDate = today.AddDate(0, 0, -DefaultWindowDays).Format(time.DateOnly)
	}
	if cmd.IsSet("max-prs") {
		opts.MaxPRs = int(cmd.Int("max-prs"))
	}
	if cmd.IsSet("max-commits") {
		opts.MaxCommits = int(cmd.Int("max-commits"))
	}
	return opts
}

// Run performs the search described by cmd's flags behind a spinner.
func Run(ctx context.Context, cmd *cli.Command, provider searchProvider, t *i18n.Translations, cfg *config.Config, now func() time.Time) (models.AnalysisResult, error) {
	svc, err := provider.SearchService(ctx)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	opts := Options(cmd, cfg, now)
	if opts.Repository == "" {
		return models.AnalysisResult{}, domainErrors.NewValidationError(domainErrors.KindInvalidInput, "repository",
			t.GetMessage("search.repo_required", 0, nil))
	}

	spinner := ui.NewSmartSpinner(t.GetMessage("search.starting", 0, map[string]interface{}{"Repo": opts.Repository}))
	opts.Progress = func(ev models.ProgressEvent) {
		spinner.UpdateMessage(ProgressMessage(t, ev))
	}

	spinner.Start()
	result, err := svc.PerformSearch(ctx, opts)
	spinner.Stop()
	return result, err
}

// ProgressMessage translates a progress event, falling back to its text.
func ProgressMessage(t *i18n.Translations, ev models.ProgressEvent) string {
	if ev.MessageID != "" && t.Has(ev.MessageID) {
		return fmt.Sprintf("[%d%%] %s", ev.Percent, t.GetMessage(ev.MessageID, ev.Count, map[string]interface{}{"Count": ev.Count}))
	}
	return fmt.Sprintf("[%d%%] %s", ev.Percent, ev.Message)
}

// WriteResult saves result as indented JSON so a later report can reuse it.
func WriteResult(path string, result models.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResult loads a result saved by WriteResult.
func ReadResult(path string) (models.AnalysisResult, error) {
	var result models.AnalysisResult
	data, err := os.ReadFile(path)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return result, nil
}

func PrintResult(w io.Writer, result models.AnalysisResult, t *i18n.Translations, showFiles bool) {
	ui.PrintSectionBanner(w, t.GetMessage("search.result_title", 0, map[string]interface{}{"Repo": result.Repository}))
	ui.PrintKeyValue(w, t.GetMessage("search.label_author", 0, nil), result.Author)
	ui.PrintKeyValue(w, t.GetMessage("search.label_range", 0, nil), result.DateRange.Start+" → "+result.DateRange.End)
	ui.PrintKeyValue(w, t.GetMessage("search.label_type", 0, nil), string(result.Type))
	ui.PrintKeyValue(w, "Pull Requests", fmt.Sprintf("%d", len(result.PullRequests)))
	ui.PrintKeyValue(w, "Commits", fmt.Sprintf("%d", result.TotalUserCommits))

	if len(result.PullRequests) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", ui.Accent.Sprint(t.GetMessage("search.prs_header", 0, nil)))
		for _, pr := range result.PullRequests {
			_, _ = fmt.Fprintf(w, "  #%d %s %s %s\n",
				pr.Number,
				pr.Title,
				ui.Dim.Sprintf("[%s]", pr.State),
				ui.Dim.Sprintf("+%d/-%d", pr.Additions(), pr.Deletions()))
			if showFiles {
				ui.PrintFileTree(w, "", pr.Files)
			}
		}
	}

	if len(result.UserCommits) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", ui.Accent.Sprint(t.GetMessage("search.commits_header", 0, nil)))
		for _, c := range result.UserCommits {
			_, _ = fmt.Fprintf(w, "  %s %s %s\n", shortSHA(c.SHA), firstLine(c.Message), ui.Dim.Sprint(dayOf(c.Date)))
		}
	}
	_, _ = fmt.Fprintln(w)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func dayOf(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}
