package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	githubadapter "github.com/ericfisherdev/repocard/internal/adapter/driven/github"
	"github.com/ericfisherdev/repocard/internal/adapter/driven/memory"
	httphandler "github.com/ericfisherdev/repocard/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/repocard/internal/adapter/driving/web"
	"github.com/ericfisherdev/repocard/internal/application"
	"github.com/ericfisherdev/repocard/internal/config"
	"github.com/ericfisherdev/repocard/internal/domain/model"
)

const (
	formatHTML = "html"
	formatJSON = "json"
)

// errCardFailed is returned after an error card has been written, so the
// process exits non-zero.
var errCardFailed = errors.New("card rendered with error")

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format   string          // output format: "html" or "json"
	apiURL   string          // GitHub REST base URL
	iconBase string          // icon URL prefix for HTML output
	timeout  time.Duration   // bound on the whole fetch
	hide     map[string]bool // stat toggles to turn off, keyed by toggle name
}

func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		format: formatHTML,
		hide:   make(map[string]bool, len(model.DisplayToggles)),
	}
	hideFlags := make(map[string]*bool, len(model.DisplayToggles))

	cmd := &cobra.Command{
		Use:   "render <url>...",
		Short: "Fetch repositories and print their cards",
		Long: "Fetch each repository and print its card. Records are cached for the\n" +
			"run, so a URL given more than once is fetched from GitHub only once.",
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("api-url") {
				opts.apiURL = cfg.GitHubAPIURL
			}
			if !cmd.Flags().Changed("icon-base") {
				opts.iconBase = cfg.IconBaseURL
			}
			if !cmd.Flags().Changed("timeout") {
				opts.timeout = cfg.FetchTimeout
			}
			for name, v := range hideFlags {
				opts.hide[name] = *v
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: html or json")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "GitHub REST API base URL (default from REPOCARD_GITHUB_API_URL)")
	cmd.Flags().StringVar(&opts.iconBase, "icon-base", "", "icon URL prefix (default from REPOCARD_ICON_BASE_URL)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "fetch timeout (default from REPOCARD_FETCH_TIMEOUT)")
	for _, t := range model.DisplayToggles {
		hideFlags[t.Name] = cmd.Flags().Bool("hide-"+t.Name, false, "hide the "+t.Label+" stat")
	}

	return cmd
}

func runRender(cmd *cobra.Command, rawURLs []string, opts renderOpts) error {
	if opts.format != formatHTML && opts.format != formatJSON {
		return fmt.Errorf("unsupported format %q: expected html or json", opts.format)
	}

	ghClient, err := githubadapter.NewClient(opts.apiURL, opts.timeout)
	if err != nil {
		return err
	}

	display := model.DefaultDisplayConfig()
	for _, t := range model.DisplayToggles {
		if opts.hide[t.Name] {
			t.Set(&display, false)
		}
	}

	logger := slog.Default()
	cached := application.NewCachedFetcher(memory.NewStore(), ghClient, logger)
	svc := application.NewCardService(cached, ghClient, 0, logger)

	var failed []string
	for _, rawURL := range rawURLs {
		state := svc.Render(cmd.Context(), model.BlockAttributes{RepoURL: rawURL, Display: display})
		if err := writeCard(cmd, state, opts); err != nil {
			return err
		}
		if state.Phase == model.RenderError {
			failed = append(failed, string(state.ErrorKind))
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", errCardFailed, strings.Join(failed, ", "))
	}
	return nil
}

// writeCard prints one card in the selected format.
func writeCard(cmd *cobra.Command, state model.RenderState, opts renderOpts) error {
	view := application.RenderCard(state)
	out := cmd.OutOrStdout()

	if opts.format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(httphandler.NewCardResponse(state, view)); err != nil {
			return fmt.Errorf("encoding card: %w", err)
		}
		return nil
	}

	if err := webhandler.CardFragment(view, opts.iconBase).Render(cmd.Context(), out); err != nil {
		return fmt.Errorf("rendering card: %w", err)
	}
	_, err := fmt.Fprintln(out)
	return err
}
