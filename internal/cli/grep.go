package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"grephl/internal/document"
	"grephl/internal/domain"
	"grephl/internal/highlight"
	"grephl/internal/match"
	"grephl/internal/ui/views"
)

// errNoMatches makes `grephl grep` exit non-zero like grep does
var errNoMatches = errors.New("no matches found")

type grepOptions struct {
	terms         []string
	highlights    []string
	settingsName  string
	htmlPath      string
	caseSensitive bool
	noNumbers     bool
}

func newGrepCommand(root *rootOptions) *cobra.Command {
	opts := &grepOptions{}

	cmd := &cobra.Command{
		Use:   "grep FILE",
		Short: "Print the matching lines of FILE with highlights",
		Long: `Print every line of FILE that contains any of the terms, with highlight
words painted in their colors. FILE "-" reads standard input.

Terms and highlights can come from flags, from saved settings, or both.`,
		Example: `  grephl grep app.log -t ERROR -t WARN -H timeout=red -H retry=#00ffff
  grephl grep app.log --settings errors --html results.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrep(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.terms, "term", "t", nil, "grep term, repeatable")
	cmd.Flags().StringArrayVarP(&opts.highlights, "highlight", "H", nil, "WORD=COLOR highlight, repeatable")
	cmd.Flags().StringVarP(&opts.settingsName, "settings", "s", "", "use saved settings")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "write an HTML page instead of terminal output (- for stdout)")
	cmd.Flags().BoolVar(&opts.caseSensitive, "case-sensitive", false, "match highlight words case-sensitively")
	cmd.Flags().BoolVar(&opts.noNumbers, "no-line-numbers", false, "omit the line number gutter")
	return cmd
}

func runGrep(cmd *cobra.Command, root *rootOptions, opts *grepOptions, path string) error {
	highlights, err := parseHighlights(opts.highlights)
	if err != nil {
		return err
	}

	a, err := root.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	terms := opts.terms
	if opts.settingsName != "" {
		cfg, err := a.Store.Get(cmd.Context(), opts.settingsName)
		if err != nil {
			return err
		}
		terms = append(cfg.Terms, terms...)
		highlights = append(cfg.Highlights, highlights...)
	}
	if len(domain.CleanTerms(terms)) == 0 {
		return fmt.Errorf("at least one term is required")
	}

	src, err := openDocument(cmd, path)
	if err != nil {
		return err
	}
	lines, err := src.Lines(cmd.Context())
	if err != nil {
		return err
	}

	matched := match.Filter(lines, terms)
	a.Log.Info("grep", zap.String("file", path), zap.Int("lines", len(lines)), zap.Int("matches", len(matched)))
	if len(matched) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No matches found")
		return errNoMatches
	}

	engine := a.Engine
	if opts.caseSensitive {
		engine = highlight.New(highlight.Options{CaseSensitive: true})
	}
	rendered := engine.Render(matched, domain.CleanHighlights(highlights))

	if opts.htmlPath == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), views.PlainResults(rendered, !opts.noNumbers))
		return err
	}

	page := highlight.HTMLPage{
		Title:     fmt.Sprintf("Grep results: %s", src.Name()),
		Lines:     rendered,
		FontScale: a.Config.UI.FontScale,
		Wrap:      a.Config.UI.Wrap,
	}
	if opts.htmlPath == "-" {
		return highlight.WriteHTML(cmd.OutOrStdout(), page)
	}
	f, err := os.Create(opts.htmlPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", opts.htmlPath, err)
	}
	if err := highlight.WriteHTML(f, page); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func openDocument(cmd *cobra.Command, path string) (document.Provider, error) {
	if path == "-" {
		return document.ReadSnapshot("stdin", cmd.InOrStdin())
	}
	return document.NewFileSource(path), nil
}

// parseHighlights turns WORD=COLOR flags into specs. A bare WORD gets "none".
func parseHighlights(flags []string) ([]domain.HighlightSpec, error) {
	specs := make([]domain.HighlightSpec, 0, len(flags))
	for _, f := range flags {
		word, color, found := strings.Cut(f, "=")
		if word == "" {
			return nil, fmt.Errorf("invalid highlight %q: want WORD=COLOR", f)
		}
		if !found || color == "" {
			color = domain.ColorNone
		}
		specs = append(specs, domain.HighlightSpec{Word: word, Color: color})
	}
	return specs, nil
}
