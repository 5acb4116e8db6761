package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/sampler/internal/library"
	"github.com/dgnsrekt/sampler/reader"
	"github.com/dgnsrekt/sampler/reader/layout"
)

const (
	measurerTerminal = "terminal"
	measurerFont     = "font"

	previewWidth = 48
)

var pagesJSON bool

var pagesCmd = &cobra.Command{
	Use:   "pages FILE",
	Short: "Print the pages a document splits into",
	Long: paragraph(fmt.Sprintf("\n%s a document without opening the reader. "+
		"Uses the terminal size, or the layout.font settings when layout.measurer is %q.",
		keyword("Paginate"), measurerFont)),
	Example: paragraph("sampler pages book.epub\nsampler pages --json --width 60 --height 20 notes.md"),
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := library.Load(cmd.Context(), args[0])
		if err != nil {
			return err //nolint:wrapcheck
		}

		opts := layoutOptionsFromViper()
		pages, err := newPaginator(opts).Paginate(cmd.Context(), doc.Text())
		if err != nil {
			if reader.IsFatal(err) && len(pages) > 0 {
				log.Warn("pagination stopped early", "pages", len(pages), "error", err)
			} else {
				return fmt.Errorf("unable to paginate: %w", err)
			}
		}
		return writePages(cmd.OutOrStdout(), doc, pages, pagesJSON)
	},
}

func init() {
	pagesCmd.Flags().BoolVar(&pagesJSON, "json", false, "print pages as JSON")
}

// layoutOptions are the viewport settings used outside the TUI.
type layoutOptions struct {
	Measurer   string
	Width      int
	Height     int
	FontSize   float64
	LineHeight float64
}

func layoutOptionsFromViper() layoutOptions {
	opts := layoutOptions{
		Measurer:   viper.GetString("layout.measurer"),
		Width:      viper.GetInt("width"),
		Height:     viper.GetInt("height"),
		FontSize:   viper.GetFloat64("layout.font.size"),
		LineHeight: viper.GetFloat64("layout.font.line_height"),
	}

	if opts.Measurer == measurerFont {
		if opts.Width == 0 {
			opts.Width = viper.GetInt("layout.font.width")
		}
		if opts.Height == 0 {
			opts.Height = viper.GetInt("layout.font.height")
		}
		return opts
	}

	w, h := terminalSize()
	if opts.Width == 0 {
		opts.Width = w
	}
	if opts.Height == 0 {
		opts.Height = h
	}
	return opts
}

// terminalSize returns the size of stdout, or 80x24 when it is not a
// terminal.
func terminalSize() (int, int) {
	fd := int(os.Stdout.Fd()) //nolint:gosec
	if term.IsTerminal(fd) {
		if w, h, err := term.GetSize(fd); err == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return 80, 24
}

func newPaginator(opts layoutOptions) *layout.Engine {
	m := layout.Metrics{Width: opts.Width, Height: opts.Height}
	if opts.Measurer == measurerFont {
		m.FontSize = opts.FontSize
		m.LineHeight = opts.LineHeight
		return layout.NewEngine(layout.FontSurface{}, m)
	}
	return layout.NewEngine(layout.TerminalSurface{}, m)
}

type pageRecord struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

type pagesRecord struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Length int          `json:"length"`
	Pages  []pageRecord `json:"pages"`
}

func writePages(w io.Writer, doc *reader.Document, pages []reader.Page, asJSON bool) error {
	if asJSON {
		rec := pagesRecord{
			ID:     doc.ID,
			Title:  doc.Title,
			Length: doc.Length(),
			Pages:  make([]pageRecord, 0, len(pages)),
		}
		for _, p := range pages {
			rec.Pages = append(rec.Pages, pageRecord(p))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec) //nolint:wrapcheck
	}

	if _, err := fmt.Fprintf(w, "%s: %s characters, %d pages\n",
		doc.Title, humanize.Comma(int64(doc.Length())), len(pages)); err != nil {
		return err //nolint:wrapcheck
	}
	for _, p := range pages {
		if _, err := fmt.Fprintf(w, "%4d  %7d-%-7d  %s\n", p.Index, p.Start, p.End, preview(p.Text)); err != nil {
			return err //nolint:wrapcheck
		}
	}
	return nil
}

// preview returns the first line of a page, shortened for a listing.
func preview(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSpace(line)
	return truncate.StringWithTail(line, previewWidth, "…")
}
