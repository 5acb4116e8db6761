package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/sampler/reader"
)

// Common errors for document loading.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrDRMProtected      = errors.New("document is DRM protected")
	ErrNotAFile          = errors.New("not a regular file")
)

// extracted is the raw result of a format-specific extractor.
type extracted struct {
	Title string // empty when the format carries no title
	Text  string
}

type extractFunc func(ctx context.Context, path string) (extracted, error)

var extractors = map[string]extractFunc{
	".txt":      extractText,
	".text":     extractText,
	".md":       extractMarkdown,
	".markdown": extractMarkdown,
	".html":     extractHTMLFile,
	".htm":      extractHTMLFile,
	".xhtml":    extractHTMLFile,
	".epub":     extractEPub,
	".pdf":      extractPDF,
	".docx":     extractDOCX,
}

// Extensions returns the supported file extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	_, ok := extractors[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads the document at path. A document without any text is not an
// error: it loads as an empty document.
func Load(ctx context.Context, path string) (*reader.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extract, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	out, err := extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	title := strings.TrimSpace(out.Title)
	if title == "" {
		title = TitleFromPath(path)
	}

	text := norm.NFC.String(out.Text)
	doc := reader.NewDocument(documentID(reader.Normalize(text)), title, text)
	doc.Source = path

	log.Debug("document loaded", "path", path, "title", title, "runes", doc.Length())
	return doc, nil
}

// TitleFromPath derives a title from a file name by dropping the directory
// and the last extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// documentID is a short content hash, so reloading unchanged text keeps the
// same identity.
func documentID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:6])
}
