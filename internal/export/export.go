// Package export renders block documents as HTML, PDF or markdown.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/models"
)

type Format string

const (
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"
)

var Formats = []Format{FormatHTML, FormatPDF, FormatMarkdown}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "html", "htm":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", domainErrors.ErrUnsupportedFormat.WithContext("format", s)
}

// Write renders doc in format to w. title and lang are used by the HTML page.
func Write(w io.Writer, doc models.Document, format Format, title, lang string) error {
	switch format {
	case FormatHTML:
		page, err := RenderHTMLPage(doc, title, lang)
		if err != nil {
			return err
		}
		return writeString(w, page)
	case FormatPDF:
		return RenderPDF(doc, w)
	case FormatMarkdown:
		return writeString(w, RenderMarkdown(doc))
	}
	return domainErrors.ErrUnsupportedFormat.WithContext("format", string(format))
}

// WriteFile renders doc into path. An empty format is taken from the path's
// extension.
func WriteFile(path string, doc models.Document, format Format, title, lang string) (err error) {
	if format == "" {
		format, err = ParseFormat(filepath.Ext(path))
		if err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return domainErrors.ErrRenderFailed.WithError(err).WithContext("path", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = domainErrors.ErrRenderFailed.WithError(cerr).WithContext("path", path)
		}
	}()

	return Write(f, doc, format, title, lang)
}

// FileName returns a file name for title with the extension of format.
func FileName(title string, format Format) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "report"
	}
	return name + "." + string(format)
}

func writeString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return domainErrors.ErrRenderFailed.WithError(err)
	}
	return nil
}
