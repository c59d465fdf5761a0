package extractor

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// ErrNoDocumentPart is returned when a .docx archive has no main document
var ErrNoDocumentPart = errors.New("word/document.xml not found")

// Docx reads the body paragraphs of an Office Open XML document.
// Paragraphs nested in tables, text boxes or content controls are skipped.
type Docx struct{}

// Extract returns every body paragraph's text joined with newlines
func (Docx) Extract(ctx context.Context, path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}
	defer archive.Close()

	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening document part: %w", err)
		}
		defer rc.Close()

		paragraphs, err := bodyParagraphs(ctx, rc)
		if err != nil {
			return "", err
		}
		return strings.Join(paragraphs, "\n"), nil
	}
	return "", ErrNoDocumentPart
}

func bodyParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		stack      []string
		current    *strings.Builder
		inText     bool
		nested     int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document part: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := ""
			if t.Name.Space == wordNamespace {
				name = t.Name.Local
			}
			switch {
			case name == "p" && len(stack) > 0 && stack[len(stack)-1] == "body":
				current = &strings.Builder{}
			case name == "p" && current != nil:
				nested++
			case current == nil || nested > 0:
			case name == "t":
				inText = true
			case name == "tab":
				current.WriteByte('\t')
			case name == "br" || name == "cr":
				current.WriteByte('\n')
			}
			stack = append(stack, name)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch {
			case name == "t":
				inText = false
			case name == "p" && nested > 0:
				nested--
			case name == "p" && current != nil && len(stack) > 0 && stack[len(stack)-1] == "body":
				paragraphs = append(paragraphs, current.String())
				current = nil
			}

		case xml.CharData:
			if current != nil && inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
