// Package docxtpl discovers and substitutes {placeholder} variables in
// OOXML word-processing templates.
package docxtpl

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	docx "github.com/lukasjarosch/go-docx"
)

const mainDocumentPart = "word/document.xml"

var (
	placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_.\-]+)\}`)
	xmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Discover returns the distinct placeholder names referenced by the template,
// in scan order: the main document part first, then headers, then footers.
// Placeholders fragmented across XML runs are still found because tag
// stripping rejoins the text nodes in document order.
func (e *Engine) Discover(template []byte) ([]string, error) {
	archive, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	parts, err := templateParts(archive)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]struct{})
	for _, part := range parts {
		content, err := readPart(part)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", part.Name, err)
		}
		flat := xmlTagPattern.ReplaceAllString(string(content), "")
		for _, match := range placeholderPattern.FindAllStringSubmatch(flat, -1) {
			name := match[1]
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}

// Render substitutes every placeholder occurrence with its mapped value and
// serializes the filled document. Values are stringified by the substitution
// library; placeholders absent from the mapping are left untouched, which the
// pipeline prevents by pre-filling them with empty strings.
func (e *Engine) Render(template []byte, fields map[string]any) ([]byte, error) {
	doc, err := docx.OpenBytes(template)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	if err := doc.ReplaceAll(docx.PlaceholderMap(fields)); err != nil {
		return nil, fmt.Errorf("substitute placeholders: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

// templateParts selects the archive entries that can carry placeholders.
// Header and footer names are sorted so the scan order is deterministic.
func templateParts(archive *zip.Reader) ([]*zip.File, error) {
	var main *zip.File
	var headers, footers []*zip.File
	for _, file := range archive.File {
		switch {
		case file.Name == mainDocumentPart:
			main = file
		case strings.HasPrefix(file.Name, "word/header") && strings.HasSuffix(file.Name, ".xml"):
			headers = append(headers, file)
		case strings.HasPrefix(file.Name, "word/footer") && strings.HasSuffix(file.Name, ".xml"):
			footers = append(footers, file)
		}
	}
	if main == nil {
		return nil, fmt.Errorf("archive has no %s, not a wordprocessing document", mainDocumentPart)
	}

	byName := func(files []*zip.File) {
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	}
	byName(headers)
	byName(footers)

	parts := []*zip.File{main}
	parts = append(parts, headers...)
	parts = append(parts, footers...)
	return parts, nil
}

func readPart(file *zip.File) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}
