package service

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/ataredge/tutorhub/internal/markdown"
	"github.com/ataredge/tutorhub/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrPageNotFound = errors.New("page not found")

// PageService serves the informational pages (about, services, privacy, terms)
// rendered from Markdown files.
type PageService struct {
	pages map[string]*model.Page
}

// NewPageService renders every *.md file in the root of content.
func NewPageService(content fs.FS) (*PageService, error) {
	entries, err := fs.ReadDir(content, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read pages: %w", err)
	}

	parser := markdown.NewParser()
	pages := make(map[string]*model.Page)
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}

		slug := strings.TrimSuffix(entry.Name(), ".md")
		page, err := loadPage(parser, content, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to load page %s: %w", slug, err)
		}
		pages[slug] = page
	}

	return &PageService{pages: pages}, nil
}

func loadPage(parser *markdown.Parser, content fs.FS, slug string) (*model.Page, error) {
	source, err := fs.ReadFile(content, slug+".md")
	if err != nil {
		return nil, err
	}

	html, meta, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}

	title, _ := meta["title"].(string)
	if title == "" {
		title = cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	}
	description, _ := meta["description"].(string)

	return &model.Page{
		Title:       title,
		Slug:        slug,
		Description: description,
		Content:     string(html),
		LastUpdated: formatDate(meta["lastUpdated"]),
	}, nil
}

func (s *PageService) Page(slug string) (*model.Page, error) {
	page, ok := s.pages[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, slug)
	}
	return page, nil
}

// Slugs lists the loaded pages, for the sitemap.
func (s *PageService) Slugs() []string {
	slugs := make([]string, 0, len(s.pages))
	for slug := range s.pages {
		slugs = append(slugs, slug)
	}
	return slugs
}

// formatDate accepts the date shapes YAML frontmatter produces.
func formatDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format("January 2, 2006")
	case string:
		for _, layout := range []string{"2006-01-02", "2006/01/02", "02.01.2006", "January 2, 2006", time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return t.Format("January 2, 2006")
			}
		}
		return v
	}
	return ""
}
