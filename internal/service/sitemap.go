package service

import (
	"encoding/xml"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ataredge/tutorhub/internal/model"
)

// publicRoutes are the static pages listed in the sitemap besides the Markdown pages.
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "daily"},
	{"/tutors", "0.9", "daily"},
	{"/contact", "0.6", "monthly"},
	{"/join-team", "0.6", "monthly"},
	{"/signup", "0.3", "monthly"},
	{"/login", "0.3", "monthly"},
}

type SitemapService struct {
	tutorService *TutorService
	pageService  *PageService
	baseURL      string
}

func NewSitemapService(tutorService *TutorService, pageService *PageService, baseURL string) *SitemapService {
	return &SitemapService{
		tutorService: tutorService,
		pageService:  pageService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	today := time.Now().Format("2006-01-02")
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	for _, route := range publicRoutes {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	slugs := s.pageService.Slugs()
	sort.Strings(slugs)
	for _, slug := range slugs {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/" + slug,
			LastMod:    today,
			ChangeFreq: "monthly",
			Priority:   "0.5",
		})
	}

	tutors, err := s.tutorService.Tutors("")
	if err != nil {
		// The static part is still useful.
		slog.Warn("failed to list tutors for sitemap", "error", err)
	}
	for _, tutor := range tutors {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + "/tutors/" + tutor.ID,
			LastMod:    today,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}
