package service

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/wordstack/internal/repository"
)

// 站点地图中的静态页面
var staticPages = []struct {
	path     string
	freq     string
	priority string
}{
	{"", "daily", "1.0"},
	{"/poets", "weekly", "0.9"},
	{"/poems", "daily", "0.9"},
	{"/themes", "weekly", "0.8"},
	{"/eras", "monthly", "0.7"},
	{"/modern-poems", "daily", "0.7"},
	{"/about", "monthly", "0.5"},
	{"/blog", "weekly", "0.6"},
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type SitemapService struct {
	baseURL string
	poems   repository.PoemRepository
	poets   repository.PoetRepository
	themes  repository.ThemeRepository
	eras    repository.EraRepository
	now     func() time.Time
}

func NewSitemapService(baseURL string, poems repository.PoemRepository, poets repository.PoetRepository, themes repository.ThemeRepository, eras repository.EraRepository) *SitemapService {
	return &SitemapService{
		baseURL: strings.TrimRight(baseURL, "/"),
		poems:   poems,
		poets:   poets,
		themes:  themes,
		eras:    eras,
		now:     time.Now,
	}
}

// Build 生成 sitemap.xml
func (s *SitemapService) Build(ctx context.Context) ([]byte, error) {
	var poets, poems, themes, eras []repository.SitemapEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { poets, err = s.poets.Sitemap(gctx); return })
	g.Go(func() (err error) { poems, err = s.poems.Sitemap(gctx); return })
	g.Go(func() (err error) { themes, err = s.themes.Sitemap(gctx); return })
	g.Go(func() (err error) { eras, err = s.eras.Sitemap(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, storeFailure("sitemap", err)
	}

	today := s.now().UTC().Format("2006-01-02")
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{Loc: s.baseURL + p.path, LastMod: today, ChangeFreq: p.freq, Priority: p.priority})
	}
	add := func(prefix, freq, priority string, entries []repository.SitemapEntry) {
		for _, e := range entries {
			u := sitemapURL{Loc: s.baseURL + prefix + e.Slug, ChangeFreq: freq, Priority: priority}
			if !e.UpdatedAt.IsZero() {
				u.LastMod = e.UpdatedAt.UTC().Format("2006-01-02")
			}
			set.URLs = append(set.URLs, u)
		}
	}
	add("/poets/", "monthly", "0.8", poets)
	add("/poems/", "monthly", "0.8", poems)
	add("/themes/", "monthly", "0.7", themes)
	add("/eras/", "yearly", "0.6", eras)

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
