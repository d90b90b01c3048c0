// Package geogebra fetches display metadata for GeoGebra materials. The
// shell uses it to turn an embeddable material id into a titled link;
// fallback-link diagrams never touch this client.
package geogebra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mrgilbot/gilbot/internal/config"
	"github.com/mrgilbot/gilbot/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

type Material struct {
	ID    string
	Title string
	URL   string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *gocache.Cache
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.geogebra.org",
		cache:      gocache.New(config.MaterialCacheTTL, config.MaterialCacheCleanup),
	}
}

// Material loads title metadata for a material id, caching results.
func (c *Client) Material(ctx context.Context, materialID string) (*Material, error) {
	if cached, ok := c.cache.Get(materialID); ok {
		return cached.(*Material), nil
	}

	materialURL := fmt.Sprintf("%s/m/%s", c.baseURL, materialID)
	req, err := http.NewRequestWithContext(ctx, "GET", materialURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch material: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrMaterialNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geogebra returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse material page: %w", err)
	}

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	material := &Material{ID: materialID, Title: title, URL: materialURL}
	c.cache.Set(materialID, material, gocache.DefaultExpiration)
	return material, nil
}
