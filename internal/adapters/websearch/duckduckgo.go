// Package websearch provides the web retrieval adapters.
// Clean Architecture: Adapters implementing ports.SearchService.
// Failures never propagate outward; a broken engine degrades to an
// empty result set and a log line.
package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/novagate/novagate/internal/domain/dates"
	"github.com/novagate/novagate/internal/domain/entities"
)

const (
	defaultEndpoint = "https://html.duckduckgo.com/html/"
	defaultTimeout  = 15 * time.Second
	maxBodyBytes    = 1 << 20
)

// DuckDuckGo implements ports.SearchService against the DuckDuckGo HTML
// interface (no API key required). The fresh path asks for results from
// the last week and labels them as the news engine.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// Option configures optional DuckDuckGo dependencies.
type Option func(*DuckDuckGo)

// WithEndpoint overrides the search endpoint. Useful for testing against
// a local fixture server.
func WithEndpoint(endpoint string) Option {
	return func(d *DuckDuckGo) { d.endpoint = endpoint }
}

// NewDuckDuckGo creates a DuckDuckGo search adapter. The adapter owns
// its timeout budget.
func NewDuckDuckGo(logger *zap.Logger, opts ...Option) *DuckDuckGo {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &DuckDuckGo{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search returns up to topK results. With freshOnly the news-leaning
// week-filtered query runs first and wins when it finds anything; the
// general query is the fallback. All failures yield an empty slice.
func (d *DuckDuckGo) Search(ctx context.Context, query string, topK int, freshOnly bool) ([]entities.RetrievalItem, error) {
	if topK <= 0 {
		topK = 5
	}

	if freshOnly {
		items, err := d.fetch(ctx, query, topK, "w", entities.EngineNews)
		if err != nil {
			d.logger.Warn("fresh web search failed", zap.Error(err))
		} else if len(items) > 0 {
			return items, nil
		}
	}

	items, err := d.fetch(ctx, query, topK, "", entities.EngineText)
	if err != nil {
		d.logger.Warn("web search failed", zap.Error(err))
		return nil, nil
	}
	return items, nil
}

// fetch runs one query against the HTML endpoint. timelimit is the
// DuckDuckGo df parameter ("w" = past week, empty = no filter).
func (d *DuckDuckGo) fetch(ctx context.Context, query string, topK int, timelimit, engine string) ([]entities.RetrievalItem, error) {
	params := url.Values{"q": {query}}
	if timelimit != "" {
		params.Set("df", timelimit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return parseResults(string(body), topK, engine)
}

// rawResult is one scraped entry before snippet/date policy is applied.
type rawResult struct {
	title   string
	url     string
	snippet string
	date    string
}

// parseResults extracts search results from the DuckDuckGo HTML page.
// Items without a snippet are discarded here so nothing content-free
// enters the pipeline.
func parseResults(htmlContent string, topK int, engine string) ([]entities.RetrievalItem, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var items []entities.RetrievalItem

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(items) >= topK {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			for _, attr := range n.Attr {
				if attr.Key == "class" && strings.Contains(attr.Val, "result") && strings.Contains(attr.Val, "results_links") {
					raw := extractResult(n)
					snippet := strings.TrimSpace(raw.snippet)
					if snippet == "" {
						return
					}
					published, _ := dates.Normalize(raw.date)
					items = append(items, entities.RetrievalItem{
						Title:     strings.TrimSpace(raw.title),
						Snippet:   snippet,
						URL:       strings.TrimSpace(raw.url),
						Published: published,
						Engine:    engine,
					})
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return items, nil
}

// extractResult pulls title, link, snippet and timestamp out of one
// result div.
func extractResult(n *html.Node) rawResult {
	var raw rawResult

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "class" {
						if strings.Contains(attr.Val, "result__a") {
							raw.url = getAttrValue(n, "href")
							raw.title = getTextContent(n)
						} else if strings.Contains(attr.Val, "result__snippet") {
							raw.snippet = getTextContent(n)
						}
					}
				}
			case "span", "div":
				for _, attr := range n.Attr {
					if attr.Key == "class" && strings.Contains(attr.Val, "result__timestamp") {
						raw.date = getTextContent(n)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(n)

	// Unwrap DuckDuckGo redirect links.
	if strings.HasPrefix(raw.url, "//duckduckgo.com/l/?uddg=") {
		if decoded, err := url.QueryUnescape(strings.TrimPrefix(raw.url, "//duckduckgo.com/l/?uddg=")); err == nil {
			if idx := strings.Index(decoded, "&"); idx > 0 {
				decoded = decoded[:idx]
			}
			raw.url = decoded
		}
	}

	return raw
}

func getAttrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func getTextContent(n *html.Node) string {
	var sb strings.Builder
	var getText func(*html.Node)
	getText = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			getText(c)
		}
	}
	getText(n)
	return strings.TrimSpace(sb.String())
}
