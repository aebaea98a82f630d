package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	duckDuckGoAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxPageBytes       = 2 << 20
)

// DuckDuckGo scrapes the keyless HTML endpoint.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
}

func NewDuckDuckGo() *DuckDuckGo {
	return NewDuckDuckGoWithClient(&http.Client{Timeout: 15 * time.Second})
}

func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{endpoint: duckDuckGoEndpoint, client: client}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("duckduckgo: query is empty")
	}
	limit = normalizeLimit(limit)

	reqURL := d.endpoint + "?" + url.Values{"q": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: build request: %w", err)
	}
	req.Header.Set("User-Agent", duckDuckGoAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: d.Name(), StatusCode: resp.StatusCode, Body: readErrorBody(resp.Body, 256)}
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: parse page: %w", err)
	}
	return parseDuckDuckGo(doc, limit), nil
}

// parseDuckDuckGo walks the result page. Each "result__a" anchor opens a
// result; the following "result__snippet" element supplies its body.
func parseDuckDuckGo(doc *html.Node, limit int) []Result {
	results := make([]Result, 0, limit)
	var current *Result
	skipping := false

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result--ad"):
				return true
			case hasClass(n, "result__a"):
				if current != nil && !skipping {
					results = append(results, *current)
					if len(results) == limit {
						return false
					}
				}
				href := unwrapRedirect(attr(n, "href"))
				skipping = href == "" || isInternalLink(href)
				current = &Result{URL: href, Title: textContent(n)}
				return true
			case hasClass(n, "result__snippet"):
				if current != nil && current.Body == "" {
					current.Body = textContent(n)
				}
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}

	if walk(doc) && current != nil && !skipping && len(results) < limit {
		results = append(results, *current)
	}
	return results
}

// unwrapRedirect resolves "//duckduckgo.com/l/?uddg=<target>" links to the
// target URL.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(parsed.Hostname(), "duckduckgo.com") && strings.HasPrefix(parsed.Path, "/l/") {
		if target := parsed.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func isInternalLink(href string) bool {
	parsed, err := url.Parse(href)
	if err != nil || parsed.Host == "" {
		return true
	}
	return strings.HasSuffix(parsed.Hostname(), "duckduckgo.com")
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func readErrorBody(r io.Reader, limit int64) string {
	data, _ := io.ReadAll(io.LimitReader(r, limit))
	return strings.TrimSpace(string(data))
}
