package website

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tomei-lab/tomei/pkg/common"
	"github.com/tomei-lab/tomei/pkg/logger"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const maxDescriptionLen = 500

var (
	reAddress     = regexp.MustCompile(`([都道府県][^都道府県]*?[市区町村][^都道府県]*?[0-9\-]+[番号]*[^都道府県]{0,20})`)
	reEstablished = regexp.MustCompile(`(19|20)\d{2}[年/\-](0?[1-9]|1[0-2])[月/\-]`)
	reCEO         = regexp.MustCompile(`代表取締役(?:社長|会長|CEO)?[\s:：]*([^\s、。,．<>]{2,12})`)
)

// Fetcher scrapes a company's own website for registry-adjacent facts:
// title and meta description, JSON-LD organization data, and
// heuristically matched address, founding date and representative
// director strings. Results are cached per URL and concurrent fetches
// of the same URL are collapsed.
type Fetcher struct {
	userAgent  string
	httpClient *http.Client

	cache   map[string]*common.WebsiteInfo
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// FetcherParams contains configuration options for creating a Fetcher.
type FetcherParams struct {
	UserAgent string
	Timeout   time.Duration
}

func NewFetcher(params FetcherParams) *Fetcher {
	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Fetcher{
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[string]*common.WebsiteInfo),
	}
}

// Fetch tries the company's website, guessing common domain patterns
// when no URL is given, and returns the first page that could be
// scraped.
func (f *Fetcher) Fetch(ctx context.Context, companyName, websiteURL string) (*common.WebsiteInfo, error) {
	candidates := []string{websiteURL}
	if websiteURL == "" {
		lower := strings.ToLower(companyName)
		candidates = []string{
			fmt.Sprintf("https://%s.co.jp", lower),
			fmt.Sprintf("https://%s.com", lower),
			fmt.Sprintf("https://www.%s.co.jp", lower),
			fmt.Sprintf("https://www.%s.com", lower),
		}
	}

	var lastErr error
	for _, candidate := range candidates {
		info, err := f.fetchOne(ctx, companyName, candidate)
		if err != nil {
			logger.Debug("[Website] Fetch failed", "url", candidate, "err", err)
			lastErr = err
			continue
		}
		return info, nil
	}
	return nil, fmt.Errorf("no website found for %q: %w", companyName, lastErr)
}

func (f *Fetcher) fetchOne(ctx context.Context, companyName, pageURL string) (*common.WebsiteInfo, error) {
	f.cacheMu.RLock()
	if cached, ok := f.cache[pageURL]; ok {
		f.cacheMu.RUnlock()
		return cached, nil
	}
	f.cacheMu.RUnlock()

	result, err, _ := f.group.Do(pageURL, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("website returned status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read page: %w", err)
		}

		finalURL := pageURL
		if resp.Request != nil && resp.Request.URL != nil {
			finalURL = resp.Request.URL.String()
		}

		info := scrapePage(companyName, finalURL, body)

		f.cacheMu.Lock()
		f.cache[pageURL] = info
		f.cacheMu.Unlock()

		return info, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*common.WebsiteInfo), nil
}

type pageData struct {
	title       string
	metaDesc    string
	jsonLD      []string
	textBuilder strings.Builder
}

func scrapePage(companyName, pageURL string, body []byte) *common.WebsiteInfo {
	info := &common.WebsiteInfo{
		URL: pageURL,
	}

	page := parsePage(body)
	info.Title = page.title
	info.Description = page.metaDesc

	for _, raw := range page.jsonLD {
		applyOrganizationData(info, raw)
	}

	pageText := page.textBuilder.String()

	if info.CEO == "" {
		if m := reCEO.FindStringSubmatch(pageText); m != nil {
			info.CEO = m[1]
		}
	}
	if info.Location == "" {
		if m := reAddress.FindStringSubmatch(pageText); m != nil {
			info.Location = strings.TrimSpace(m[1])
		}
	}
	if info.Established == "" {
		if m := reEstablished.FindString(pageText); m != "" {
			info.Established = m
		}
	}

	if info.Description == "" {
		if u, err := url.Parse(pageURL); err == nil {
			if article, err := readability.FromReader(bytes.NewReader(body), u); err == nil {
				var builder strings.Builder
				if err := article.RenderText(&builder); err == nil {
					text := strings.TrimSpace(builder.String())
					if len(text) > maxDescriptionLen {
						// cut on a rune boundary so Japanese text stays valid UTF-8
						cut := maxDescriptionLen
						for cut > 0 && !utf8.RuneStart(text[cut]) {
							cut--
						}
						text = text[:cut]
					}
					info.Description = text
				}
			}
		}
	}

	return info
}

func parsePage(body []byte) *pageData {
	page := &pageData{}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return page
	}

	var inScript bool
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "title":
				if n.FirstChild != nil && page.title == "" {
					page.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := attr(n, "name")
				property := attr(n, "property")
				if name == "description" || property == "og:description" {
					if content := attr(n, "content"); content != "" && page.metaDesc == "" {
						page.metaDesc = content
					}
				}
			case "script":
				if attr(n, "type") == "application/ld+json" && n.FirstChild != nil {
					page.jsonLD = append(page.jsonLD, n.FirstChild.Data)
				}
				inScript = true
				defer func() { inScript = false }()
			case "style":
				return
			}
		case html.TextNode:
			if !inScript {
				text := strings.TrimSpace(n.Data)
				if text != "" {
					page.textBuilder.WriteString(text)
					page.textBuilder.WriteString("\n")
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return page
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// applyOrganizationData folds one JSON-LD block into info, if it
// describes an Organization. Real-world JSON-LD is frequently
// malformed, so the block is run through jsonrepair before parsing.
func applyOrganizationData(info *common.WebsiteInfo, raw string) {
	if !gjson.Valid(raw) {
		repaired, err := jsonrepair.JSONRepair(raw)
		if err != nil {
			return
		}
		raw = repaired
	}
	parsed := gjson.Parse(raw)

	var org gjson.Result
	if parsed.IsArray() {
		for _, item := range parsed.Array() {
			if item.Get("@type").String() == "Organization" {
				org = item
				break
			}
		}
	} else if parsed.Get("@type").String() == "Organization" {
		org = parsed
	}
	if !org.Exists() {
		return
	}

	if name := org.Get("name").String(); name != "" {
		info.StructuredName = name
	}
	if info.Description == "" {
		info.Description = org.Get("description").String()
	}
	if addr := org.Get("address"); addr.Exists() && info.Location == "" {
		if addr.IsObject() {
			info.Location = addr.Get("addressLocality").String()
		} else {
			info.Location = addr.String()
		}
	}
	if founded := org.Get("foundingDate").String(); founded != "" && info.Established == "" {
		info.Established = founded
	}
	if founder := org.Get("founder"); founder.Exists() && info.CEO == "" {
		if founder.IsObject() {
			info.CEO = founder.Get("name").String()
		} else {
			info.CEO = founder.String()
		}
	}
}
