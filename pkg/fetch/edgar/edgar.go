package edgar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tomei-lab/tomei/pkg/common"
	"github.com/tomei-lab/tomei/pkg/logger"

	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://efts.sec.gov/LATEST/search-index"

// SEC rejects requests without a descriptive User-Agent.
const defaultUserAgent = "tomei-transparency-analysis admin@tomei-lab.example"

var reCIKSuffix = regexp.MustCompile(`\s*\(CIK \d+\)\s*$`)

// Client queries the SEC EDGAR full-text search API. It is a thin,
// best-effort client: callers treat any error as "no data from EDGAR".
type Client struct {
	baseURL    string
	userAgent  string
	maxResults int
	httpClient *http.Client
}

// ClientParams contains configuration options for creating a new Client.
type ClientParams struct {
	BaseURL    string
	UserAgent  string
	MaxResults int
	Timeout    time.Duration
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

func NewClient(params ClientParams) *Client {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	maxResults := params.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		maxResults: maxResults,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &headerTransport{
				headers: map[string]string{"User-Agent": userAgent},
				rt:      http.DefaultTransport,
			},
		},
	}
}

// SearchCompany looks a company up in EDGAR full-text search. It first
// searches by entity name, which is more precise, and falls back to a
// plain keyword search when the entity search returns nothing.
func (c *Client) SearchCompany(ctx context.Context, companyName string) (*common.EdgarRecord, error) {
	hits, err := c.search(ctx, companyName, true)
	if err != nil || len(hits) == 0 {
		logger.Debug("[EDGAR] Entity search empty, trying keywords", "company", companyName, "err", err)
		hits, err = c.search(ctx, companyName, false)
		if err != nil {
			return nil, err
		}
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("no EDGAR results for %q", companyName)
	}

	record := &common.EdgarRecord{
		CompanyName:  companyName,
		CIK:          "0000000000",
		ResultsCount: len(hits),
		Filings:      make([]common.Filing, 0, len(hits)),
		Timestamp:    time.Now(),
		Source:       common.SourceEDGAR,
	}

	// The principal CIK comes from the first hit's aligned CIK list.
	if ciks := hits[0].Get("_source.ciks").Array(); len(ciks) > 0 {
		record.CIK = ciks[0].String()
	}

	for _, hit := range hits {
		src := hit.Get("_source")

		filing := common.Filing{
			FormName: src.Get("file_description").String(),
			FileType: src.Get("file_type").String(),
			FiledAt:  src.Get("file_date").String(),
		}
		for _, name := range src.Get("display_names").Array() {
			filing.EntityName = append(filing.EntityName, cleanDisplayName(name.String()))
		}
		for _, cik := range src.Get("ciks").Array() {
			filing.CompanyCIK = append(filing.CompanyCIK, cik.String())
		}

		record.Filings = append(record.Filings, filing)
	}

	return record, nil
}

func (c *Client) search(ctx context.Context, companyName string, byEntity bool) ([]gjson.Result, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%q", companyName))
	params.Set("dateRange", "custom")
	params.Set("startdt", time.Now().AddDate(-5, 0, 0).Format("2006-01-02"))
	params.Set("enddt", time.Now().Format("2006-01-02"))
	if byEntity {
		params.Set("entityName", companyName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("EDGAR search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EDGAR search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read EDGAR response: %w", err)
	}

	hits := gjson.GetBytes(body, "hits.hits").Array()
	if len(hits) > c.maxResults {
		hits = hits[:c.maxResults]
	}
	return hits, nil
}

// cleanDisplayName strips the "(CIK 0001234567)" suffix EDGAR appends
// to display names; the aligned CIK list carries the same information.
func cleanDisplayName(name string) string {
	return strings.TrimSpace(reCIKSuffix.ReplaceAllString(name, ""))
}
