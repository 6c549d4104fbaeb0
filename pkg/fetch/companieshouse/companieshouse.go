package companieshouse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tomei-lab/tomei/pkg/common"
	"github.com/tomei-lab/tomei/pkg/logger"

	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://api.company-information.service.gov.uk"

// Client queries the UK Companies House REST API. Authentication is
// HTTP basic with the API key as username and an empty password.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientParams contains configuration options for creating a new Client.
type ClientParams struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewClient(params ClientParams) *Client {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     params.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SearchCompany resolves a company name to its Companies House entry
// and collects the officer and PSC name lists. The raw company profile
// is kept verbatim for the report.
func (c *Client) SearchCompany(ctx context.Context, companyName string) (*common.CompaniesHouseRecord, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("companies house API key is not configured")
	}

	search, err := c.get(ctx, "/search/companies?q="+url.QueryEscape(companyName)+"&items_per_page=5")
	if err != nil {
		return nil, err
	}

	top := gjson.GetBytes(search, "items.0")
	if !top.Exists() {
		return nil, fmt.Errorf("no Companies House results for %q", companyName)
	}
	companyNumber := top.Get("company_number").String()
	if companyNumber == "" {
		return nil, fmt.Errorf("companies house result for %q has no company number", companyName)
	}

	record := &common.CompaniesHouseRecord{
		CompanyName:   companyName,
		CompanyNumber: companyNumber,
		Officers:      []string{},
		Timestamp:     time.Now(),
		Source:        common.SourceCompaniesHouse,
	}

	if profile, err := c.get(ctx, "/company/"+companyNumber); err == nil {
		record.CompanyData = json.RawMessage(profile)
	} else {
		logger.Debug("[CompaniesHouse] No company profile", "company_number", companyNumber, "err", err)
	}

	if officers, err := c.get(ctx, "/company/"+companyNumber+"/officers"); err == nil {
		for _, item := range gjson.GetBytes(officers, "items").Array() {
			if name := item.Get("name").String(); name != "" {
				record.Officers = append(record.Officers, name)
			}
		}
	} else {
		logger.Debug("[CompaniesHouse] No officer list", "company_number", companyNumber, "err", err)
	}

	if psc, err := c.get(ctx, "/company/"+companyNumber+"/persons-with-significant-control"); err == nil {
		for _, item := range gjson.GetBytes(psc, "items").Array() {
			if name := item.Get("name").String(); name != "" {
				record.PSC = append(record.PSC, name)
			}
		}
	}

	return record, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("companies house request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("companies house returned status %d for %s", resp.StatusCode, path)
	}

	return io.ReadAll(resp.Body)
}
