package japanregistry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tomei-lab/tomei/pkg/common"

	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://api.houjin-bangou.nta.go.jp/4"

// Client queries the National Tax Agency corporate-number (houjin
// bangou) system, which maps company names to their 13-digit corporate
// numbers. Use requires a registered application ID.
type Client struct {
	baseURL    string
	appID      string
	httpClient *http.Client
}

// ClientParams contains configuration options for creating a new Client.
type ClientParams struct {
	BaseURL string
	AppID   string
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
		appID:      params.AppID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// LookupCompany searches the registry by company name and returns the
// first matching corporation.
func (c *Client) LookupCompany(ctx context.Context, companyName string) (*common.CorporateInfo, error) {
	if c.appID == "" {
		return nil, fmt.Errorf("houjin bangou application ID is not configured")
	}

	params := url.Values{}
	params.Set("id", c.appID)
	params.Set("name", companyName)
	params.Set("type", "12")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/name?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("corporate number lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("corporate number API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read corporate number response: %w", err)
	}

	if gjson.GetBytes(body, "count").Int() == 0 {
		return nil, fmt.Errorf("no registry entry for %q", companyName)
	}

	first := gjson.GetBytes(body, "corporations.0")
	info := &common.CorporateInfo{
		CompanyName:     first.Get("name").String(),
		CorporateNumber: first.Get("corporate_number").String(),
		Address:         first.Get("address").String(),
		PostCode:        first.Get("post_code").String(),
		UpdateDate:      first.Get("update_date").String(),
		Status:          "active",
	}
	if info.CompanyName == "" {
		info.CompanyName = companyName
	}

	return info, nil
}
