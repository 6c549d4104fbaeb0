package fec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tomei-lab/tomei/pkg/common"
	"github.com/tomei-lab/tomei/pkg/logger"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.open.fec.gov/v1"

// The public FEC API allows 1000 calls per hour per key. Staying a bit
// under that keeps long analysis runs from tripping 429s mid-way.
const defaultRequestsPerSecond = 0.25

// Client talks to the OpenFEC API and aggregates individual
// contributions made under a company's name.
type Client struct {
	baseURL    string
	apiKey     string
	perPage    int
	cycles     int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientParams contains configuration options for creating a Client.
type ClientParams struct {
	BaseURL string
	APIKey  string
	// PerPage caps contributions fetched per election cycle.
	PerPage int
	// Cycles is how many two-year election cycles to look back.
	Cycles  int
	Timeout time.Duration
}

func NewClient(params ClientParams) (*Client, error) {
	if params.APIKey == "" {
		return nil, fmt.Errorf("fec api key is required")
	}
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	cycles := params.Cycles
	if cycles <= 0 {
		cycles = 3
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     params.APIKey,
		perPage:    perPage,
		cycles:     cycles,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}, nil
}

// GetContributions queries Schedule A receipts attributed to the
// company across the most recent election cycles and rolls them up per
// recipient committee, in the order recipients first appear.
func (c *Client) GetContributions(ctx context.Context, companyName string) (*common.PoliticalRecord, error) {
	record := &common.PoliticalRecord{
		CompanyName: companyName,
		Recipients:  make(common.RecipientAggregates, 0),
		Timestamp:   time.Now().UTC(),
		Source:      common.SourceFEC,
	}

	index := make(map[string]int)
	for _, year := range electionYears(time.Now().Year(), c.cycles) {
		results, err := c.fetchScheduleA(ctx, companyName, year)
		if err != nil {
			logger.Debug("[FEC] Cycle fetch failed", "year", year, "err", err)
			continue
		}

		for _, contribution := range results {
			amount := contribution.Get("contribution_receipt_amount").Float()
			recipient := contribution.Get("committee.name").String()
			if recipient == "" {
				recipient = "Unknown"
			}

			record.TotalContributions++
			record.TotalAmount += amount

			if at, ok := index[recipient]; ok {
				record.Recipients[at].Amount += amount
				record.Recipients[at].Count++
			} else {
				index[recipient] = len(record.Recipients)
				record.Recipients = append(record.Recipients, common.RecipientAggregate{
					Name:   recipient,
					Amount: amount,
					Count:  1,
				})
			}
		}
	}

	if record.TotalContributions == 0 {
		return nil, fmt.Errorf("no contributions found for %q", companyName)
	}
	return record, nil
}

func (c *Client) fetchScheduleA(ctx context.Context, companyName string, year int) ([]gjson.Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("contributor_name", companyName)
	query.Set("two_year_transaction_period", strconv.Itoa(year))
	query.Set("per_page", strconv.Itoa(c.perPage))
	query.Set("sort", "-contribution_receipt_amount")

	requestURL := fmt.Sprintf("%s/schedules/schedule_a/?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query fec: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fec returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return gjson.GetBytes(body, "results").Array(), nil
}

// electionYears returns the most recent `count` two-year transaction
// periods, newest first. Periods are labeled by their even year.
func electionYears(currentYear, count int) []int {
	year := currentYear
	if year%2 != 0 {
		year++
	}

	years := make([]int, 0, count)
	for i := 0; i < count; i++ {
		years = append(years, year-2*i)
	}
	return years
}
