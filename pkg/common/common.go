package common

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// EntityType classifies a node in the transparency network.
type EntityType string

const (
	EntityCompany    EntityType = "company"
	EntityOfficer    EntityType = "officer"
	EntityPolitician EntityType = "politician"
)

// DataSource identifies which public register contributed a record.
type DataSource string

const (
	SourceEDGAR          DataSource = "EDGAR"
	SourceCompaniesHouse DataSource = "CompaniesHouse"
	SourceJapanRegistry  DataSource = "JapanRegistry"
	SourceFEC            DataSource = "FEC"

	// SourceOpenSecrets is the retired alternate political-data provider.
	// Records tagged with it are still recognized but contribute nothing
	// to the network.
	SourceOpenSecrets DataSource = "OpenSecrets"
)

// RelationType describes how two entities are connected.
type RelationType string

const (
	RelationOfficerOf             RelationType = "officer_of"
	RelationInsider               RelationType = "insider"
	RelationRelated               RelationType = "related"
	RelationCEOOf                 RelationType = "ceo_of"
	RelationPoliticalContribution RelationType = "political_contribution"
)

// Entity represents a node in the network graph: a company, an officer,
// or a politician, together with the register it was extracted from.
type Entity struct {
	Type   EntityType `json:"type"`
	Name   string     `json:"name"`
	Source DataSource `json:"source"`
}

// Relationship represents a directional edge between two entities,
// referenced by name. Nothing enforces that From/To name entities that
// exist in the graph; malformed upstream data can produce dangling
// references and that is accepted.
type Relationship struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Type   RelationType `json:"type"`
	Amount float64      `json:"amount,omitempty"`
	Count  int          `json:"count,omitempty"`
}

// NetworkGraph is the merged view over all source records of a single
// analysis run. Entities and relationships are appended in fixed source
// order (EDGAR, Companies House, Japan registry, political, variants)
// and, within a source, in the order the records were presented.
//
// Graphs are built fresh per merge call and discarded once the report
// is serialized; there is no identity across runs.
type NetworkGraph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Analysis      map[string]any `json:"analysis"`
}

// StringList is a JSON field that upstream registers serve either as a
// single string or as an array of strings. EDGAR's full-text search does
// this for entity names and CIK lists. Any other shape unmarshals to nil
// rather than failing the surrounding record.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	// json.Unmarshal treats null as a no-op for strings, which would
	// turn it into a one-element list holding "".
	if string(data) == "null" {
		*l = nil
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = StringList(many)
		return nil
	}

	*l = nil
	return nil
}

// Filing is a single EDGAR full-text search hit. EntityName and
// CompanyCIK are index-aligned when the source provides both.
type Filing struct {
	EntityName StringList `json:"entity_name"`
	CompanyCIK StringList `json:"company_cik"`
	FormName   string     `json:"form_name"`
	FileType   string     `json:"file_type,omitempty"`
	FiledAt    string     `json:"filed_at,omitempty"`
}

// FormLabel returns the filing's form-type label, preferring the long
// form name over the short file type.
func (f Filing) FormLabel() string {
	if f.FormName != "" {
		return f.FormName
	}
	return f.FileType
}

// EdgarRecord holds the result of an SEC EDGAR company search.
type EdgarRecord struct {
	CompanyName  string     `json:"company_name"`
	CIK          string     `json:"cik"`
	ResultsCount int        `json:"results_count,omitempty"`
	Filings      []Filing   `json:"filings"`
	Timestamp    time.Time  `json:"timestamp"`
	Source       DataSource `json:"source"`
}

// CompaniesHouseRecord holds the result of a UK Companies House lookup.
type CompaniesHouseRecord struct {
	CompanyName   string          `json:"company_name"`
	CompanyNumber string          `json:"company_number"`
	Officers      []string        `json:"officers"`
	PSC           []string        `json:"psc,omitempty"`
	CompanyData   json.RawMessage `json:"company_data,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        DataSource      `json:"source"`
}

// CorporateInfo is the Japanese corporate-number registry entry for a
// company: the 13-digit corporate number plus registered address data.
type CorporateInfo struct {
	CompanyName     string `json:"company_name"`
	CorporateNumber string `json:"corporate_number"`
	Address         string `json:"address,omitempty"`
	PostCode        string `json:"post_code,omitempty"`
	UpdateDate      string `json:"update_date,omitempty"`
	Status          string `json:"status,omitempty"`
}

// WebsiteInfo is what could be scraped from a company's own website:
// meta/structured-data fields plus heuristically matched address,
// founding date and representative director (CEO) strings.
type WebsiteInfo struct {
	URL            string `json:"website_url,omitempty"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	StructuredName string `json:"structured_name,omitempty"`
	CEO            string `json:"ceo,omitempty"`
	Location       string `json:"location,omitempty"`
	Established    string `json:"established,omitempty"`
}

// FinancialRecord holds per-fiscal-year figures for a company. Values
// are pointers because most sources report only a subset.
type FinancialRecord struct {
	CompanyName      string `json:"company_name"`
	CorporateNumber  string `json:"corporate_number,omitempty"`
	Revenue          *int64 `json:"revenue,omitempty"`
	NetIncome        *int64 `json:"net_income,omitempty"`
	TotalAssets      *int64 `json:"total_assets,omitempty"`
	RetainedEarnings *int64 `json:"retained_earnings,omitempty"`
	FiscalYear       string `json:"fiscal_year,omitempty"`
	ReportingDate    string `json:"reporting_date,omitempty"`
	Source           string `json:"source,omitempty"`
}

// JapanSourceFlags records which Japanese sub-sources produced data.
type JapanSourceFlags struct {
	CorporateNumberAPI bool `json:"corporate_number_api"`
	Website            bool `json:"website"`
	FinancialData      bool `json:"financial_data"`
}

// JapanRecord aggregates everything fetched for a Japanese company:
// registry entry, website scrape, and financial figures.
type JapanRecord struct {
	CompanyName   string           `json:"company_name"`
	Country       string           `json:"country"`
	CorporateInfo *CorporateInfo   `json:"corporate_info"`
	WebsiteInfo   *WebsiteInfo     `json:"website_info"`
	FinancialData *FinancialRecord `json:"financial_data"`
	AnalysisDate  time.Time        `json:"analysis_date"`
	Sources       JapanSourceFlags `json:"sources"`
}

// RecipientAggregate is the per-recipient rollup of political
// contributions: total dollar amount and number of individual
// contributions.
type RecipientAggregate struct {
	Name   string  `json:"-"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// RecipientAggregates serializes as a JSON object keyed by recipient
// name, matching the upstream FEC aggregation shape, while preserving
// insertion order. Order matters: the merge appends politician entities
// in the order recipients were first seen, and that order must survive
// a serialization round trip.
type RecipientAggregates []RecipientAggregate

func (r RecipientAggregates) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, agg := range r {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(agg.Name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		amount, _ := json.Marshal(agg.Amount)
		buf = append(buf, fmt.Sprintf(`{"amount":%s,"count":%d}`, amount, agg.Count)...)
	}
	return append(buf, '}'), nil
}

// UnmarshalJSON parses the recipient object with gjson so that JSON
// document order is kept; an encoding/json map would lose it.
func (r *RecipientAggregates) UnmarshalJSON(data []byte) error {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		*r = nil
		return nil
	}

	aggs := make(RecipientAggregates, 0)
	parsed.ForEach(func(key, value gjson.Result) bool {
		aggs = append(aggs, RecipientAggregate{
			Name:   key.String(),
			Amount: value.Get("amount").Float(),
			Count:  int(value.Get("count").Int()),
		})
		return true
	})
	*r = aggs
	return nil
}

// PoliticalRecord holds aggregated political-contribution data for a
// company. Only records whose Source is SourceFEC are merged into the
// network; the retired SourceOpenSecrets tag is recognized and skipped.
type PoliticalRecord struct {
	CompanyName        string              `json:"company_name"`
	CIK                string              `json:"cik,omitempty"`
	TotalContributions int                 `json:"total_contributions"`
	TotalAmount        float64             `json:"total_amount"`
	Recipients         RecipientAggregates `json:"recipients"`
	Timestamp          time.Time           `json:"timestamp"`
	Source             DataSource          `json:"source"`
}
