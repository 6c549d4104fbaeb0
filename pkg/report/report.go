package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomei-lab/tomei/pkg/common"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SourceFlags records which sources contributed data to an analysis.
type SourceFlags struct {
	Edgar          bool `json:"edgar"`
	CompaniesHouse bool `json:"companies_house"`
	JapanCorporate bool `json:"japan_corporate"`
	Political      bool `json:"political"`
}

// Summary holds the entity/relationship counts of the merged graph.
type Summary struct {
	TotalEntities      int `json:"total_entities"`
	TotalRelationships int `json:"total_relationships"`
}

// Report is the persisted result of one analysis run: the raw per-source
// payloads, the merged network graph, and a small summary. Field order
// is the serialization contract; do not reorder.
type Report struct {
	ID                 string                       `json:"id"`
	CompanyName        string                       `json:"company_name"`
	AnalysisDate       time.Time                    `json:"analysis_date"`
	DataSources        SourceFlags                  `json:"data_sources"`
	EdgarData          *common.EdgarRecord          `json:"edgar_data"`
	CompaniesHouseData *common.CompaniesHouseRecord `json:"companies_house_data"`
	JapanData          *common.JapanRecord          `json:"japan_data"`
	PoliticalData      *common.PoliticalRecord      `json:"political_data"`
	NetworkAnalysis    *common.NetworkGraph         `json:"network_analysis"`
	Summary            Summary                      `json:"summary"`
}

// Assemble wraps the source records and the merged graph into a report.
// The summary counts are derived from the graph's sequences; a nil graph
// counts as empty.
func Assemble(
	companyName string,
	edgar *common.EdgarRecord,
	companiesHouse *common.CompaniesHouseRecord,
	japan *common.JapanRecord,
	political *common.PoliticalRecord,
	graph *common.NetworkGraph,
) *Report {
	id, err := gonanoid.New()
	if err != nil {
		id = fmt.Sprintf("report-%d", time.Now().UnixNano())
	}

	summary := Summary{}
	if graph != nil {
		summary.TotalEntities = len(graph.Entities)
		summary.TotalRelationships = len(graph.Relationships)
	}

	return &Report{
		ID:           id,
		CompanyName:  companyName,
		AnalysisDate: time.Now(),
		DataSources: SourceFlags{
			Edgar:          edgar != nil,
			CompaniesHouse: companiesHouse != nil,
			JapanCorporate: japan != nil,
			Political:      political != nil,
		},
		EdgarData:          edgar,
		CompaniesHouseData: companiesHouse,
		JapanData:          japan,
		PoliticalData:      political,
		NetworkAnalysis:    graph,
		Summary:            summary,
	}
}

// Encode writes the report as indented UTF-8 JSON. HTML escaping is off
// so Japanese company and officer names survive byte for byte.
func (r *Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Write persists the report to path, creating parent directories as
// needed.
func (r *Report) Write(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return f.Close()
}

// Filename builds the canonical report file name for a company,
// e.g. "Acme_Corp_integrated_analysis_20260115_093005.json".
func Filename(companyName string, at time.Time) string {
	safe := strings.NewReplacer(" ", "_", "/", "_").Replace(companyName)
	return fmt.Sprintf("%s_integrated_analysis_%s.json", safe, at.Format("20060102_150405"))
}
