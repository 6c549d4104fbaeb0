package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomei-lab/tomei/pkg/common"
)

func TestAssemble_SummaryAndFlags(t *testing.T) {
	graph := &common.NetworkGraph{
		Entities: []common.Entity{
			{Type: common.EntityCompany, Name: "Acme Corp", Source: common.SourceEDGAR},
			{Type: common.EntityOfficer, Name: "John Smith", Source: common.SourceEDGAR},
		},
		Relationships: []common.Relationship{
			{From: "Acme Corp", To: "John Smith", Type: common.RelationInsider},
		},
		Analysis: map[string]any{},
	}
	edgar := &common.EdgarRecord{CompanyName: "Acme Corp"}

	r := Assemble("Acme Corp", edgar, nil, nil, nil, graph)

	if r.ID == "" {
		t.Fatal("expected a report ID")
	}
	if r.Summary.TotalEntities != 2 || r.Summary.TotalRelationships != 1 {
		t.Fatalf("unexpected summary: %+v", r.Summary)
	}
	if !r.DataSources.Edgar {
		t.Fatal("expected edgar flag set")
	}
	if r.DataSources.CompaniesHouse || r.DataSources.JapanCorporate || r.DataSources.Political {
		t.Fatalf("unexpected source flags: %+v", r.DataSources)
	}
}

func TestAssemble_NilGraph(t *testing.T) {
	r := Assemble("Acme Corp", nil, nil, nil, nil, nil)
	if r.Summary.TotalEntities != 0 || r.Summary.TotalRelationships != 0 {
		t.Fatalf("expected zero summary, got %+v", r.Summary)
	}
}

func TestEncode_KeyOrderAndUTF8(t *testing.T) {
	japan := &common.JapanRecord{
		CompanyName: "株式会社Example",
		Country:     "JP",
	}
	r := Assemble("株式会社Example", nil, nil, japan, nil, &common.NetworkGraph{
		Entities:      []common.Entity{},
		Relationships: []common.Relationship{},
		Analysis:      map[string]any{},
	})

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	out := buf.String()

	// Non-ASCII text is written as-is, not escaped.
	if !strings.Contains(out, "株式会社Example") {
		t.Fatalf("expected unescaped UTF-8 in output:\n%s", out)
	}
	if strings.Contains(out, `\u`) {
		t.Fatalf("expected no unicode escapes in output:\n%s", out)
	}

	// Top-level key order is part of the contract.
	keys := []string{
		`"id"`, `"company_name"`, `"analysis_date"`, `"data_sources"`,
		`"edgar_data"`, `"companies_house_data"`, `"japan_data"`,
		`"political_data"`, `"network_analysis"`, `"summary"`,
	}
	last := -1
	for _, key := range keys {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("missing key %s in output:\n%s", key, out)
		}
		if idx < last {
			t.Fatalf("key %s out of order in output:\n%s", key, out)
		}
		last = idx
	}
}

func TestWrite_CreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	r := Assemble("Acme Corp", nil, nil, nil, nil, nil)

	path := filepath.Join(dir, "nested", "out.json")
	if err := r.Write(path); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected report file, got %v", err)
	}
	if !strings.Contains(string(data), `"company_name": "Acme Corp"`) {
		t.Fatalf("unexpected file contents:\n%s", data)
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 2, 3, 14, 5, 6, 0, time.UTC)
	got := Filename("Acme Corp/Intl", at)
	want := "Acme_Corp_Intl_integrated_analysis_20260203_140506.json"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
