package graph

import (
	"reflect"
	"testing"

	"github.com/tomei-lab/tomei/pkg/common"
)

func TestMerge_AllSourcesAbsent(t *testing.T) {
	g := Merge(nil, nil, nil, nil, nil)

	if g == nil {
		t.Fatal("expected graph, got nil")
	}
	if len(g.Entities) != 0 {
		t.Fatalf("expected no entities, got %d", len(g.Entities))
	}
	if len(g.Relationships) != 0 {
		t.Fatalf("expected no relationships, got %d", len(g.Relationships))
	}
	if len(g.Analysis) != 0 {
		t.Fatalf("expected empty analysis, got %v", g.Analysis)
	}
	if g.Entities == nil || g.Relationships == nil || g.Analysis == nil {
		t.Fatal("expected non-nil empty sequences")
	}
}

func TestMerge_EdgarInsiderFiling(t *testing.T) {
	edgar := &common.EdgarRecord{
		CompanyName: "Acme Corp",
		CIK:         "123",
		Filings: []common.Filing{
			{
				EntityName: common.StringList{"John Smith", "Acme Corp"},
				CompanyCIK: common.StringList{"999", "123"},
				FormName:   "Form 4 (insider)",
			},
		},
	}

	g := Merge(edgar, nil, nil, nil, nil)

	wantEntities := []common.Entity{
		{Type: common.EntityCompany, Name: "Acme Corp", Source: common.SourceEDGAR},
		{Type: common.EntityOfficer, Name: "John Smith", Source: common.SourceEDGAR},
	}
	if !reflect.DeepEqual(g.Entities, wantEntities) {
		t.Fatalf("entities mismatch:\ngot  %+v\nwant %+v", g.Entities, wantEntities)
	}

	wantRels := []common.Relationship{
		{From: "Acme Corp", To: "John Smith", Type: common.RelationInsider},
	}
	if !reflect.DeepEqual(g.Relationships, wantRels) {
		t.Fatalf("relationships mismatch:\ngot  %+v\nwant %+v", g.Relationships, wantRels)
	}
}

func TestMerge_EdgarPositionalFallback(t *testing.T) {
	// No CIK alignment, so index 0 is treated as the person and index 1
	// as the filing company.
	edgar := &common.EdgarRecord{
		CompanyName: "Acme Corp",
		CIK:         "123",
		Filings: []common.Filing{
			{
				EntityName: common.StringList{"John Smith", "Widget Ltd"},
				FormName:   "4 - Statement of Changes (INSIDER)",
			},
		},
	}

	g := Merge(edgar, nil, nil, nil, nil)

	wantEntities := []common.Entity{
		{Type: common.EntityCompany, Name: "Acme Corp", Source: common.SourceEDGAR},
		{Type: common.EntityOfficer, Name: "John Smith", Source: common.SourceEDGAR},
		{Type: common.EntityCompany, Name: "Widget Ltd", Source: common.SourceEDGAR},
	}
	if !reflect.DeepEqual(g.Entities, wantEntities) {
		t.Fatalf("entities mismatch:\ngot  %+v\nwant %+v", g.Entities, wantEntities)
	}

	wantRels := []common.Relationship{
		{From: "Acme Corp", To: "John Smith", Type: common.RelationInsider},
	}
	if !reflect.DeepEqual(g.Relationships, wantRels) {
		t.Fatalf("relationships mismatch:\ngot  %+v\nwant %+v", g.Relationships, wantRels)
	}
}

func TestMerge_EdgarSingleNameFiling(t *testing.T) {
	edgar := &common.EdgarRecord{
		CompanyName: "Acme Corp",
		CIK:         "123",
		Filings: []common.Filing{
			// Same name as the principal, just different case: skipped.
			{EntityName: common.StringList{"ACME CORP"}, FormName: "10-K"},
			// A different single name on a non-insider form: related.
			{EntityName: common.StringList{"Jane Roe"}, FormName: "SC 13D"},
		},
	}

	g := Merge(edgar, nil, nil, nil, nil)

	wantEntities := []common.Entity{
		{Type: common.EntityCompany, Name: "Acme Corp", Source: common.SourceEDGAR},
		{Type: common.EntityOfficer, Name: "Jane Roe", Source: common.SourceEDGAR},
	}
	if !reflect.DeepEqual(g.Entities, wantEntities) {
		t.Fatalf("entities mismatch:\ngot  %+v\nwant %+v", g.Entities, wantEntities)
	}

	wantRels := []common.Relationship{
		{From: "Acme Corp", To: "Jane Roe", Type: common.RelationRelated},
	}
	if !reflect.DeepEqual(g.Relationships, wantRels) {
		t.Fatalf("relationships mismatch:\ngot  %+v\nwant %+v", g.Relationships, wantRels)
	}
}

func TestMerge_FECContributions(t *testing.T) {
	edgar := &common.EdgarRecord{CompanyName: "Acme Corp", CIK: "123"}
	political := &common.PoliticalRecord{
		Source: common.SourceFEC,
		Recipients: common.RecipientAggregates{
			{Name: "Senator X", Amount: 5000, Count: 2},
		},
	}

	g := Merge(edgar, nil, nil, nil, political)

	wantRel := common.Relationship{
		From:   "Acme Corp",
		To:     "Senator X",
		Type:   common.RelationPoliticalContribution,
		Amount: 5000,
		Count:  2,
	}
	if len(g.Relationships) != 1 || g.Relationships[0] != wantRel {
		t.Fatalf("relationships mismatch:\ngot  %+v\nwant %+v", g.Relationships, wantRel)
	}

	last := g.Entities[len(g.Entities)-1]
	if last.Type != common.EntityPolitician || last.Name != "Senator X" || last.Source != common.SourceFEC {
		t.Fatalf("expected politician entity for Senator X, got %+v", last)
	}
}

func TestMerge_FECWithoutEdgar(t *testing.T) {
	political := &common.PoliticalRecord{
		Source: common.SourceFEC,
		Recipients: common.RecipientAggregates{
			{Name: "Senator X", Amount: 100, Count: 1},
		},
	}

	g := Merge(nil, nil, nil, nil, political)

	if len(g.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(g.Relationships))
	}
	if g.Relationships[0].From != "" {
		t.Fatalf("expected empty From without an EDGAR record, got %q", g.Relationships[0].From)
	}
}

func TestMerge_DedupAcrossSources(t *testing.T) {
	// "Jane Doe" appears as an EDGAR officer and as a contribution
	// recipient. Only the first entity survives; both relationships do.
	edgar := &common.EdgarRecord{
		CompanyName: "Acme Corp",
		CIK:         "123",
		Filings: []common.Filing{
			{
				EntityName: common.StringList{"Jane Doe", "Acme Corp"},
				CompanyCIK: common.StringList{"999", "123"},
				FormName:   "Form 4 (insider)",
			},
		},
	}
	political := &common.PoliticalRecord{
		Source: common.SourceFEC,
		Recipients: common.RecipientAggregates{
			{Name: "Jane Doe", Amount: 250, Count: 1},
		},
	}

	g := Merge(edgar, nil, nil, nil, political)

	count := 0
	for _, e := range g.Entities {
		if e.Name == "Jane Doe" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one Jane Doe entity, got %d", count)
	}
	if g.Entities[1].Type != common.EntityOfficer {
		t.Fatalf("expected the first-encountered (officer) entity to survive, got %+v", g.Entities[1])
	}
	if len(g.Relationships) != 2 {
		t.Fatalf("expected both relationships to be emitted, got %d", len(g.Relationships))
	}
}

func TestMerge_CompaniesHouseSkipsDedup(t *testing.T) {
	edgar := &common.EdgarRecord{CompanyName: "Acme Corp", CIK: "123"}
	ch := &common.CompaniesHouseRecord{
		CompanyName: "Acme Corp",
		Officers:    []string{"Alice Smith"},
	}

	g := Merge(edgar, ch, nil, nil, nil)

	count := 0
	for _, e := range g.Entities {
		if e.Name == "Acme Corp" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected duplicate Acme Corp entities, got %d", count)
	}

	wantRel := common.Relationship{From: "Acme Corp", To: "Alice Smith", Type: common.RelationOfficerOf}
	if len(g.Relationships) != 1 || g.Relationships[0] != wantRel {
		t.Fatalf("relationships mismatch:\ngot  %+v\nwant %+v", g.Relationships, wantRel)
	}
}

func TestMerge_JapanCEO(t *testing.T) {
	japan := &common.JapanRecord{
		CompanyName: "株式会社Example",
		WebsiteInfo: &common.WebsiteInfo{CEO: "山田太郎"},
	}

	g := Merge(nil, nil, japan, nil, nil)

	wantEntities := []common.Entity{
		{Type: common.EntityCompany, Name: "株式会社Example", Source: common.SourceJapanRegistry},
		{Type: common.EntityOfficer, Name: "山田太郎", Source: common.SourceJapanRegistry},
	}
	if !reflect.DeepEqual(g.Entities, wantEntities) {
		t.Fatalf("entities mismatch:\ngot  %+v\nwant %+v", g.Entities, wantEntities)
	}

	wantRels := []common.Relationship{
		{From: "株式会社Example", To: "山田太郎", Type: common.RelationCEOOf},
	}
	if !reflect.DeepEqual(g.Relationships, wantRels) {
		t.Fatalf("relationships mismatch:\ngot  %+v\nwant %+v", g.Relationships, wantRels)
	}
}

func TestMerge_JapanWithoutWebsiteInfo(t *testing.T) {
	japan := &common.JapanRecord{CompanyName: "株式会社Example"}

	g := Merge(nil, nil, japan, nil, nil)

	if len(g.Entities) != 1 {
		t.Fatalf("expected only the company entity, got %+v", g.Entities)
	}
	if len(g.Relationships) != 0 {
		t.Fatalf("expected no relationships, got %+v", g.Relationships)
	}
}

func TestMerge_RetiredPoliticalSourceIsIgnored(t *testing.T) {
	political := &common.PoliticalRecord{
		Source: common.SourceOpenSecrets,
		Recipients: common.RecipientAggregates{
			{Name: "Senator X", Amount: 5000, Count: 2},
		},
	}

	g := Merge(nil, nil, nil, nil, political)

	if len(g.Entities) != 0 || len(g.Relationships) != 0 {
		t.Fatalf("expected no output for the retired source, got %+v / %+v", g.Entities, g.Relationships)
	}
}

func TestMerge_NameVariantsStoredVerbatim(t *testing.T) {
	variants := []string{"Acme Corp", "ACME CORP", "acme corp"}

	g := Merge(nil, nil, nil, variants, nil)

	stored, ok := g.Analysis["name_variants"].([]string)
	if !ok {
		t.Fatalf("expected name_variants in analysis, got %v", g.Analysis)
	}
	if !reflect.DeepEqual(stored, variants) {
		t.Fatalf("variants mismatch:\ngot  %v\nwant %v", stored, variants)
	}
}

func TestMerge_DeterministicOrdering(t *testing.T) {
	edgar := &common.EdgarRecord{
		CompanyName: "Acme Corp",
		CIK:         "123",
		Filings: []common.Filing{
			{
				EntityName: common.StringList{"John Smith", "Acme Corp"},
				CompanyCIK: common.StringList{"999", "123"},
				FormName:   "Form 4 (insider)",
			},
		},
	}
	ch := &common.CompaniesHouseRecord{
		CompanyName: "Acme Corp Ltd",
		Officers:    []string{"Alice Smith", "Bob Jones"},
	}
	japan := &common.JapanRecord{
		CompanyName: "アクメ株式会社",
		WebsiteInfo: &common.WebsiteInfo{CEO: "山田太郎"},
	}
	political := &common.PoliticalRecord{
		Source: common.SourceFEC,
		Recipients: common.RecipientAggregates{
			{Name: "Senator X", Amount: 5000, Count: 2},
			{Name: "Senator Y", Amount: 1000, Count: 1},
		},
	}
	variants := []string{"Acme Corp", "ACME"}

	first := Merge(edgar, ch, japan, variants, political)
	second := Merge(edgar, ch, japan, variants, political)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical graphs across invocations")
	}

	// Source order: EDGAR entities first, then Companies House, then
	// Japan, then political recipients.
	gotOrder := make([]string, 0, len(first.Entities))
	for _, e := range first.Entities {
		gotOrder = append(gotOrder, e.Name)
	}
	wantOrder := []string{
		"Acme Corp", "John Smith",
		"Acme Corp Ltd", "Alice Smith", "Bob Jones",
		"アクメ株式会社", "山田太郎",
		"Senator X", "Senator Y",
	}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("entity order mismatch:\ngot  %v\nwant %v", gotOrder, wantOrder)
	}
}

func TestMerge_MalformedFilingsAreSkipped(t *testing.T) {
	edgar := &common.EdgarRecord{
		CompanyName: "Acme Corp",
		CIK:         "123",
		Filings: []common.Filing{
			{},
			{EntityName: common.StringList{""}},
			{EntityName: common.StringList{"", ""}},
		},
	}

	g := Merge(edgar, nil, nil, nil, nil)

	if len(g.Entities) != 1 {
		t.Fatalf("expected only the principal company, got %+v", g.Entities)
	}
	if len(g.Relationships) != 0 {
		t.Fatalf("expected no relationships, got %+v", g.Relationships)
	}
}
