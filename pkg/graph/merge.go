package graph

import (
	"strings"

	"github.com/tomei-lab/tomei/pkg/common"
)

// classificationStrategy selects how the names on an EDGAR filing are
// told apart. When the filing carries a CIK list aligned with its name
// list, each name is classified by comparing its CIK against the
// principal company's. Without alignment the positional convention is
// used: index 0 is assumed to be the person, index 1 the company. The
// positional convention is asserted by the source, not verified.
type classificationStrategy int

const (
	byIdentifier classificationStrategy = iota
	byPosition
)

// Merge combines up to four source records and a name-variant list into
// a single network graph. Every input is optional; nil means the source
// contributed nothing. Inputs are never mutated and Merge never fails:
// missing or malformed fields are treated as "nothing to extract".
//
// Entities and relationships are appended in fixed source order (EDGAR,
// Companies House, Japan registry, political contributions, variants)
// and, within a source, in the order the records were presented, so two
// calls with the same inputs produce identical output.
//
// Entity names are deduplicated through an EntityRegistry on the EDGAR
// and political paths. The Companies House and Japan branches append
// their company entities without a dedup check; a company found by both
// EDGAR and Companies House therefore appears twice. That inconsistency
// is long-standing upstream behavior and is kept on purpose.
func Merge(
	edgar *common.EdgarRecord,
	companiesHouse *common.CompaniesHouseRecord,
	japan *common.JapanRecord,
	nameVariants []string,
	political *common.PoliticalRecord,
) *common.NetworkGraph {
	graph := &common.NetworkGraph{
		Entities:      []common.Entity{},
		Relationships: []common.Relationship{},
		Analysis:      map[string]any{},
	}
	registry := NewEntityRegistry()

	var principalCompany string
	if edgar != nil {
		principalCompany = edgar.CompanyName
		mergeEdgar(graph, registry, edgar)
	}

	if companiesHouse != nil {
		mergeCompaniesHouse(graph, companiesHouse)
	}

	if japan != nil {
		mergeJapan(graph, japan)
	}

	if political != nil && political.Source == common.SourceFEC {
		mergePolitical(graph, registry, political, principalCompany)
	}

	if len(nameVariants) > 0 {
		graph.Analysis["name_variants"] = nameVariants
	}

	return graph
}

// addUnique appends the entity unless its name was already registered.
func addUnique(graph *common.NetworkGraph, registry *EntityRegistry, entity common.Entity) {
	if entity.Name == "" {
		return
	}
	if !registry.Add(entity.Name) {
		return
	}
	graph.Entities = append(graph.Entities, entity)
}

func mergeEdgar(graph *common.NetworkGraph, registry *EntityRegistry, rec *common.EdgarRecord) {
	addUnique(graph, registry, common.Entity{
		Type:   common.EntityCompany,
		Name:   rec.CompanyName,
		Source: common.SourceEDGAR,
	})

	for _, filing := range rec.Filings {
		names := filing.EntityName
		if len(names) == 0 {
			continue
		}

		insider := strings.Contains(strings.ToLower(filing.FormLabel()), "insider")

		if len(names) == 1 {
			name := names[0]
			if name == "" || strings.EqualFold(name, rec.CompanyName) {
				continue
			}
			relType := common.RelationRelated
			if insider {
				relType = common.RelationInsider
			}
			addUnique(graph, registry, common.Entity{
				Type:   common.EntityOfficer,
				Name:   name,
				Source: common.SourceEDGAR,
			})
			graph.Relationships = append(graph.Relationships, common.Relationship{
				From: rec.CompanyName,
				To:   name,
				Type: relType,
			})
			continue
		}

		strategy := byPosition
		if len(filing.CompanyCIK) == len(names) {
			strategy = byIdentifier
		}

		for i, name := range names {
			if name == "" {
				continue
			}

			var isFilingCompany bool
			switch strategy {
			case byIdentifier:
				isFilingCompany = filing.CompanyCIK[i] == rec.CIK
			case byPosition:
				isFilingCompany = i == 1
			}

			if isFilingCompany {
				if !strings.EqualFold(name, rec.CompanyName) {
					addUnique(graph, registry, common.Entity{
						Type:   common.EntityCompany,
						Name:   name,
						Source: common.SourceEDGAR,
					})
				}
				continue
			}

			relType := common.RelationRelated
			if insider {
				relType = common.RelationInsider
			}
			addUnique(graph, registry, common.Entity{
				Type:   common.EntityOfficer,
				Name:   name,
				Source: common.SourceEDGAR,
			})
			graph.Relationships = append(graph.Relationships, common.Relationship{
				From: rec.CompanyName,
				To:   name,
				Type: relType,
			})
		}
	}
}

// mergeCompaniesHouse appends the company and its officers without
// consulting the registry (see Merge).
func mergeCompaniesHouse(graph *common.NetworkGraph, rec *common.CompaniesHouseRecord) {
	graph.Entities = append(graph.Entities, common.Entity{
		Type:   common.EntityCompany,
		Name:   rec.CompanyName,
		Source: common.SourceCompaniesHouse,
	})

	for _, officer := range rec.Officers {
		if officer == "" {
			continue
		}
		graph.Entities = append(graph.Entities, common.Entity{
			Type:   common.EntityOfficer,
			Name:   officer,
			Source: common.SourceCompaniesHouse,
		})
		graph.Relationships = append(graph.Relationships, common.Relationship{
			From: rec.CompanyName,
			To:   officer,
			Type: common.RelationOfficerOf,
		})
	}
}

func mergeJapan(graph *common.NetworkGraph, rec *common.JapanRecord) {
	graph.Entities = append(graph.Entities, common.Entity{
		Type:   common.EntityCompany,
		Name:   rec.CompanyName,
		Source: common.SourceJapanRegistry,
	})

	if rec.WebsiteInfo == nil || rec.WebsiteInfo.CEO == "" {
		return
	}

	graph.Entities = append(graph.Entities, common.Entity{
		Type:   common.EntityOfficer,
		Name:   rec.WebsiteInfo.CEO,
		Source: common.SourceJapanRegistry,
	})
	graph.Relationships = append(graph.Relationships, common.Relationship{
		From: rec.CompanyName,
		To:   rec.WebsiteInfo.CEO,
		Type: common.RelationCEOOf,
	})
}

// mergePolitical links each aggregated recipient to the EDGAR-identified
// company. principalCompany is empty when no EDGAR record was supplied;
// the relationship is still emitted with an empty From.
func mergePolitical(
	graph *common.NetworkGraph,
	registry *EntityRegistry,
	rec *common.PoliticalRecord,
	principalCompany string,
) {
	for _, recipient := range rec.Recipients {
		if recipient.Name == "" {
			continue
		}
		addUnique(graph, registry, common.Entity{
			Type:   common.EntityPolitician,
			Name:   recipient.Name,
			Source: common.SourceFEC,
		})
		graph.Relationships = append(graph.Relationships, common.Relationship{
			From:   principalCompany,
			To:     recipient.Name,
			Type:   common.RelationPoliticalContribution,
			Amount: recipient.Amount,
			Count:  recipient.Count,
		})
	}
}
