package models

import "time"

// Cohort identifiers.
const (
	CohortCompetitors = "competitors"
	CohortDRAM        = "dram"
	CohortNAND        = "nand"
	CohortFoundry     = "foundry"
)

// Cohorts lists every cohort in display order.
var Cohorts = []string{CohortCompetitors, CohortDRAM, CohortNAND, CohortFoundry}

// EntityResult is one entity's slice of a snapshot.
type EntityResult struct {
	Definition       EntityDefinition  `json:"definition"`
	QuarterlyRecords []QuarterlyRecord `json:"quarterlyRecords"`
	Growth           GrowthRateSet     `json:"growth"`
	DomainMetrics    []DomainMetric    `json:"domainMetrics,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// DashboardSnapshot is the aggregated result for one cohort. It is the unit
// stored in cache.
type DashboardSnapshot struct {
	Cohort      string                  `json:"cohort"`
	Entities    map[string]EntityResult `json:"entities"`
	LastUpdated time.Time               `json:"lastUpdated"`
	Errors      []string                `json:"errors"`
	Demo        bool                    `json:"demo,omitempty"`
}

// SnapshotResponse is what callers of the aggregation receive. Success is
// always true; failures travel in Data.Errors.
type SnapshotResponse struct {
	Success     bool              `json:"success"`
	Data        DashboardSnapshot `json:"data"`
	LastUpdated time.Time         `json:"lastUpdated"`
}
