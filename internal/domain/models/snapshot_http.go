package models

// Requests for snapshot HTTP endpoints.

type SnapshotRequest struct {
	Cohort  string `param:"cohort" json:"cohort" validate:"required,oneof=competitors dram nand foundry"`
	Refresh bool   `query:"refresh" json:"refresh" default:"false"`
}

type InvalidateRequest struct {
	Cohort string `param:"cohort" json:"cohort" validate:"required,oneof=competitors dram nand foundry"`
}
