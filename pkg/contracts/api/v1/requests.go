// Package api contains the HTTP contract of the data cleaning service.
// Version v1 represents the current stable API version.
package api

import (
	"datacleaner/pkg/contracts/domain"
)

// CleanRequest asks the service to run the cleaning pipeline on one table.
// Strategy and ZThreshold override the server defaults when set.
type CleanRequest struct {
	Table      *domain.Table `json:"table" validate:"required"`
	Strategy   string        `json:"strategy,omitempty" validate:"omitempty,oneof=mean median most_frequent"`
	ZThreshold *float64      `json:"z_threshold,omitempty" validate:"omitempty,gt=0"`
	// Summary adds a profile of the cleaned table to the response
	Summary bool `json:"summary,omitempty"`
}

// CleanResponse carries the cleaned table and what each stage did.
// Report and Summary hold the pipeline's own report and profile types.
type CleanResponse struct {
	Table   *domain.Table `json:"table"`
	RowsIn  int           `json:"rows_in"`
	RowsOut int           `json:"rows_out"`
	Report  any           `json:"report"`
	Summary any           `json:"summary,omitempty"`
}
