// Package importer implements reading ledger exports into the backend.
package importer

import (
	"github.com/flowcast/backend/internal/models"
	"github.com/google/uuid"
)

// TransactionPreview is used to preview transactions that will be imported
// to allow for editing.
type TransactionPreview struct {
	Transaction             models.Transaction `json:"transaction"`
	Line                    int                `json:"line" example:"4"`                                          // Line of the file the record was read from
	RawCategory             string             `json:"rawCategory" example:"売上"`                                  // Category label as it appears in the file
	DuplicateTransactionIDs []uuid.UUID        `json:"duplicateTransactionIds"`                                   // IDs of transactions that this transaction duplicates
	ImportRuleID            uuid.UUID          `json:"importRuleId" example:"042d101d-f1de-4403-9295-59dc0ea58677"` // ID of the import rule that was applied
	Error                   string             `json:"error,omitempty"`                                           // Validation error for this record, if any
}
