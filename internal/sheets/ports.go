package sheets

import (
	"context"

	"accountbook/internal/core"
)

// Mirror keeps a spreadsheet copy of the ledger. Rows are keyed by
// transaction ID so every operation is idempotent.
type Mirror interface {
	// UpsertTransaction writes t to the row holding its ID, appending one
	// when there is none.
	UpsertTransaction(ctx context.Context, t core.Transaction) error
	// RemoveTransaction clears the row holding id. A missing row is not an error.
	RemoveTransaction(ctx context.Context, id int64) error
}
