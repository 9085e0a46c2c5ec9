package migration

import (
	"context"

	"github.com/questx-lab/focus/internal/entity"
)

// migrate0000 creates the ledger tables with their latest layout.
func migrate0000(ctx context.Context) error {
	return entity.MigrateTable(ctx)
}
