package migration

import (
	"context"

	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/pkg/xcontext"
)

// migrate0002 adds the overflow already counted toward bonus skips to the day
// records.
func migrate0002(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if migrator.HasColumn(&entity.DailyGoal{}, "SpilloverSeconds") {
		return nil
	}

	return migrator.AddColumn(&entity.DailyGoal{}, "SpilloverSeconds")
}
