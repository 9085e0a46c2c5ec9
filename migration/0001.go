package migration

import (
	"context"

	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/pkg/xcontext"
)

const sessionDayIndex = "idx_sessions_user_date"

// migrate0001 indexes sessions by user and day, which is how the session
// history is listed.
func migrate0001(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if db.Migrator().HasIndex(&entity.Session{}, sessionDayIndex) {
		return nil
	}

	return db.Exec("CREATE INDEX " + sessionDayIndex +
		" ON sessions (user_id, date_key, created_at)").Error
}
