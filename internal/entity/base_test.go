package entity

import (
	"context"
	"testing"

	"github.com/questx-lab/focus/pkg/xcontext"
	"github.com/stretchr/testify/require"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrateTable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	ctx := xcontext.WithDB(context.Background(), db)
	require.NoError(t, MigrateTable(ctx))

	// Running it again on an up-to-date schema changes nothing.
	require.NoError(t, MigrateTable(ctx))

	for _, table := range []any{&User{}, &DailyGoal{}, &Session{}} {
		require.True(t, db.Migrator().HasTable(table))
	}
	require.True(t, db.Migrator().HasColumn(&Session{}, "payload"))
	require.True(t, db.Migrator().HasColumn(&DailyGoal{}, "spillover_seconds"))

	require.NoError(t, db.Create(&Session{
		UserID:  "user1",
		ID:      "s1",
		Mode:    SessionModeMain,
		Seconds: 60,
		Payload: Map{"note": "deep work", "tags": []any{"a", "b"}},
	}).Error)
	require.NoError(t, db.Create(&Session{UserID: "user1", ID: "s2", Mode: SessionModeSub}).Error)

	var withPayload, withoutPayload Session
	require.NoError(t, db.Take(&withPayload, "user_id=? AND id=?", "user1", "s1").Error)
	require.Equal(t, "deep work", withPayload.Payload["note"])
	require.Equal(t, []any{"a", "b"}, withPayload.Payload["tags"])

	require.NoError(t, db.Take(&withoutPayload, "user_id=? AND id=?", "user1", "s2").Error)
	require.Nil(t, withoutPayload.Payload)
}
