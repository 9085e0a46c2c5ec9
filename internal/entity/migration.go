package entity

import "time"

// Migration records a schema version applied to the database.
type Migration struct {
	Version   string `gorm:"primaryKey"`
	CreatedAt time.Time
}
