package entity

import (
	"time"

	"github.com/questx-lab/focus/pkg/enum"
)

type SessionMode string

var (
	SessionModeMain    = enum.New(SessionMode("main"))
	SessionModeSub     = enum.New(SessionMode("sub"))
	SessionModeSchool  = enum.New(SessionMode("school"))
	SessionModeReading = enum.New(SessionMode("reading"))
	SessionModeManga   = enum.New(SessionMode("manga"))
)

// Session is one recorded work interval. It is never modified once settled.
type Session struct {
	UserID string `gorm:"primaryKey"`
	ID     string `gorm:"primaryKey"`

	Mode    SessionMode
	Seconds float64

	// Free-form fields sent by the client, stored as is.
	Payload Map

	DateKey      string `gorm:"index"`
	Contribution float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
