package entity

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/questx-lab/focus/pkg/xcontext"
)

type Map map[string]any

func (Map) GormDataType() string {
	return "text"
}

func (m *Map) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), m)
	case []byte:
		return json.Unmarshal(t, m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (m Map) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&DailyGoal{},
		&Session{},
	)
}
