package migration

import (
	"context"
	"fmt"

	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/pkg/xcontext"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gorm.io/gorm/clause"
)

type Migrator func(context.Context) error

// Migrators holds every schema version. Versions are applied in lexical
// order and a version is never applied twice.
var Migrators = map[string]Migrator{
	"0000": migrate0000,
	"0001": migrate0001,
	"0002": migrate0002,
}

// Migrate applies every version which is not recorded in the migrations
// table yet.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	var applied []string
	if err := xcontext.DB(ctx).Model(&entity.Migration{}).
		Pluck("version", &applied).Error; err != nil {
		return err
	}

	versions := maps.Keys(Migrators)
	slices.Sort(versions)
	for _, version := range versions {
		if slices.Contains(applied, version) {
			continue
		}

		if err := Run(ctx, version); err != nil {
			return err
		}
	}

	return nil
}

// Run applies one version and records it, even if it was applied before.
func Run(ctx context.Context, version string) error {
	migrator, ok := Migrators[version]
	if !ok {
		return fmt.Errorf("not found version %s", version)
	}

	if err := migrator(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", version, err)
	}

	err := xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Migration{Version: version}).Error
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Applied migration %s", version)
	return nil
}
