package main

import (
	"github.com/questx-lab/focus/migration"
	"github.com/questx-lab/focus/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(ct *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()

	if version := ct.String("version"); version != "" {
		if err := migration.Run(s.ctx, version); err != nil {
			return err
		}
	}

	xcontext.Logger(s.ctx).Infof("Migrate database successfully")
	return nil
}
