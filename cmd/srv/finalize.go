package main

import (
	"fmt"
	"os"

	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/pkg/xcontext"

	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"
)

func (s *srv) startFinalize(ct *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()

	resp, err := s.finalizerDomain.FinalizeDay(s.ctx, &model.FinalizeDayRequest{
		DateKey: ct.String("date"),
		Force:   ct.Bool("force"),
	})
	if err != nil {
		return err
	}

	if resp.Skipped {
		fmt.Fprintf(os.Stdout, "%s: skipped, another run holds the lock\n", resp.DateKey)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s: processed=%d failed=%d\n", resp.DateKey, resp.Processed, resp.Failed)
	outcomes := make([]string, 0, len(resp.Outcomes))
	for outcome := range resp.Outcomes {
		outcomes = append(outcomes, outcome)
	}
	slices.Sort(outcomes)
	for _, outcome := range outcomes {
		fmt.Fprintf(os.Stdout, "  %s=%d\n", outcome, resp.Outcomes[outcome])
	}

	return nil
}
