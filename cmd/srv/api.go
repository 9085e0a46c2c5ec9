package main

import (
	"fmt"
	"net/http"

	"github.com/questx-lab/focus/internal/middleware"
	"github.com/questx-lab/focus/pkg/prometheus"
	"github.com/questx-lab/focus/pkg/router"
	"github.com/questx-lab/focus/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadVerifier()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.ApiServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger(), middleware.Prometheus())
	s.router.Handle("/metrics", prometheus.NewHandler())

	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate(s.verifier))
	{
		// User API
		router.POST(authRouter, "/initUser", s.userDomain.InitUser)
		router.GET(authRouter, "/getUser", s.userDomain.GetUser)

		// Daily goal API
		router.GET(authRouter, "/getDailyGoal", s.dailyGoalDomain.Get)
		router.POST(authRouter, "/spinDailyGoal", s.dailyGoalDomain.Spin)

		// Session API
		router.POST(authRouter, "/saveSession", s.sessionDomain.Record)
		router.GET(authRouter, "/getSessions", s.sessionDomain.GetSessions)

		// Skip API
		router.POST(authRouter, "/claimSundaySkip", s.skipDomain.ClaimWeeklyBonus)
	}
}
