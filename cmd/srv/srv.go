package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/questx-lab/focus/config"
	"github.com/questx-lab/focus/internal/domain"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/migration"
	"github.com/questx-lab/focus/pkg/authenticator"
	"github.com/questx-lab/focus/pkg/kafka"
	"github.com/questx-lab/focus/pkg/logger"
	"github.com/questx-lab/focus/pkg/pubsub"
	"github.com/questx-lab/focus/pkg/router"
	"github.com/questx-lab/focus/pkg/xcontext"
	"github.com/questx-lab/focus/pkg/xredis"

	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	publisher   pubsub.Publisher
	verifier    authenticator.Verifier

	userRepo      repository.UserRepository
	dailyGoalRepo repository.DailyGoalRepository
	sessionRepo   repository.SessionRepository

	userDomain      domain.UserDomain
	dailyGoalDomain domain.DailyGoalDomain
	sessionDomain   domain.SessionDomain
	skipDomain      domain.SkipDomain
	finalizerDomain domain.FinalizerDomain

	router *router.Router
}

// loadConfig builds the configs from defaults, the optional config file and
// the command line flags, in that order of precedence.
func (s *srv) loadConfig(ct *cli.Context) error {
	cfg, err := config.Load(ct.String("config"))
	if err != nil {
		return err
	}

	overrideString(ct, "env", &cfg.Env)
	overrideString(ct, "log-level", &cfg.LogLevel)
	overrideString(ct, "db-host", &cfg.Database.Host)
	overrideString(ct, "db-port", &cfg.Database.Port)
	overrideString(ct, "db-user", &cfg.Database.User)
	overrideString(ct, "db-password", &cfg.Database.Password)
	overrideString(ct, "db-database", &cfg.Database.Database)
	overrideString(ct, "db-log-level", &cfg.Database.LogLevel)
	overrideString(ct, "api-port", &cfg.ApiServer.Port)
	overrideString(ct, "auth-method", &cfg.Auth.Method)
	overrideString(ct, "token-secret", &cfg.Auth.TokenSecret)
	overrideString(ct, "oidc-issuer", &cfg.Auth.OIDC.Issuer)
	overrideString(ct, "oidc-client-id", &cfg.Auth.OIDC.ClientID)
	overrideString(ct, "redis-addr", &cfg.Redis.Addr)
	overrideString(ct, "kafka-addr", &cfg.Kafka.Addr)
	overrideString(ct, "ledger-tz", &cfg.Ledger.TimeZone)
	if ct.IsSet("finalizer-workers") {
		cfg.Finalizer.Workers = ct.Int("finalizer-workers")
	}

	if err := cfg.Ledger.LoadLocation(); err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
	s.loadLogger()
	return nil
}

func overrideString(ct *cli.Context, name string, target *string) {
	if ct.IsSet(name) {
		*target = ct.String(name)
	}
}

func (s *srv) loadLogger() {
	level := logger.ParseLevel(xcontext.Configs(s.ctx).LogLevel)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.ConnectionString(), // data source name
		DefaultStringSize:         256,                    // default size for string fields
		DisableDatetimePrecision:  true,                   // disable datetime precision, which not supported before MySQL 5.6
		DontSupportRenameIndex:    true,                   // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
		DontSupportRenameColumn:   true,                   // `change` when rename column, rename column not supported before MySQL 8, MariaDB
		SkipInitializeWithVersion: false,                  // auto configure based on currently MySQL version
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return gormlogger.Info
	case "warn", "warning":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}

// loadRedisClient connects to redis when an address is configured. The
// finalizer works without it.
func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("Redis is not configured, finalizer run lock is disabled")
		return
	}

	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	if cfg.Kafka.Addr == "" {
		xcontext.Logger(s.ctx).Warnf("Kafka is not configured, ledger events are dropped")
		s.publisher = pubsub.NewNopPublisher()
		return
	}

	publisher, err := kafka.NewPublisher("focus", strings.Split(cfg.Kafka.Addr, ","))
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadVerifier() {
	cfg := xcontext.Configs(s.ctx).Auth
	switch cfg.Method {
	case "jwt":
		engine := authenticator.NewTokenEngine[authenticator.Identity](
			cfg.TokenSecret, cfg.AccessToken.Expiration)
		s.verifier = authenticator.NewJWTVerifier(engine)

	case "oidc":
		verifier, err := authenticator.NewOIDCVerifier(s.ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID)
		if err != nil {
			panic(err)
		}
		s.verifier = verifier

	default:
		panic(fmt.Sprintf("unsupported auth method %q", cfg.Method))
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.dailyGoalRepo = repository.NewDailyGoalRepository()
	s.sessionRepo = repository.NewSessionRepository()
}

func (s *srv) loadDomains() {
	idGenerator, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.dailyGoalDomain = domain.NewDailyGoalDomain(s.userRepo, s.dailyGoalRepo, s.publisher)
	s.sessionDomain = domain.NewSessionDomain(
		s.userRepo, s.dailyGoalRepo, s.sessionRepo, idGenerator, s.publisher)
	s.skipDomain = domain.NewSkipDomain(s.userRepo, s.publisher)
	s.finalizerDomain = domain.NewFinalizerDomain(
		s.userRepo, s.dailyGoalRepo, s.redisClient, s.publisher)
}
