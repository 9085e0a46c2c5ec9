package domain

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/focus/internal/common"
	"github.com/questx-lab/focus/internal/domain/ledger"
	"github.com/questx-lab/focus/internal/entity"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/internal/repository"
	"github.com/questx-lab/focus/pkg/dateutil"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/pubsub"
	"github.com/questx-lab/focus/pkg/xcontext"
)

type SessionDomain interface {
	Record(context.Context, *model.RecordSessionRequest) (*model.RecordSessionResponse, error)
	GetSessions(context.Context, *model.GetSessionsRequest) (*model.GetSessionsResponse, error)
}

type sessionDomain struct {
	userRepo      repository.UserRepository
	dailyGoalRepo repository.DailyGoalRepository
	sessionRepo   repository.SessionRepository
	idGenerator   *snowflake.Node
	publisher     ledgerPublisher
	now           func() time.Time
}

func NewSessionDomain(
	userRepo repository.UserRepository,
	dailyGoalRepo repository.DailyGoalRepository,
	sessionRepo repository.SessionRepository,
	idGenerator *snowflake.Node,
	publisher pubsub.Publisher,
) *sessionDomain {
	return &sessionDomain{
		userRepo:      userRepo,
		dailyGoalRepo: dailyGoalRepo,
		sessionRepo:   sessionRepo,
		idGenerator:   idGenerator,
		publisher:     newLedgerPublisher(publisher),
		now:           time.Now,
	}
}

func (d *sessionDomain) Record(
	ctx context.Context, req *model.RecordSessionRequest,
) (*model.RecordSessionResponse, error) {
	if req.Session == nil {
		return nil, errorx.New(errorx.BadRequest, "Missing session in body")
	}

	session, err := d.parseSession(req.Session)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	now := d.now()
	dateKey := todayKey(ctx, now)

	session.UserID = userID
	session.DateKey = dateKey
	session.Contribution = ledger.Contribution(session.Mode, session.Seconds)

	overwrite := xcontext.Configs(ctx).Ledger.LegacySessionOverwrite

	var duplicate bool
	var settlement ledger.Settlement
	var user *entity.User
	err = runLedgerTransaction(ctx, "record session", func(ctx context.Context) error {
		duplicate = false
		settlement = ledger.Settlement{}

		if overwrite {
			if err := d.sessionRepo.Upsert(ctx, session); err != nil {
				return err
			}
		} else {
			created, err := d.sessionRepo.CreateIfAbsent(ctx, session)
			if err != nil {
				return err
			}

			if !created {
				duplicate = true
				return nil
			}
		}

		if session.Mode == entity.SessionModeSub {
			return nil
		}

		var err error
		user, err = getOrCreateUser(ctx, d.userRepo, userID, dateKey)
		if err != nil {
			return err
		}

		goal := &entity.DailyGoal{
			UserID:  userID,
			DateKey: dateKey,
			Method:  entity.DailyGoalMethodNone,
			TZ:      xcontext.Configs(ctx).Ledger.TimeZone,
		}
		if _, err := d.dailyGoalRepo.Ensure(ctx, goal); err != nil {
			return err
		}

		settlement = ledger.Settle(user, goal, dateKey, session.Contribution)

		if err := d.dailyGoalRepo.Update(ctx, goal); err != nil {
			return err
		}

		return d.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	if duplicate {
		xcontext.Logger(ctx).Infof("Session %s of user %s was already recorded", session.ID, userID)
		return &model.RecordSessionResponse{Success: true, Duplicate: true, SessionID: session.ID}, nil
	}

	events := []model.LedgerEvent{
		newLedgerEvent(model.SessionRecordedEvent, userID, dateKey, now, map[string]any{
			"session_id":   session.ID,
			"mode":         string(session.Mode),
			"seconds":      session.Seconds,
			"contribution": session.Contribution,
		}),
	}

	if settlement.LevelsGained > 0 {
		events = append(events, newLedgerEvent(model.LevelUpEvent, userID, dateKey, now, map[string]any{
			"level":         user.Level,
			"levels_gained": settlement.LevelsGained,
		}))
	}

	if settlement.SkipsEarned > 0 {
		events = append(events, newLedgerEvent(model.SkipEarnedEvent, userID, dateKey, now, map[string]any{
			"skips":        user.Skips,
			"skips_earned": settlement.SkipsEarned,
		}))
	}

	d.publisher.publish(ctx, events...)
	return &model.RecordSessionResponse{Success: true, SessionID: session.ID}, nil
}

func (d *sessionDomain) GetSessions(
	ctx context.Context, req *model.GetSessionsRequest,
) (*model.GetSessionsResponse, error) {
	dateKey := req.DateKey
	if dateKey == "" {
		dateKey = todayKey(ctx, d.now())
	} else if _, err := dateutil.ParseDayKey(dateKey, xcontext.Configs(ctx).Ledger.Location()); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date key %q", dateKey)
	}

	sessions, err := d.sessionRepo.GetByDateKey(ctx, xcontext.RequestUserID(ctx), dateKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get sessions: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetSessionsResponse{DateKey: dateKey, Sessions: []model.Session{}}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, model.ConvertSession(&sessions[i]))
	}

	return resp, nil
}

// parseSession validates the free-form session sent by the client. Fields
// other than id, mode and seconds are kept as payload.
func (d *sessionDomain) parseSession(raw map[string]any) (*entity.Session, error) {
	seconds, ok := toSeconds(raw["seconds"])
	if !ok || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid 'seconds'")
	}

	id := ""
	if rawID, ok := raw["id"]; ok && rawID != nil {
		id = common.SanitizeKey(toString(rawID))
	}

	if id == "" {
		id = d.idGenerator.Generate().String()
	}

	payload := entity.Map{}
	for k, v := range raw {
		if k != "id" && k != "mode" && k != "seconds" {
			payload[k] = v
		}
	}

	if len(payload) == 0 {
		payload = nil
	}

	return &entity.Session{
		ID:      id,
		Mode:    entity.SessionMode(toString(raw["mode"])),
		Seconds: seconds,
		Payload: payload,
	}, nil
}

func toSeconds(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
