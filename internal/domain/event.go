package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/pkg/pubsub"
	"github.com/questx-lab/focus/pkg/xcontext"
)

type ledgerPublisher struct {
	publisher pubsub.Publisher
}

func newLedgerPublisher(publisher pubsub.Publisher) ledgerPublisher {
	if publisher == nil {
		publisher = pubsub.NewNopPublisher()
	}

	return ledgerPublisher{publisher: publisher}
}

func newLedgerEvent(
	eventType model.LedgerEventType, userID, dateKey string, now time.Time, data map[string]any,
) model.LedgerEvent {
	return model.LedgerEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		DateKey:    dateKey,
		OccurredAt: now.UTC().Format(model.DefaultTimeLayout),
		Data:       data,
	}
}

// publish sends events to the ledger topic. It must only be called after the
// transaction producing the events has committed. Failures are logged and
// never reported to the caller.
func (p ledgerPublisher) publish(ctx context.Context, events ...model.LedgerEvent) {
	topic := xcontext.Configs(ctx).Kafka.LedgerTopic
	for _, ev := range events {
		b, err := json.Marshal(ev)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal ledger event: %v", err)
			continue
		}

		err = p.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(ev.UserID), Msg: b})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish %s event of user %s: %v", ev.Type, ev.UserID, err)
		}
	}
}
