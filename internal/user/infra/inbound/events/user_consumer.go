package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	sharedEvents "github.com/davicafu/usermgmt/internal/shared/domain/events"
	sharedUtils "github.com/davicafu/usermgmt/internal/shared/infra/utils"
	userDomain "github.com/davicafu/usermgmt/internal/user/domain"
)

// AuditLog es el sink al que el consumidor vuelca los eventos del ciclo
// de vida (ej. el repo de ClickHouse).
type AuditLog interface {
	LogEvent(ctx context.Context, entry userDomain.UserAuditEntry) error
}

// UserConsumer traduce eventos de integración a entradas de auditoría.
// Si no hay sink configurado, se limita a loguear.
type UserConsumer struct {
	audit AuditLog
	log   *zap.Logger
}

func NewUserConsumer(audit AuditLog, logger *zap.Logger) *UserConsumer {
	return &UserConsumer{
		audit: audit,
		log:   logger,
	}
}

func (c *UserConsumer) HandleMessage(ctx context.Context, key string, payload []byte) {
	var base sharedEvents.IntegrationEvent
	if err := json.Unmarshal(payload, &base); err != nil {
		c.log.Warn("Failed to unmarshal integration event", zap.String("key", key), zap.Error(err))
		return
	}

	switch base.Type {
	case userDomain.UserCreated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.UserCreated](c.log, base.Data, func(evt sharedEvents.UserCreated) {
			c.record(ctx, userDomain.UserAuditEntry{
				EventID:    evt.EventID,
				EventType:  base.Type,
				Email:      evt.Email,
				OccurredAt: base.Timestamp,
			})
		})

	case userDomain.UserUpdated:
		sharedUtils.UnmarshalAndHandle[sharedEvents.UserUpdated](c.log, base.Data, func(evt sharedEvents.UserUpdated) {
			c.record(ctx, userDomain.UserAuditEntry{
				EventID:    evt.EventID,
				EventType:  base.Type,
				Email:      evt.Email,
				OccurredAt: base.Timestamp,
			})
		})

	case userDomain.UserReplaced:
		sharedUtils.UnmarshalAndHandle[sharedEvents.UserReplaced](c.log, base.Data, func(evt sharedEvents.UserReplaced) {
			c.record(ctx, userDomain.UserAuditEntry{
				EventID:    evt.EventID,
				EventType:  base.Type,
				Email:      evt.Email,
				OccurredAt: base.Timestamp,
			})
		})

	case userDomain.UserDeleted:
		sharedUtils.UnmarshalAndHandle[sharedEvents.UserDeleted](c.log, base.Data, func(evt sharedEvents.UserDeleted) {
			c.record(ctx, userDomain.UserAuditEntry{
				EventID:    evt.EventID,
				EventType:  base.Type,
				Email:      evt.Email,
				OccurredAt: base.Timestamp,
			})
		})

	default:
		c.log.Warn("Unknown event type", zap.String("type", base.Type))
	}
}

// record escribe la entrada en el sink con un contexto acotado.
func (c *UserConsumer) record(ctx context.Context, entry userDomain.UserAuditEntry) {
	if c.audit == nil {
		c.log.Info("User lifecycle event",
			zap.String("type", entry.EventType),
			zap.String("email", entry.Email),
		)
		return
	}

	ctxAudit, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	if err := c.audit.LogEvent(ctxAudit, entry); err != nil {
		c.log.Warn("Failed to record audit entry",
			zap.String("type", entry.EventType),
			zap.String("email", entry.Email),
			zap.Error(err),
		)
	}
}

// BackgroundConsumerChan consume eventos desde un canal del bus en memoria.
func BackgroundConsumerChan(ctx context.Context, ch <-chan interface{}, consumer *UserConsumer) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				consumer.log.Info("UserConsumer stopped")
				return
			case msg := <-ch:
				// El bus en memoria entrega []byte ya serializados.
				if payload, ok := msg.([]byte); ok {
					consumer.HandleMessage(ctx, "", payload)
				}
			}
		}
	}()
}
