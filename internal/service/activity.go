package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/telemetry"
	"go.uber.org/zap"
)

// Actor is the authenticated user and firm a mutation runs as
type Actor struct {
	UserID string
	FirmID string
}

// Publisher streams committed activity entries, e.g. to Kafka
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte)
}

// NoopPublisher drops every entry
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) {}

// ActivityRecorder appends audit entries.
// AppendTx joins the caller's transaction; Record runs after commit and never fails the caller.
type ActivityRecorder struct {
	store     repository.Store
	publisher Publisher
	log       *logger.Logger
	now       func() time.Time
	failures  *telemetry.Counter
	recorded  *telemetry.Counter
}

// NewActivityRecorder creates an ActivityRecorder. publisher may be nil.
func NewActivityRecorder(store repository.Store, publisher Publisher, log *logger.Logger) *ActivityRecorder {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if log == nil {
		log = logger.Get()
	}
	return &ActivityRecorder{
		store:     store,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		failures: telemetry.MustCounter(telemetry.MetricOpts{
			Name:        "activity_log_failures_total",
			Description: "Activity entries that could not be written",
		}),
		recorded: telemetry.MustCounter(telemetry.MetricOpts{
			Name:        "activity_log_entries_total",
			Description: "Activity entries written",
		}),
	}
}

// Entry builds an activity entry for actor
func (r *ActivityRecorder) Entry(actor Actor, action domain.ActivityAction, entityType domain.EntityType, entityID, description string) *domain.ActivityLog {
	return &domain.ActivityLog{
		ID:          uuid.New().String(),
		FirmID:      actor.FirmID,
		UserID:      actor.UserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		CreatedAt:   r.now(),
	}
}

// AppendTx writes entry inside tx. A failure rolls back the caller's transaction.
func (r *ActivityRecorder) AppendTx(ctx context.Context, tx repository.Repositories, entry *domain.ActivityLog) error {
	if err := tx.Activity().Append(ctx, entry); err != nil {
		return storageErr("append activity", err)
	}
	return nil
}

// Record writes entry after the mutation committed. Failures are logged and counted, never returned.
func (r *ActivityRecorder) Record(ctx context.Context, entry *domain.ActivityLog) {
	ctx = context.WithoutCancel(ctx)
	if err := r.store.Activity().Append(ctx, entry); err != nil {
		r.failures.Inc(ctx, telemetry.ActionAttr(string(entry.Action)), telemetry.ErrorTypeAttr("storage"))
		r.log.WithContext(ctx).Error("failed to record activity",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", string(entry.EntityType)),
			zap.String("entity_id", entry.EntityID),
			zap.Error(err),
		)
		return
	}
	r.Published(ctx, entry)
}

// Published streams an already committed entry
func (r *ActivityRecorder) Published(ctx context.Context, entry *domain.ActivityLog) {
	r.recorded.Inc(ctx, telemetry.ActionAttr(string(entry.Action)), telemetry.EntityTypeAttr(string(entry.EntityType)))

	payload, err := json.Marshal(entry)
	if err != nil {
		r.log.WithContext(ctx).Warn("failed to encode activity", zap.Error(err))
		return
	}
	r.publisher.Publish(context.WithoutCancel(ctx), entry.FirmID, payload)
}
