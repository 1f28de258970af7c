package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/internal/sheets"
)

// EventService defines the interface for event operations
type EventService interface {
	// Create books an event; a positive advance is recorded as a payment in the same transaction
	Create(ctx context.Context, actor Actor, req *dto.CreateEventRequest) (*domain.EventWithClient, error)
	List(ctx context.Context, firmID string) ([]*domain.EventWithClient, error)
	// Details loads an event with its related records; callers check ownership
	Details(ctx context.Context, id string) (*domain.EventWithClient, error)
	UpdateStatus(ctx context.Context, actor Actor, event *domain.Event, status string) (*domain.Event, error)
}

type eventService struct {
	store    repository.Store
	activity *ActivityRecorder
	mirror   sheets.Mirror
	now      func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(store repository.Store, activity *ActivityRecorder, mirror sheets.Mirror) EventService {
	return &eventService{store: store, activity: activity, mirror: mirror, now: time.Now}
}

func (s *eventService) Create(ctx context.Context, actor Actor, req *dto.CreateEventRequest) (*domain.EventWithClient, error) {
	eventDate, err := dto.ParseDate("eventDate", req.EventDate)
	if err != nil {
		return nil, err
	}

	params := domain.NewEventParams{
		ID:             uuid.New().String(),
		FirmID:         actor.FirmID,
		ClientID:       req.ClientID,
		Title:          req.Title,
		Description:    req.Description,
		EventType:      req.EventType,
		EventDate:      eventDate,
		Venue:          req.Venue,
		TotalAmount:    req.TotalAmount,
		AdvanceAmount:  req.AdvanceAmount,
		PhotographerID: req.PhotographerID,
		VideographerID: req.VideographerID,
	}

	var booked *booking
	err = s.store.WithTx(ctx, func(tx repository.Repositories) error {
		var err error
		booked, err = bookEvent(ctx, tx, s.activity, actor, params, s.now())
		if err != nil {
			return err
		}
		return s.activity.AppendTx(ctx, tx, booked.entry)
	})
	if err != nil {
		return nil, storageErr("create event", err)
	}

	booked.committed(ctx, s.activity, s.mirror)
	return booked.view(), nil
}

func (s *eventService) List(ctx context.Context, firmID string) ([]*domain.EventWithClient, error) {
	events, err := s.store.Events().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list events", err)
	}
	return events, nil
}

func (s *eventService) Details(ctx context.Context, id string) (*domain.EventWithClient, error) {
	event, err := s.store.Events().GetWithDetails(ctx, id)
	if err != nil {
		return nil, storageErr("get event", err)
	}
	return event, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, actor Actor, event *domain.Event, status string) (*domain.Event, error) {
	next, err := domain.ParseEventStatus(status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.store.Events().UpdateStatus(ctx, event.ID, next, now); err != nil {
		return nil, storageErr("update event status", err)
	}
	updated := *event
	updated.Status = next
	updated.UpdatedAt = now

	s.activity.Record(ctx, s.activity.Entry(actor, domain.ActionEventStatusUpdated, domain.EntityEvent, event.ID,
		fmt.Sprintf("Event %s moved from %s to %s", event.Title, event.Status, next)))
	return &updated, nil
}

// booking is an event written inside a transaction, with its advance payment if any
type booking struct {
	event        *domain.Event
	client       *domain.Client
	photographer *domain.User
	videographer *domain.User
	advance      *domain.Payment
	entry        *domain.ActivityLog
}

// bookEvent validates references and inserts the event and its advance payment through tx.
// The caller appends b.entry (or its own entry) in the same transaction.
func bookEvent(ctx context.Context, tx repository.Repositories, activity *ActivityRecorder, actor Actor, params domain.NewEventParams, now time.Time) (*booking, error) {
	client, err := firmClient(ctx, tx.Clients(), actor.FirmID, params.ClientID)
	if err != nil {
		return nil, err
	}

	b := &booking{client: client}
	if params.PhotographerID != nil && *params.PhotographerID != "" {
		if b.photographer, err = firmMember(ctx, tx.Users(), actor.FirmID, *params.PhotographerID, domain.NotFound("photographer")); err != nil {
			return nil, err
		}
	}
	if params.VideographerID != nil && *params.VideographerID != "" {
		if b.videographer, err = firmMember(ctx, tx.Users(), actor.FirmID, *params.VideographerID, domain.NotFound("videographer")); err != nil {
			return nil, err
		}
	}

	event, err := domain.NewEvent(params, now)
	if err != nil {
		return nil, err
	}

	if event.AdvanceAmount.IsPositive() {
		payment, err := domain.NewPayment(domain.NewPaymentParams{
			ID:            uuid.New().String(),
			FirmID:        event.FirmID,
			EventID:       event.ID,
			ReceivedBy:    actor.UserID,
			Amount:        event.AdvanceAmount,
			PaymentMethod: domain.PaymentMethodCash,
			PaymentDate:   now,
			Notes:         domain.AdvancePaymentNote,
		}, now)
		if err != nil {
			return nil, err
		}
		if err := event.ApplyPayment(payment.Amount, now); err != nil {
			return nil, err
		}
		b.advance = payment
	}

	if err := tx.Events().Create(ctx, event); err != nil {
		return nil, err
	}
	if b.advance != nil {
		if err := tx.Payments().Create(ctx, b.advance); err != nil {
			return nil, err
		}
	}
	b.event = event

	description := fmt.Sprintf("Booked %s for %s on %s", event.Title, client.Name, event.EventDate.Format("2006-01-02"))
	if b.advance != nil {
		description += fmt.Sprintf(" with advance %s", b.advance.Amount.StringFixed(2))
	}
	b.entry = activity.Entry(actor, domain.ActionEventCreated, domain.EntityEvent, event.ID, description)
	return b, nil
}

// committed runs the post-commit side effects of a booking
func (b *booking) committed(ctx context.Context, activity *ActivityRecorder, mirror sheets.Mirror) {
	activity.Published(ctx, b.entry)
	mirror.Enqueue(sheets.EventRow(b.event, b.client.Name))
	if b.advance != nil {
		mirror.Enqueue(sheets.PaymentRow(b.advance, b.event.Title))
	}
}

func (b *booking) view() *domain.EventWithClient {
	out := &domain.EventWithClient{
		Event:        *b.event,
		Client:       b.client,
		Photographer: b.photographer,
		Videographer: b.videographer,
		Tasks:        []*domain.Task{},
		Payments:     []*domain.Payment{},
	}
	if b.advance != nil {
		out.Payments = append(out.Payments, b.advance)
	}
	return out
}
