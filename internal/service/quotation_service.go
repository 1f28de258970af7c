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

// ConversionResult is a quotation together with the event booked from it
type ConversionResult struct {
	Quotation *domain.Quotation       `json:"quotation"`
	Event     *domain.EventWithClient `json:"event"`
}

// QuotationService defines the interface for quotation operations
type QuotationService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateQuotationRequest) (*domain.Quotation, error)
	List(ctx context.Context, firmID string) ([]*domain.Quotation, error)
	// Get loads a quotation by id without a firm filter; callers check ownership
	Get(ctx context.Context, id string) (*domain.Quotation, error)
	// Convert books an event from the quotation and marks it converted, once
	Convert(ctx context.Context, actor Actor, quotationID string, req *dto.ConvertQuotationRequest) (*ConversionResult, error)
}

type quotationService struct {
	store    repository.Store
	activity *ActivityRecorder
	mirror   sheets.Mirror
	now      func() time.Time
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(store repository.Store, activity *ActivityRecorder, mirror sheets.Mirror) QuotationService {
	return &quotationService{store: store, activity: activity, mirror: mirror, now: time.Now}
}

func (s *quotationService) Create(ctx context.Context, actor Actor, req *dto.CreateQuotationRequest) (*domain.Quotation, error) {
	eventDate, err := dto.ParseDate("eventDate", req.EventDate)
	if err != nil {
		return nil, err
	}
	validUntil, err := dto.ParseOptionalDate("validUntil", req.ValidUntil)
	if err != nil {
		return nil, err
	}
	client, err := firmClient(ctx, s.store.Clients(), actor.FirmID, req.ClientID)
	if err != nil {
		return nil, err
	}

	q, err := domain.NewQuotation(domain.NewQuotationParams{
		ID:          uuid.New().String(),
		FirmID:      actor.FirmID,
		ClientID:    client.ID,
		CreatedBy:   actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		EventDate:   eventDate,
		Venue:       req.Venue,
		TotalAmount: req.TotalAmount,
		ValidUntil:  validUntil,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Quotations().Create(ctx, q); err != nil {
		return nil, storageErr("create quotation", err)
	}

	s.activity.Record(ctx, s.activity.Entry(actor, domain.ActionQuotationCreated, domain.EntityQuotation, q.ID,
		fmt.Sprintf("Quoted %s to %s for %s", q.TotalAmount.StringFixed(2), client.Name, q.Title)))
	return q, nil
}

func (s *quotationService) List(ctx context.Context, firmID string) ([]*domain.Quotation, error) {
	quotations, err := s.store.Quotations().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list quotations", err)
	}
	return quotations, nil
}

func (s *quotationService) Get(ctx context.Context, id string) (*domain.Quotation, error) {
	q, err := s.store.Quotations().GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get quotation", err)
	}
	return q, nil
}

func (s *quotationService) Convert(ctx context.Context, actor Actor, quotationID string, req *dto.ConvertQuotationRequest) (*ConversionResult, error) {
	now := s.now()

	var (
		quotation *domain.Quotation
		booked    *booking
		entry     *domain.ActivityLog
	)
	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		var err error
		quotation, err = tx.Quotations().GetByIDForUpdate(ctx, quotationID)
		if err != nil {
			return err
		}
		if quotation == nil || quotation.FirmID != actor.FirmID {
			return ErrQuotationNotFound
		}
		if !quotation.CanConvert() {
			return domain.NewValidationError("status", "quotation cannot be converted from status "+string(quotation.Status))
		}

		params := quotation.EventParams(uuid.New().String(), req.AdvanceAmount, req.PhotographerID, req.VideographerID)
		booked, err = bookEvent(ctx, tx, s.activity, actor, params, now)
		if err != nil {
			return err
		}
		if err := quotation.MarkConverted(booked.event.ID, now); err != nil {
			return err
		}
		if err := tx.Quotations().Update(ctx, quotation); err != nil {
			return err
		}
		if err := s.activity.AppendTx(ctx, tx, booked.entry); err != nil {
			return err
		}
		entry = s.activity.Entry(actor, domain.ActionQuotationConverted, domain.EntityQuotation, quotation.ID,
			fmt.Sprintf("Converted quotation %s into an event", quotation.Title))
		return s.activity.AppendTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, storageErr("convert quotation", err)
	}

	booked.committed(ctx, s.activity, s.mirror)
	s.activity.Published(ctx, entry)
	return &ConversionResult{Quotation: quotation, Event: booked.view()}, nil
}
