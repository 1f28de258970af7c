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

// PaymentService defines the interface for payment operations
type PaymentService interface {
	// Create records a payment, decrements the event balance and logs it in one transaction
	Create(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*domain.Payment, error)
	List(ctx context.Context, firmID string) ([]*domain.PaymentWithEvent, error)
}

type paymentService struct {
	store    repository.Store
	activity *ActivityRecorder
	mirror   sheets.Mirror
	now      func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(store repository.Store, activity *ActivityRecorder, mirror sheets.Mirror) PaymentService {
	return &paymentService{store: store, activity: activity, mirror: mirror, now: time.Now}
}

func (s *paymentService) Create(ctx context.Context, actor Actor, req *dto.CreatePaymentRequest) (*domain.Payment, error) {
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	var paymentDate time.Time
	if req.PaymentDate != "" {
		if paymentDate, err = dto.ParseDate("paymentDate", req.PaymentDate); err != nil {
			return nil, err
		}
	}

	now := s.now()
	payment, err := domain.NewPayment(domain.NewPaymentParams{
		ID:            uuid.New().String(),
		FirmID:        actor.FirmID,
		EventID:       req.EventID,
		ReceivedBy:    actor.UserID,
		Amount:        req.Amount,
		PaymentMethod: method,
		PaymentDate:   paymentDate,
		Notes:         req.Notes,
	}, now)
	if err != nil {
		return nil, err
	}

	var (
		event *domain.Event
		entry *domain.ActivityLog
	)
	err = s.store.WithTx(ctx, func(tx repository.Repositories) error {
		var err error
		event, err = tx.Events().GetByIDForUpdate(ctx, payment.EventID)
		if err != nil {
			return err
		}
		if event == nil || event.FirmID != actor.FirmID {
			return ErrEventNotFound
		}
		if err := event.ApplyPayment(payment.Amount, now); err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}
		if err := tx.Events().UpdateBalance(ctx, event.ID, event.BalanceAmount, now); err != nil {
			return err
		}
		entry = s.activity.Entry(actor, domain.ActionPaymentReceived, domain.EntityPayment, payment.ID,
			fmt.Sprintf("Received %s via %s for %s", payment.Amount.StringFixed(2), payment.PaymentMethod, event.Title))
		return s.activity.AppendTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, storageErr("create payment", err)
	}

	s.activity.Published(ctx, entry)
	s.mirror.Enqueue(sheets.PaymentRow(payment, event.Title))
	return payment, nil
}

func (s *paymentService) List(ctx context.Context, firmID string) ([]*domain.PaymentWithEvent, error) {
	payments, err := s.store.Payments().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	return payments, nil
}
