package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
)

// FirmService defines the interface for firm operations
type FirmService interface {
	// ListPublic returns active firms as {id, name} for the signup form
	ListPublic(ctx context.Context) ([]domain.FirmSummary, error)
	// Create lets an admin without a firm create one and join it
	Create(ctx context.Context, userID string, req *dto.CreateFirmRequest) (*domain.Firm, error)
}

type firmService struct {
	store    repository.Store
	activity *ActivityRecorder
	now      func() time.Time
}

// NewFirmService creates a new FirmService
func NewFirmService(store repository.Store, activity *ActivityRecorder) FirmService {
	return &firmService{store: store, activity: activity, now: time.Now}
}

// ListPublic returns active firms without their pins
func (s *firmService) ListPublic(ctx context.Context) ([]domain.FirmSummary, error) {
	firms, err := s.store.Firms().ListActive(ctx)
	if err != nil {
		return nil, storageErr("list firms", err)
	}
	out := make([]domain.FirmSummary, 0, len(firms))
	for _, f := range firms {
		out = append(out, f.Summary())
	}
	return out, nil
}

// Create creates a firm owned by an admin who has none yet
func (s *firmService) Create(ctx context.Context, userID string, req *dto.CreateFirmRequest) (*domain.Firm, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("get user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Role.CanManageTeam() {
		return nil, ErrAdminOnly
	}
	if user.FirmID != nil {
		return nil, ErrFirmAlreadyAssigned
	}

	firm, err := domain.NewFirm(uuid.New().String(), req.Name, req.Pin, s.now())
	if err != nil {
		return nil, err
	}
	taken, err := s.store.Firms().ExistsByPin(ctx, firm.Pin)
	if err != nil {
		return nil, storageErr("check pin", err)
	}
	if taken {
		return nil, domain.NewValidationError("pin", "is already in use")
	}

	entry := s.activity.Entry(Actor{UserID: user.ID, FirmID: firm.ID},
		domain.ActionFirmCreated, domain.EntityFirm, firm.ID,
		fmt.Sprintf("Firm %s created by %s", firm.Name, user.FullName()))

	err = s.store.WithTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Firms().Create(ctx, firm); err != nil {
			return err
		}
		if err := tx.Users().SetFirm(ctx, user.ID, firm.ID); err != nil {
			return err
		}
		return s.activity.AppendTx(ctx, tx, entry)
	})
	if errors.Is(err, repository.ErrFirmAssigned) {
		return nil, ErrFirmAlreadyAssigned
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, domain.NewValidationError("pin", "is already in use")
	}
	if err != nil {
		return nil, storageErr("create firm", err)
	}
	s.activity.Published(ctx, entry)
	return firm, nil
}

// firmMember loads userID and checks it belongs to firmID; anything else reads as not found
func firmMember(ctx context.Context, users repository.UserRepository, firmID, userID string, notFound error) (*domain.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, notFound
	}
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("get user", err)
	}
	if u == nil || !u.BelongsTo(firmID) {
		return nil, notFound
	}
	return u, nil
}
