package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
)

// TeamService defines the interface for managing a firm's staff
type TeamService interface {
	List(ctx context.Context, firmID string) ([]*domain.User, error)
	// Add creates a non-admin user in the actor's firm; admin only
	Add(ctx context.Context, actor Actor, req *dto.CreateTeamMemberRequest) (*domain.User, error)
}

type teamService struct {
	store    repository.Store
	hasher   *PasswordHasher
	activity *ActivityRecorder
	now      func() time.Time
}

// NewTeamService creates a new TeamService
func NewTeamService(store repository.Store, hasher *PasswordHasher, activity *ActivityRecorder) TeamService {
	return &teamService{store: store, hasher: hasher, activity: activity, now: time.Now}
}

// List returns the firm's users
func (s *teamService) List(ctx context.Context, firmID string) ([]*domain.User, error) {
	users, err := s.store.Users().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list team", err)
	}
	return users, nil
}

// Add creates a staff member
func (s *teamService) Add(ctx context.Context, actor Actor, req *dto.CreateTeamMemberRequest) (*domain.User, error) {
	admin, err := firmMember(ctx, s.store.Users(), actor.FirmID, actor.UserID, domain.ErrUnauthenticated)
	if err != nil {
		return nil, err
	}
	if !admin.Role.CanManageTeam() {
		return nil, ErrAdminOnly
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if !role.RequiresFirm() {
		return nil, domain.NewValidationError("role", "team members cannot be admins")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	firmID := actor.FirmID
	user, err := domain.NewUser(domain.NewUserParams{
		ID:           uuid.New().String(),
		FirmID:       &firmID,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
	}, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountCreation
		}
		return nil, storageErr("create team member", err)
	}

	s.activity.Record(ctx, s.activity.Entry(actor, domain.ActionTeamMemberAdded, domain.EntityUser, user.ID,
		fmt.Sprintf("Added %s as %s", user.FullName(), role.Label())))
	return user, nil
}
