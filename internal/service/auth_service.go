package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"go.uber.org/zap"
)

const pinGenerationAttempts = 10

// LoginResult is a successful login with its new session
type LoginResult struct {
	User    *domain.User
	Firm    *domain.Firm
	Session *IssuedSession
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Login accepts either firm PIN + username + password or email + password
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
	// LoginWithEmail resolves the user globally and the firm from the user
	LoginWithEmail(ctx context.Context, req *dto.EmailLoginRequest) (*LoginResult, error)
	// Signup registers a user; admins get a new firm. It does not log in.
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error)
	// Logout destroys the session
	Logout(ctx context.Context, sessionID string) error
	// Me returns the session user and firm
	Me(ctx context.Context, userID string) (*dto.AuthResponse, error)
}

type authService struct {
	store    repository.Store
	sessions *SessionManager
	hasher   *PasswordHasher
	activity *ActivityRecorder
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(store repository.Store, sessions *SessionManager, hasher *PasswordHasher, activity *ActivityRecorder) AuthService {
	return &authService{
		store:    store,
		sessions: sessions,
		hasher:   hasher,
		activity: activity,
		log:      logger.Get(),
		now:      time.Now,
	}
}

// Login authenticates with firm PIN + username or falls through to email login
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.UsesPin() {
		return s.LoginWithEmail(ctx, &dto.EmailLoginRequest{Email: req.Email, Password: req.Password})
	}

	firm, err := s.store.Firms().GetByPin(ctx, strings.TrimSpace(req.FirmPin))
	if err != nil {
		return nil, storageErr("get firm by pin", err)
	}
	if firm == nil || !firm.IsActive {
		s.hasher.CompareMissing(req.Password)
		return nil, ErrInvalidCredentials
	}

	user, err := s.findMember(ctx, firm.ID, req.Username)
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, user, firm, req.Password)
}

// findMember resolves username within a firm: the full email, or the local part when it is unique
func (s *authService) findMember(ctx context.Context, firmID, username string) (*domain.User, error) {
	username = domain.NormalizeEmail(username)
	if username == "" {
		return nil, nil
	}

	members, err := s.store.Users().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list firm users", err)
	}

	var byLocal []*domain.User
	for _, u := range members {
		if u.Email == username {
			return u, nil
		}
		if strings.ToLower(u.EmailLocalPart()) == username {
			byLocal = append(byLocal, u)
		}
	}
	if len(byLocal) == 1 {
		return byLocal[0], nil
	}
	return nil, nil
}

// LoginWithEmail authenticates by email and password
func (s *authService) LoginWithEmail(ctx context.Context, req *dto.EmailLoginRequest) (*LoginResult, error) {
	user, err := s.store.Users().GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		return nil, storageErr("get user by email", err)
	}

	var firm *domain.Firm
	if user != nil && user.FirmID != nil {
		firm, err = s.store.Firms().GetByID(ctx, *user.FirmID)
		if err != nil {
			return nil, storageErr("get firm", err)
		}
		if firm == nil || !firm.IsActive {
			s.hasher.CompareMissing(req.Password)
			return nil, ErrInvalidCredentials
		}
	}
	return s.complete(ctx, user, firm, req.Password)
}

// complete checks the password and opens a session
func (s *authService) complete(ctx context.Context, user *domain.User, firm *domain.Firm, password string) (*LoginResult, error) {
	if user == nil {
		s.hasher.CompareMissing(password)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Compare(user.PasswordHash, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if firm != nil && !user.BelongsTo(firm.ID) {
		return nil, ErrInvalidCredentials
	}

	firmID := ""
	if firm != nil {
		firmID = firm.ID
	}
	session, err := s.sessions.Create(ctx, user.ID, firmID)
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("firm_id", firmID),
	)
	return &LoginResult{User: user, Firm: firm, Session: session}, nil
}

// Signup registers a new user
func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < MinPasswordLength {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	existing, err := s.store.Users().GetByEmail(ctx, domain.NormalizeEmail(req.Email))
	if err != nil {
		return nil, storageErr("get user by email", err)
	}
	if existing != nil {
		return nil, ErrAccountCreation
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if role.RequiresFirm() {
		return s.signupStaff(ctx, req, role, hash)
	}
	return s.signupAdmin(ctx, req, hash)
}

func (s *authService) signupStaff(ctx context.Context, req *dto.SignupRequest, role domain.Role, hash string) (*dto.SignupResponse, error) {
	if req.FirmID == nil || strings.TrimSpace(*req.FirmID) == "" {
		return nil, domain.NewValidationError("firmId", "is required for non-admin roles")
	}
	firm, err := s.store.Firms().GetByID(ctx, strings.TrimSpace(*req.FirmID))
	if err != nil {
		return nil, storageErr("get firm", err)
	}
	if firm == nil || !firm.IsActive {
		return nil, domain.NewValidationError("firmId", "does not name an active firm")
	}

	now := s.now()
	user, err := domain.NewUser(domain.NewUserParams{
		ID:           uuid.New().String(),
		FirmID:       &firm.ID,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountCreation
		}
		return nil, storageErr("create user", err)
	}

	s.activity.Record(ctx, s.activity.Entry(Actor{UserID: user.ID, FirmID: firm.ID},
		domain.ActionTeamMemberAdded, domain.EntityUser, user.ID,
		fmt.Sprintf("%s joined as %s", user.FullName(), role.Label())))

	return &dto.SignupResponse{User: user, Firm: firm}, nil
}

func (s *authService) signupAdmin(ctx context.Context, req *dto.SignupRequest, hash string) (*dto.SignupResponse, error) {
	firmName := strings.TrimSpace(req.FirmName)
	if firmName == "" {
		firmName = fmt.Sprintf("%s %s Studio", strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	}
	pin, err := s.choosePin(ctx, req.FirmPin)
	if err != nil {
		return nil, err
	}

	now := s.now()
	firm, err := domain.NewFirm(uuid.New().String(), firmName, pin, now)
	if err != nil {
		return nil, err
	}
	user, err := domain.NewUser(domain.NewUserParams{
		ID:           uuid.New().String(),
		FirmID:       &firm.ID,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         domain.RoleAdmin,
	}, now)
	if err != nil {
		return nil, err
	}

	entry := s.activity.Entry(Actor{UserID: user.ID, FirmID: firm.ID},
		domain.ActionFirmCreated, domain.EntityFirm, firm.ID,
		fmt.Sprintf("Firm %s created by %s", firm.Name, user.FullName()))

	err = s.store.WithTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Firms().Create(ctx, firm); err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return s.activity.AppendTx(ctx, tx, entry)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountCreation
		}
		return nil, storageErr("create admin account", err)
	}
	s.activity.Published(ctx, entry)

	s.log.WithContext(ctx).Info("admin signed up with new firm",
		zap.String("user_id", user.ID),
		zap.String("firm_id", firm.ID),
	)
	return &dto.SignupResponse{User: user, Firm: firm}, nil
}

// choosePin validates a requested pin or generates an unused 6-digit one
func (s *authService) choosePin(ctx context.Context, requested string) (string, error) {
	if requested = strings.TrimSpace(requested); requested != "" {
		if err := domain.ValidatePin(requested); err != nil {
			return "", err
		}
		taken, err := s.store.Firms().ExistsByPin(ctx, requested)
		if err != nil {
			return "", storageErr("check pin", err)
		}
		if taken {
			return "", domain.NewValidationError("firmPin", "is already in use")
		}
		return requested, nil
	}

	for i := 0; i < pinGenerationAttempts; i++ {
		pin, err := randomPin()
		if err != nil {
			return "", err
		}
		taken, err := s.store.Firms().ExistsByPin(ctx, pin)
		if err != nil {
			return "", storageErr("check pin", err)
		}
		if !taken {
			return pin, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique firm pin: %w", domain.ErrConflict)
}

func randomPin() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Logout destroys the session
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// Me returns the current user and firm
func (s *authService) Me(ctx context.Context, userID string) (*dto.AuthResponse, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("get user", err)
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthenticated
	}

	resp := &dto.AuthResponse{User: user}
	if user.FirmID != nil {
		firm, err := s.store.Firms().GetByID(ctx, *user.FirmID)
		if err != nil {
			return nil, storageErr("get firm", err)
		}
		resp.Firm = firm
	}
	return resp, nil
}
