package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/internal/sheets"
)

// ClientService defines the interface for client operations
type ClientService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateClientRequest) (*domain.Client, error)
	List(ctx context.Context, firmID string) ([]*domain.Client, error)
	// Get loads a client by id without a firm filter; callers check ownership
	Get(ctx context.Context, id string) (*domain.Client, error)
}

type clientService struct {
	store    repository.Store
	activity *ActivityRecorder
	mirror   sheets.Mirror
	now      func() time.Time
}

// NewClientService creates a new ClientService
func NewClientService(store repository.Store, activity *ActivityRecorder, mirror sheets.Mirror) ClientService {
	return &clientService{store: store, activity: activity, mirror: mirror, now: time.Now}
}

func (s *clientService) Create(ctx context.Context, actor Actor, req *dto.CreateClientRequest) (*domain.Client, error) {
	client, err := domain.NewClient(uuid.New().String(), actor.FirmID,
		req.Name, req.Email, req.Phone, req.Address, req.Notes, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Clients().Create(ctx, client); err != nil {
		return nil, storageErr("create client", err)
	}

	s.activity.Record(ctx, s.activity.Entry(actor, domain.ActionClientAdded, domain.EntityClient, client.ID,
		"Added client "+client.Name))
	s.mirror.Enqueue(sheets.ClientRow(client))
	return client, nil
}

func (s *clientService) List(ctx context.Context, firmID string) ([]*domain.Client, error) {
	clients, err := s.store.Clients().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list clients", err)
	}
	return clients, nil
}

func (s *clientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.store.Clients().GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get client", err)
	}
	return client, nil
}

// firmClient loads a client referenced by another record; other firms' clients read as missing
func firmClient(ctx context.Context, clients repository.ClientRepository, firmID, clientID string) (*domain.Client, error) {
	c, err := clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, storageErr("get client", err)
	}
	if c == nil || c.FirmID != firmID {
		return nil, ErrClientNotFound
	}
	return c, nil
}
