package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFirmlessAdmin(t *testing.T, f *fixture, email string) *domain.User {
	t.Helper()
	hash, err := f.hasher.Hash("correct-horse")
	require.NoError(t, err)
	u, err := domain.NewUser(domain.NewUserParams{
		ID: uuid.NewString(), Email: email, PasswordHash: hash,
		FirstName: "Solo", LastName: "Owner", Phone: "9000000001", Role: domain.RoleAdmin,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func TestFirmService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := seedFirmlessAdmin(t, f, "solo@studio.com")

	firm, err := f.firms.Create(ctx, user.ID, &dto.CreateFirmRequest{Name: "Solo Studio", Pin: "7788"})
	require.NoError(t, err)

	stored, err := f.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, firm.ID, stored.FirmIDValue())
	assert.Equal(t, 1, countAction(f.activityFor(t, firm.ID), domain.ActionFirmCreated))

	_, err = f.firms.Create(ctx, user.ID, &dto.CreateFirmRequest{Name: "Second Studio", Pin: "7789"})
	assert.ErrorIs(t, err, ErrFirmAlreadyAssigned)
}

// staleUserRepo serves user reads that miss a concurrent firm assignment
type staleUserRepo struct{ repository.UserRepository }

func (r staleUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := r.UserRepository.GetByID(ctx, id)
	if u != nil {
		u.FirmID = nil
	}
	return u, err
}

type staleUserStore struct {
	*repository.MemoryStore
}

func (s staleUserStore) Users() repository.UserRepository {
	return staleUserRepo{s.MemoryStore.Users()}
}

func TestFirmService_CreateAfterConcurrentAssignment(t *testing.T) {
	memory := repository.NewMemoryStore()
	f := newFixtureWithStore(t, memory, staleUserStore{memory})
	ctx := context.Background()
	user := seedFirmlessAdmin(t, f, "solo@studio.com")

	first, err := f.firms.Create(ctx, user.ID, &dto.CreateFirmRequest{Name: "Solo Studio", Pin: "7788"})
	require.NoError(t, err)

	_, err = f.firms.Create(ctx, user.ID, &dto.CreateFirmRequest{Name: "Second Studio", Pin: "7789"})
	assert.ErrorIs(t, err, ErrFirmAlreadyAssigned)

	list, err := f.firms.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1, "the losing firm is rolled back")
	assert.Equal(t, first.ID, list[0].ID)

	stored, err := memory.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.FirmIDValue())
}

func TestFirmService_CreateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, firm := f.signupAdmin(t, "owner@studio.com")
	staff := f.addStaff(t, admin, "ravi@studio.com", "photographer")
	solo := seedFirmlessAdmin(t, f, "solo@studio.com")

	_, err := f.firms.Create(ctx, staff.ID, &dto.CreateFirmRequest{Name: "Side Gig", Pin: "1111"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.firms.Create(ctx, solo.ID, &dto.CreateFirmRequest{Name: "Copycat", Pin: firm.Pin})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.firms.Create(ctx, "ghost", &dto.CreateFirmRequest{Name: "Ghost", Pin: "2222"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFirmService_ListPublic(t *testing.T) {
	f := newFixture(t)
	_, firm := f.signupAdmin(t, "owner@studio.com")

	list, err := f.firms.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.FirmSummary{ID: firm.ID, Name: firm.Name}, list[0])
}

func TestTeamService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, _ := f.signupAdmin(t, "owner@studio.com")

	staff := f.addStaff(t, admin, "ravi@studio.com", "videographer")
	assert.Equal(t, admin.FirmID, staff.FirmIDValue())

	team, err := f.team.List(ctx, admin.FirmID)
	require.NoError(t, err)
	assert.Len(t, team, 2)

	_, err = f.team.Add(ctx, Actor{UserID: staff.ID, FirmID: admin.FirmID}, &dto.CreateTeamMemberRequest{
		Email: "x@studio.com", Password: "long-enough", FirstName: "Xa", LastName: "Yz", Phone: "9000000002", Role: "editor",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.team.Add(ctx, admin, &dto.CreateTeamMemberRequest{
		Email: "boss2@studio.com", Password: "long-enough", FirstName: "Xa", LastName: "Yz", Phone: "9000000002", Role: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.team.Add(ctx, admin, &dto.CreateTeamMemberRequest{
		Email: "ravi@studio.com", Password: "long-enough", FirstName: "Xa", LastName: "Yz", Phone: "9000000002", Role: "editor",
	})
	assert.ErrorIs(t, err, ErrAccountCreation)
}
