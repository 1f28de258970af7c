package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	firm := "firm-1"
	valid := NewUserParams{
		ID: "user-1", FirmID: &firm, Email: " Asha@Example.com ", PasswordHash: "hash",
		FirstName: "Asha", LastName: "Rao", Phone: "9876543210", Role: RolePhotographer,
	}

	tests := []struct {
		name    string
		mutate  func(p *NewUserParams)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *NewUserParams) {}},
		{name: "admin without firm", mutate: func(p *NewUserParams) { p.Role = RoleAdmin; p.FirmID = nil }},
		{name: "staff without firm", mutate: func(p *NewUserParams) { p.FirmID = nil }, wantErr: true},
		{name: "bad email", mutate: func(p *NewUserParams) { p.Email = "not-an-email" }, wantErr: true},
		{name: "short first name", mutate: func(p *NewUserParams) { p.FirstName = "A" }, wantErr: true},
		{name: "short phone", mutate: func(p *NewUserParams) { p.Phone = "12345" }, wantErr: true},
		{name: "unknown role", mutate: func(p *NewUserParams) { p.Role = "owner" }, wantErr: true},
		{name: "no hash", mutate: func(p *NewUserParams) { p.PasswordHash = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			u, err := NewUser(p, time.Now())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "asha@example.com", u.Email)
			assert.Equal(t, "asha", u.EmailLocalPart())
			assert.True(t, u.IsActive)
		})
	}
}

func TestRole(t *testing.T) {
	for _, r := range Roles {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
		assert.NotEmpty(t, r.Label())
		assert.Equal(t, r != RoleAdmin, r.RequiresFirm())
		assert.Equal(t, r == RoleAdmin, r.CanManageTeam())
	}
	_, err := ParseRole("superuser")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewFirm(t *testing.T) {
	f, err := NewFirm("firm-1", " Lens Studio ", "1234", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Lens Studio", f.Name)
	assert.True(t, f.IsActive)
	assert.Equal(t, FirmSummary{ID: "firm-1", Name: "Lens Studio"}, f.Summary())

	_, err = NewFirm("firm-2", "X", "1234", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewFirm("firm-2", "Studio", "12", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
	_, err = NewFirm("firm-2", "Studio", "12-34", time.Now())
	assert.ErrorIs(t, err, ErrValidation)
}
