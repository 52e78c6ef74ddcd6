package user

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"accident-service/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*UserProfile
	err   error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*UserProfile)}
}

func (m *memUserRepo) FindByID(_ context.Context, userID string) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) AddDeviceToken(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[userID]
	if !ok {
		u = &UserProfile{UserID: userID}
		m.users[userID] = u
	}
	u.DeviceTokens = unionTokens(u.DeviceTokens, []string{token})
	u.PreventionEnabled = true
	return nil
}

func (m *memUserRepo) SetEmergencyContacts(_ context.Context, userID string, contacts []Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, userID)
	}
	u.EmergencyContacts = contacts
	return nil
}

func (m *memUserRepo) AddEmergencyContacts(_ context.Context, userID string, contacts []Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, userID)
	}
	for _, c := range contacts {
		dup := false
		for _, existing := range u.EmergencyContacts {
			if existing == c {
				dup = true
				break
			}
		}
		if !dup {
			u.EmergencyContacts = append(u.EmergencyContacts, c)
		}
	}
	return nil
}

func (m *memUserRepo) SetPrevention(_ context.Context, userID string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, userID)
	}
	u.PreventionEnabled = enabled
	return nil
}

func newTestUserService() (UserService, *memUserRepo) {
	repo := newMemUserRepo()
	return NewUserService(repo, zap.NewNop().Sugar()), repo
}

func TestRegisterDevice_TokensAreUnioned(t *testing.T) {
	svc, repo := newTestUserService()
	ctx := context.Background()

	require.NoError(t, svc.RegisterDevice(ctx, &RegisterDeviceRequest{UserID: "u1", Token: "tok-a"}))
	require.NoError(t, svc.RegisterDevice(ctx, &RegisterDeviceRequest{UserID: "u1", Token: "tok-a"}))
	require.NoError(t, svc.RegisterDevice(ctx, &RegisterDeviceRequest{UserID: "u1", Token: "tok-b"}))

	u := repo.users["u1"]
	assert.Equal(t, []string{"tok-a", "tok-b"}, u.DeviceTokens)
	assert.True(t, u.PreventionEnabled)
}

func TestRegisterDevice_Validation(t *testing.T) {
	svc, _ := newTestUserService()

	err := svc.RegisterDevice(context.Background(), &RegisterDeviceRequest{UserID: "u1"})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestUpdateContacts_ReplaceAndAppend(t *testing.T) {
	svc, repo := newTestUserService()
	ctx := context.Background()
	require.NoError(t, svc.RegisterDevice(ctx, &RegisterDeviceRequest{UserID: "u1", Token: "t"}))

	n, err := svc.UpdateContacts(ctx, &UpdateContactsRequest{UserID: "u1", Contacts: []ContactInput{
		{Phone: "+919342170059"}, {Name: "Mom", Phone: " +917338903743 "},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = svc.UpdateContacts(ctx, &UpdateContactsRequest{UserID: "u1", Append: true, Contacts: []ContactInput{
		{Name: "Mom", Phone: "+917338903743"}, {Name: "Dad", Phone: "+918888888888"},
	}})
	require.NoError(t, err)

	assert.Equal(t, []Contact{
		{Phone: "+919342170059"},
		{Name: "Mom", Phone: "+917338903743"},
		{Name: "Dad", Phone: "+918888888888"},
	}, repo.users["u1"].EmergencyContacts)
}

func TestUpdateContacts_RejectsInvalidPhone(t *testing.T) {
	svc, repo := newTestUserService()
	ctx := context.Background()
	require.NoError(t, svc.RegisterDevice(ctx, &RegisterDeviceRequest{UserID: "u1", Token: "t"}))

	_, err := svc.UpdateContacts(ctx, &UpdateContactsRequest{UserID: "u1", Contacts: []ContactInput{{Phone: "12345"}}})

	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, repo.users["u1"].EmergencyContacts)
}

func TestUpdateContacts_UnknownUser(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.UpdateContacts(context.Background(), &UpdateContactsRequest{UserID: "ghost", Contacts: []ContactInput{{Phone: "+919342170059"}}})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.GetProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	profile, err := svc.FindProfile(context.Background(), "ghost")
	assert.NoError(t, err)
	assert.Nil(t, profile)
}

func TestTogglePrevention(t *testing.T) {
	svc, repo := newTestUserService()
	ctx := context.Background()
	require.NoError(t, svc.RegisterDevice(ctx, &RegisterDeviceRequest{UserID: "u1", Token: "t"}))

	check, err := svc.TogglePrevention(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "off", check)
	assert.False(t, repo.users["u1"].PreventionEnabled)

	check, err = svc.TogglePrevention(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "on", check)
}
