package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) *StaticResolver {
	t.Helper()
	r, err := NewStaticResolver(
		User{Username: "admin", Password: "s3cret", Role: RoleAdmin},
		User{Username: "gestor", Password: "gestor-pass", Role: RoleManager},
	)
	require.NoError(t, err)
	return r
}

func TestStaticResolver_Resolve(t *testing.T) {
	r := newResolver(t)
	var _ PrincipalResolver = r

	tests := []struct {
		name     string
		username string
		password string
		want     Principal
		wantErr  error
	}{
		{"admin", "admin", "s3cret", Principal{Username: "admin", Role: RoleAdmin}, nil},
		{"manager", "gestor", "gestor-pass", Principal{Username: "gestor", Role: RoleManager}, nil},
		{"wrong password", "admin", "nope", Principal{}, ErrInvalidCredentials},
		{"swapped passwords", "gestor", "s3cret", Principal{}, ErrInvalidCredentials},
		{"unknown user", "root", "s3cret", Principal{}, ErrInvalidCredentials},
		{"empty", "", "", Principal{}, ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticResolver_CancelledContext(t *testing.T) {
	r := newResolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, "admin", "s3cret")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStaticResolver_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		users []User
	}{
		{"empty password", []User{{Username: "a", Role: RoleAdmin}}},
		{"empty username", []User{{Password: "p", Role: RoleAdmin}}},
		{"bad role", []User{{Username: "a", Password: "p", Role: "root"}}},
		{"duplicate", []User{
			{Username: "a", Password: "p", Role: RoleAdmin},
			{Username: "a", Password: "q", Role: RoleManager},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStaticResolver(tt.users...)
			assert.Error(t, err)
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("gestor")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)

	_, err = ParseRole("viewer")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	p := Principal{Username: "admin", Role: RoleAdmin}
	got, ok := PrincipalFromContext(WithPrincipal(context.Background(), p))
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.True(t, got.IsAdmin())
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	p := Principal{Username: "gestor", Role: RoleManager}
	sess := store.Create(p)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, now.Add(time.Hour), sess.ExpiresAt)

	got, err := store.Get(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, p, got.Principal)

	_, err = store.Get("unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	store.Delete(sess.Token)
	_, err = store.Get(sess.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore(time.Minute, nil)
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	expired := store.Create(Principal{Username: "a", Role: RoleAdmin})
	now = now.Add(30 * time.Second)
	live := store.Create(Principal{Username: "b", Role: RoleManager})
	now = now.Add(45 * time.Second)

	_, err := store.Get(expired.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(live.Token)
	assert.NoError(t, err)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultSessionTTL, NewSessionStore(0, nil).TTL())
}
