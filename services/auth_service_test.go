package services

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/donely-api/dto"
	"github.com/donely-api/lib/mailer"
	"github.com/donely-api/lib/sessions"
	"github.com/donely-api/models"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last(t *testing.T) mailer.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

// flakyStore fails IsRevoked a fixed number of times before delegating
type flakyStore struct {
	*sessions.MemoryStore
	mu       sync.Mutex
	failures int
	calls    int
}

func (s *flakyStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	s.calls++
	fail := s.calls <= s.failures
	s.mu.Unlock()
	if fail {
		return false, errors.New("redis: connection refused")
	}
	return s.MemoryStore.IsRevoked(ctx, tokenID)
}

var resetLink = regexp.MustCompile(`token=([^"&]+)`)

type authFixture struct {
	*fixture
	auth     *AuthService
	sessions *flakyStore
	mail     *recordingMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := newFixture(t)
	store := &flakyStore{MemoryStore: sessions.NewMemoryStore()}
	mail := &recordingMailer{}
	auth := NewAuthService(f.store.Profiles(), f.store.Access(), store, mail, AuthConfig{
		Secret:   "test-secret-with-enough-length",
		TokenTTL: time.Hour,
		ResetTTL: 30 * time.Minute,
		AppURL:   "http://app.test",
	})
	return &authFixture{fixture: f, auth: auth, sessions: store, mail: mail}
}

func (f *authFixture) profile(t *testing.T, email, password string, role models.Role) models.Profile {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	profile := models.Profile{Email: email, Password: string(hash), Name: "Test", Role: role, Active: true}
	require.NoError(t, f.store.Profiles().Create(context.Background(), &profile))
	return profile
}

func (f *authFixture) tokenFromMail(t *testing.T) string {
	t.Helper()
	match := resetLink.FindStringSubmatch(f.mail.last(t).HTML)
	require.Len(t, match, 2)
	token, err := url.QueryUnescape(match[1])
	require.NoError(t, err)
	return token
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.profile(t, "admin@example.com", "correct-horse", models.RoleAdmin)

	resp, err := f.auth.Login(ctx, dto.LoginRequest{Email: "Admin@Example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	claims, err := f.auth.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.NotEmpty(t, claims.ID)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestLoginRejectsInactiveProfiles(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	client := f.profile(t, "c@example.com", "password123", models.RoleClient)
	require.NoError(t, f.store.Profiles().SetActive(ctx, client.ID, false))

	_, err := f.auth.Login(ctx, dto.LoginRequest{Email: "c@example.com", Password: "password123"})
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestClientLoginStampsLastLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	client := f.profile(t, "c@example.com", "password123", models.RoleClient)
	project := f.project(t, "Portal")
	access, err := f.access.Grant(ctx, project.ID, client.ID)
	require.NoError(t, err)
	assert.Nil(t, access.LastLoginAt)

	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	f.auth.now = func() time.Time { return now }

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "c@example.com", Password: "password123"})
	require.NoError(t, err)

	stored, err := f.store.Access().FindByID(ctx, access.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, now, *stored.LastLoginAt)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.profile(t, "a@example.com", "password123", models.RoleAdmin)

	token, _, err := f.auth.GenerateToken(user)
	require.NoError(t, err)

	_, err = f.auth.ValidateToken(ctx, token+"x")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	other := NewAuthService(f.store.Profiles(), f.store.Access(), f.sessions, f.mail, AuthConfig{Secret: "another-secret-entirely", TokenTTL: time.Hour})
	_, err = other.ValidateToken(ctx, token)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	f.auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = f.auth.ValidateToken(ctx, token)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.profile(t, "a@example.com", "password123", models.RoleAdmin)
	token, _, err := f.auth.GenerateToken(user)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, token))

	_, err = f.auth.ValidateToken(ctx, token)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	session := f.auth.ResolveSession(ctx, token)
	assert.Equal(t, string(SessionUnauthenticated), session.State)

	// Garbage or empty tokens are a no-op
	assert.NoError(t, f.auth.Logout(ctx, ""))
	assert.NoError(t, f.auth.Logout(ctx, "not-a-jwt"))
}

func TestResolveSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.profile(t, "a@example.com", "password123", models.RoleClient)
	token, expiresAt, err := f.auth.GenerateToken(user)
	require.NoError(t, err)

	session := f.auth.ResolveSession(ctx, token)
	assert.Equal(t, string(SessionAuthenticated), session.State)
	require.NotNil(t, session.User)
	assert.Equal(t, user.ID, session.User.ID)
	require.NotNil(t, session.ExpiresAt)
	assert.WithinDuration(t, expiresAt, *session.ExpiresAt, time.Second)

	assert.Equal(t, string(SessionUnauthenticated), f.auth.ResolveSession(ctx, "").State)
	assert.Equal(t, string(SessionUnauthenticated), f.auth.ResolveSession(ctx, "garbage").State)

	require.NoError(t, f.store.Profiles().SetActive(ctx, user.ID, false))
	assert.Equal(t, string(SessionUnauthenticated), f.auth.ResolveSession(ctx, token).State)
}

func TestResolveSessionRetriesTransientFailures(t *testing.T) {
	f := newAuthFixture(t)
	user := f.profile(t, "a@example.com", "password123", models.RoleAdmin)
	token, _, err := f.auth.GenerateToken(user)
	require.NoError(t, err)

	f.sessions.failures = 1
	session := f.auth.ResolveSession(context.Background(), token)
	assert.Equal(t, string(SessionAuthenticated), session.State)
	assert.Equal(t, 2, f.sessions.calls)
}

func TestResolveSessionReportsPersistentFailure(t *testing.T) {
	f := newAuthFixture(t)
	user := f.profile(t, "a@example.com", "password123", models.RoleAdmin)
	token, _, err := f.auth.GenerateToken(user)
	require.NoError(t, err)

	f.sessions.failures = 100
	session := f.auth.ResolveSession(context.Background(), token)
	assert.Equal(t, string(SessionError), session.State)
	assert.NotEmpty(t, session.Error)
	assert.Nil(t, session.User)
	assert.Equal(t, sessionTries, f.sessions.calls)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.profile(t, "c@example.com", "old-password", models.RoleClient)

	f.auth.RequestPasswordReset(ctx, "nobody@example.com")
	assert.Empty(t, f.mail.sent)

	f.auth.RequestPasswordReset(ctx, "C@example.com")
	msg := f.mail.last(t)
	assert.Equal(t, "c@example.com", msg.To)
	assert.Contains(t, msg.HTML, "http://app.test/reset-password?token=")
	token := f.tokenFromMail(t)

	require.NoError(t, f.auth.ConfirmPasswordReset(ctx, dto.PasswordResetConfirmRequest{Token: token, NewPassword: "new-password"}))

	// Tokens are single use
	err := f.auth.ConfirmPasswordReset(ctx, dto.PasswordResetConfirmRequest{Token: token, NewPassword: "another-one"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "c@example.com", Password: "new-password"})
	assert.NoError(t, err)
	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "c@example.com", Password: "old-password"})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.profile(t, "a@example.com", "old-password", models.RoleAdmin)

	_, err := f.auth.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-password"})
	assert.True(t, errors.Is(err, ErrValidation))

	resetSent, err := f.auth.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"})
	require.NoError(t, err)
	assert.False(t, resetSent)

	_, err = f.auth.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestChangePasswordFallsBackToResetEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.profile(t, "a@example.com", "old-password", models.RoleAdmin)

	f.store.Fail = errors.New("database is read-only")
	resetSent, err := f.auth.ChangePassword(ctx, user.ID, dto.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"})
	f.store.Fail = nil
	require.NoError(t, err)
	assert.True(t, resetSent)
	assert.Equal(t, "a@example.com", f.mail.last(t).To)
	assert.NotEmpty(t, f.tokenFromMail(t))
}

func TestValidateTokenRejectsDeactivatedAndDeletedProfiles(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	client := f.profile(t, "c@example.com", "password123", models.RoleClient)
	token, _, err := f.auth.GenerateToken(client)
	require.NoError(t, err)

	_, err = f.auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	_, err = f.clients.ToggleActive(ctx, client.ID)
	require.NoError(t, err)
	_, err = f.auth.ValidateToken(ctx, token)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = f.clients.ToggleActive(ctx, client.ID)
	require.NoError(t, err)
	_, err = f.auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, f.clients.DeleteClient(ctx, client.ID))
	_, err = f.auth.ValidateToken(ctx, token)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestLoginUnknownEmailUsesFullCostHash(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash())
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestResetEmailEscapesName(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	profile := models.Profile{Email: "x@example.com", Password: string(hash), Name: `<img src=x onerror="a()"> & Co`, Role: models.RoleClient, Active: true}
	require.NoError(t, f.store.Profiles().Create(ctx, &profile))

	f.auth.RequestPasswordReset(ctx, "x@example.com")
	msg := f.mail.last(t)
	assert.NotContains(t, msg.HTML, "<img")
	assert.Contains(t, msg.HTML, "&lt;img src=x onerror=&#34;a()&#34;&gt; &amp; Co")
	assert.NotEmpty(t, f.tokenFromMail(t))
}
