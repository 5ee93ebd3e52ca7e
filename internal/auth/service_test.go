package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpereira/invoicer/internal/auth"
	"github.com/mpereira/invoicer/internal/validate"
)

// Mock Repository
type mockRepo struct {
	users map[string]*auth.User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]*auth.User)}
}

func (m *mockRepo) CreateUser(_ context.Context, u *auth.User) error {
	if _, exists := m.users[u.Email]; exists {
		return auth.ErrEmailTaken
	}

	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	m.users[u.Email] = u

	return nil
}

func (m *mockRepo) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	return u, nil
}

func newService(repo auth.Repository) *auth.Service {
	return auth.NewService(repo, auth.NewTokenIssuer("test-secret", time.Hour))
}

func TestService_RegisterAndLogin(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	u, err := svc.Register(context.Background(), auth.RegisterParams{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "correct horse", u.PasswordHash, "password must be stored hashed")

	loggedIn, token, err := svc.Login(context.Background(), auth.LoginParams{
		Email:    "maria@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, loggedIn.ID)

	userID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), auth.RegisterParams{
		Name:     "Maria",
		Email:    "maria@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), auth.LoginParams{
		Email:    "maria@example.com",
		Password: "wrong horse",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc := newService(newMockRepo())

	_, _, err := svc.Login(context.Background(), auth.LoginParams{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Register_Validation(t *testing.T) {
	type testCase struct {
		name      string
		params    auth.RegisterParams
		wantField string
	}

	tests := []testCase{
		{
			name:      "MissingEmail",
			params:    auth.RegisterParams{Name: "Maria", Password: "longenough"},
			wantField: "email",
		},
		{
			name:      "ShortPassword",
			params:    auth.RegisterParams{Name: "Maria", Email: "m@example.com", Password: "short"},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newMockRepo())

			u, err := svc.Register(context.Background(), tt.params)
			assert.Nil(t, u)

			var vErr *validate.Error
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.wantField)
		})
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	params := auth.RegisterParams{Name: "Maria", Email: "maria@example.com", Password: "longenough"}

	_, err := svc.Register(context.Background(), params)
	require.NoError(t, err)

	u, err := svc.Register(context.Background(), params)
	assert.Nil(t, u)

	var vErr *validate.Error
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "email")
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := auth.NewTokenIssuer("secret-a", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = auth.NewTokenIssuer("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	_, err := auth.NewTokenIssuer("secret", time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
