package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"showup/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		nextID:  1,
	}
}

func (f *fakeAccountRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeHasher "hashes" by concatenation so tests can assert without bcrypt.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}

func newUserService() (domain.UserService, *fakeAccountRepo) {
	repo := newFakeAccountRepo()
	return NewUserService(repo, fakeHasher{}, fakeIssuer{}, time.Hour), repo
}

func TestUserServiceSignUp(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "Alice@Example.com", "secret-password", " Alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized")
	assert.Equal(t, "Alice", user.Name)
	assert.NotEmpty(t, user.ID)

	_, err = svc.SignUp(ctx, "alice@example.com", "secret-password", "Alice")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.SignUp(ctx, "not-an-email", "secret-password", "X")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SignUp(ctx, "bob@example.com", "short", "Bob")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserServiceLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "alice@example.com", "secret-password", "Alice")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "token-"+user.ID, token)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.Error(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "secret-password")
	assert.Error(t, err)
}

func TestUserServiceGetByID(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "alice@example.com", "secret-password", "Alice")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
