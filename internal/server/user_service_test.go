package server

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govgate/govgate/internal/config"
	"github.com/govgate/govgate/internal/db"
)

type fakeUserStore struct {
	usersByID    map[uuid.UUID]*db.User
	usersByEmail map[string]*db.User
	hashes       map[uuid.UUID]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		usersByID:    make(map[uuid.UUID]*db.User),
		usersByEmail: make(map[string]*db.User),
		hashes:       make(map[uuid.UUID]string),
	}
}

func (f *fakeUserStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	_, ok := f.usersByEmail[email]
	return ok, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	id := uuid.New()
	user := &db.User{ID: id, Name: name, Email: email}
	f.usersByID[id] = user
	f.usersByEmail[email] = user
	return id, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.hashes[id] = passwordHash
	if u, ok := f.usersByID[id]; ok {
		u.PasswordSet = true
	}
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	return f.usersByID[id], nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, string, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return nil, "", nil
	}
	return user, f.hashes[user.ID], nil
}

func newTestUserService() (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	return NewUserService(store, &config.PasswordConfig{BcryptCost: 10}), store
}

func TestRegister_Success(t *testing.T) {
	svc, store := newTestUserService()

	user, err := svc.Register(context.Background(), "Ada", "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, user.PasswordSet)

	// Password is stored hashed
	hash := store.hashes[user.ID]
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Imposter", "ada@example.com", "password456")
	var dup *ErrEmailAlreadyExists
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "ada@example.com", dup.Email)
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestUserService()

	registered, err := svc.Register(context.Background(), "Ada", "ada@example.com", "password123")
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "ada@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrong")
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestLogin_NoPasswordSet(t *testing.T) {
	svc, store := newTestUserService()

	// Users created outside registration (e.g. seeding) have no password
	_, err := store.CreateUser(context.Background(), "Seed", "seed@govgate.local")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "seed@govgate.local", "anything")
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}
