package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/testutil"
)

func newAuth(t *testing.T, users ports.UserStorage) (AuthUseCase, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("secret", time.Minute, nil)
	return NewAuthUseCase(users, auth.NewPasswordHasher(bcrypt.MinCost), tokens, logger.Discard()), tokens
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	store := testutil.NewStore()
	uc, tokens := newAuth(t, store)
	ctx := context.Background()

	user, err := uc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	token, err := uc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuth_RegisterConflicts(t *testing.T) {
	store := testutil.NewStore()
	uc, _ := newAuth(t, store)
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "alice", "other@x.com", "pw2")
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "username", conflict.Field)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Register(ctx, "bob", "a@x.com", "pw2")
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)

	assert.Equal(t, 1, store.Users(), "conflicting registrations must not create users")
}

// racyUsers проходит проверки, но вставка натыкается на уникальный индекс
type racyUsers struct {
	*testutil.Store
}

func (racyUsers) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (racyUsers) ExistsByEmail(context.Context, string) (bool, error)    { return false, nil }

func TestAuth_RegisterInsertRaceIsConflict(t *testing.T) {
	store := testutil.NewStore()
	require.NoError(t, store.CreateUser(context.Background(), &domain.User{Username: "alice", Email: "a@x.com"}))

	uc, _ := newAuth(t, racyUsers{store})
	_, err := uc.Register(context.Background(), "alice", "a@x.com", "pw1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	store := testutil.NewStore()
	uc, _ := newAuth(t, store)
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, errUnknown := uc.Login(ctx, "mallory", "pw1")
	_, errBadPassword := uc.Login(ctx, "alice", "wrong")

	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errBadPassword, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errBadPassword.Error())
}

func TestAuth_RegisterPasswordOverBcryptLimit(t *testing.T) {
	store := testutil.NewStore()
	uc, _ := newAuth(t, store)

	// 40 символов, но 80 байт в UTF-8
	_, err := uc.Register(context.Background(), "alice", "a@x.com", strings.Repeat("й", 40))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
	assert.Zero(t, store.Users())
}
