package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/logger"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
	"github.com/GoArmGo/LibraryApp/internal/testutil"
)

func seedUser(t *testing.T, store *testutil.Store, name string) int64 {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@x.com", PasswordHash: "digest"}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u.ID
}

func TestLoans_CreateListReturn(t *testing.T) {
	store := testutil.NewStore()
	pub := &testutil.RecordingPublisher{}
	uc := NewLoanUseCase(store, pub, logger.Discard())
	ctx := context.Background()
	alice := seedUser(t, store, "alice")

	isbn := "9780441013593"
	dune, err := uc.CreateLoan(ctx, alice, "Dune", &isbn)
	require.NoError(t, err)
	emma, err := uc.CreateLoan(ctx, alice, "Emma", nil)
	require.NoError(t, err)

	loans, err := uc.ListMyLoans(ctx, alice)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, emma.ID, loans[0].ID, "newest first")
	assert.Equal(t, dune.ID, loans[1].ID)

	returned, err := uc.ReturnLoan(ctx, alice, dune.ID)
	require.NoError(t, err)
	assert.True(t, returned.Returned())

	_, err = uc.ReturnLoan(ctx, alice, dune.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyReturned)

	events := pub.Events()
	require.Len(t, events, 3)
	assert.Equal(t, payloads.LoanCreated, events[0].Event)
	assert.Equal(t, dune.ID, events[0].LoanID)
	assert.Equal(t, payloads.LoanReturned, events[2].Event)
}

func TestLoans_ForeignLoanIsNotFound(t *testing.T) {
	store := testutil.NewStore()
	uc := NewLoanUseCase(store, &testutil.RecordingPublisher{}, logger.Discard())
	ctx := context.Background()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")

	loan, err := uc.CreateLoan(ctx, alice, "Dune", nil)
	require.NoError(t, err)

	_, err = uc.ReturnLoan(ctx, bob, loan.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bobs, err := uc.ListMyLoans(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)
}

func TestLoans_MissingUser(t *testing.T) {
	uc := NewLoanUseCase(testutil.NewStore(), &testutil.RecordingPublisher{}, logger.Discard())

	_, err := uc.CreateLoan(context.Background(), 404, "Dune", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoans_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := testutil.NewStore()
	pub := &testutil.RecordingPublisher{Err: errors.New("broker down")}
	uc := NewLoanUseCase(store, pub, logger.Discard())
	alice := seedUser(t, store, "alice")

	loan, err := uc.CreateLoan(context.Background(), alice, "Dune", nil)
	require.NoError(t, err)
	assert.NotZero(t, loan.ID)
	assert.Len(t, pub.Events(), 1)
}
