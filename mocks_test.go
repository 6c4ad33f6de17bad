package accounts_test

import (
	"context"
	"database/sql"

	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// MockRepositoryManager implements accounts.RepositoryManager
type MockRepositoryManager struct {
	mock.Mock
}

func (m *MockRepositoryManager) Validate() error { return nil }

func (m *MockRepositoryManager) MustValidate() {}

// RunInTx records the call, then runs the callback against a zero
// bun.Tx and returns its error, which is what bun does on rollback.
// Tests still declare the expectation; the Return value is ignored.
func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	m.Called(ctx, opts, f)
	var tx bun.Tx
	return f(ctx, tx)
}

func (m *MockRepositoryManager) Users() accounts.Users {
	args := m.Called()
	return args.Get(0).(accounts.Users)
}

func (m *MockRepositoryManager) UserTypes() accounts.UserTypes {
	args := m.Called()
	return args.Get(0).(accounts.UserTypes)
}

func (m *MockRepositoryManager) VerificationTokens() accounts.VerificationTokens {
	args := m.Called()
	return args.Get(0).(accounts.VerificationTokens)
}

func (m *MockRepositoryManager) PasswordResetTokens() accounts.PasswordResetTokens {
	args := m.Called()
	return args.Get(0).(accounts.PasswordResetTokens)
}

func (m *MockRepositoryManager) Donations() accounts.Donations {
	args := m.Called()
	return args.Get(0).(accounts.Donations)
}

// The embedded interfaces satisfy the full repository surface; only the
// methods the services reach get mock implementations. Calling anything
// else panics, which is the failure we want in a test.

// MockUsers implements accounts.Users
type MockUsers struct {
	mock.Mock
	accounts.Users
}

// CreateTx and UpdateTx echo the record back when the expectation
// returns nil, matching what the real repository does on success.
func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.User, criteria ...repository.InsertCriteria) (*accounts.User, error) {
	args := m.Called(ctx, tx, record, criteria)
	if user, ok := args.Get(0).(*accounts.User); ok {
		return user, args.Error(1)
	}
	return record, args.Error(1)
}

func (m *MockUsers) UpdateTx(ctx context.Context, tx bun.IDB, record *accounts.User, criteria ...repository.UpdateCriteria) (*accounts.User, error) {
	args := m.Called(ctx, tx, record, criteria)
	if user, ok := args.Get(0).(*accounts.User); ok {
		return user, args.Error(1)
	}
	return record, args.Error(1)
}

func (m *MockUsers) GetWithAssociationsTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*accounts.User, error) {
	args := m.Called(ctx, tx, id)
	user, _ := args.Get(0).(*accounts.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*accounts.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByVerificationToken(ctx context.Context, token string) (*accounts.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*accounts.User)
	return user, args.Error(1)
}

func (m *MockUsers) FindByRoleTx(ctx context.Context, tx bun.IDB, role string) ([]*accounts.User, error) {
	args := m.Called(ctx, tx, role)
	list, _ := args.Get(0).([]*accounts.User)
	return list, args.Error(1)
}

func (m *MockUsers) SetBlockedTx(ctx context.Context, tx bun.IDB, id uuid.UUID, blocked bool) error {
	args := m.Called(ctx, tx, id, blocked)
	return args.Error(0)
}

func (m *MockUsers) LinkRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, tx, userID, roleID)
	return args.Error(0)
}

func (m *MockUsers) UnlinkRoleTx(ctx context.Context, tx bun.IDB, userID, roleID uuid.UUID) error {
	args := m.Called(ctx, tx, userID, roleID)
	return args.Error(0)
}

func (m *MockUsers) UnlinkAllRolesTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockUsers) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockUserTypes implements accounts.UserTypes
type MockUserTypes struct {
	mock.Mock
	accounts.UserTypes
}

func (m *MockUserTypes) GetByRoleTx(ctx context.Context, tx bun.IDB, role string) (*accounts.UserType, error) {
	args := m.Called(ctx, tx, role)
	record, _ := args.Get(0).(*accounts.UserType)
	return record, args.Error(1)
}

// MockVerificationTokens implements accounts.VerificationTokens
type MockVerificationTokens struct {
	mock.Mock
	accounts.VerificationTokens
}

func (m *MockVerificationTokens) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.VerificationToken, criteria ...repository.InsertCriteria) (*accounts.VerificationToken, error) {
	args := m.Called(ctx, tx, record, criteria)
	if token, ok := args.Get(0).(*accounts.VerificationToken); ok {
		return token, args.Error(1)
	}
	return record, args.Error(1)
}

func (m *MockVerificationTokens) UpdateTx(ctx context.Context, tx bun.IDB, record *accounts.VerificationToken, criteria ...repository.UpdateCriteria) (*accounts.VerificationToken, error) {
	args := m.Called(ctx, tx, record, criteria)
	token, _ := args.Get(0).(*accounts.VerificationToken)
	return token, args.Error(1)
}

func (m *MockVerificationTokens) GetByToken(ctx context.Context, token string) (*accounts.VerificationToken, error) {
	args := m.Called(ctx, token)
	record, _ := args.Get(0).(*accounts.VerificationToken)
	return record, args.Error(1)
}

func (m *MockVerificationTokens) GetByTokenTx(ctx context.Context, tx bun.IDB, token string) (*accounts.VerificationToken, error) {
	args := m.Called(ctx, tx, token)
	record, _ := args.Get(0).(*accounts.VerificationToken)
	return record, args.Error(1)
}

func (m *MockVerificationTokens) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

// MockPasswordResetTokens implements accounts.PasswordResetTokens
type MockPasswordResetTokens struct {
	mock.Mock
	accounts.PasswordResetTokens
}

func (m *MockPasswordResetTokens) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.PasswordResetToken, criteria ...repository.InsertCriteria) (*accounts.PasswordResetToken, error) {
	args := m.Called(ctx, tx, record, criteria)
	if token, ok := args.Get(0).(*accounts.PasswordResetToken); ok {
		return token, args.Error(1)
	}
	return record, args.Error(1)
}

func (m *MockPasswordResetTokens) UpdateTx(ctx context.Context, tx bun.IDB, record *accounts.PasswordResetToken, criteria ...repository.UpdateCriteria) (*accounts.PasswordResetToken, error) {
	args := m.Called(ctx, tx, record, criteria)
	token, _ := args.Get(0).(*accounts.PasswordResetToken)
	return token, args.Error(1)
}

func (m *MockPasswordResetTokens) GetByToken(ctx context.Context, token string) (*accounts.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	record, _ := args.Get(0).(*accounts.PasswordResetToken)
	return record, args.Error(1)
}

func (m *MockPasswordResetTokens) DeleteByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

// MockDonations implements accounts.Donations
type MockDonations struct {
	mock.Mock
	accounts.Donations
}

func (m *MockDonations) DetachUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, userID)
	return int64(args.Int(0)), args.Error(1)
}

// MockActivitySink implements accounts.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event accounts.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockNotifier implements accounts.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendRegistrationEmail(ctx context.Context, user *accounts.User, url string) error {
	args := m.Called(ctx, user, url)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordResetEmail(ctx context.Context, user *accounts.User, url string) error {
	args := m.Called(ctx, user, url)
	return args.Error(0)
}

func (m *MockNotifier) SendTokenResendEmail(ctx context.Context, user *accounts.User, url string, oldToken string) error {
	args := m.Called(ctx, user, url, oldToken)
	return args.Error(0)
}
