package userrequests_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	userrequests "github.com/factscub/user-requests-api"
)

// MockIdentity implements userrequests.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements userrequests.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// MockNotifier implements userrequests.Notifier for testing
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg userrequests.Notification) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockAuthenticator implements userrequests.Authenticator for testing
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) SignUp(ctx context.Context, input userrequests.SignUpInput) (*userrequests.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userrequests.AuthResult), args.Error(1)
}

func (m *MockAuthenticator) SignIn(ctx context.Context, email, password string) (*userrequests.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userrequests.AuthResult), args.Error(1)
}

// testIdentity is a plain value identity for token tests
type testIdentity struct {
	id    string
	name  string
	email string
	role  string
}

func (t testIdentity) ID() string    { return t.id }
func (t testIdentity) Name() string  { return t.name }
func (t testIdentity) Email() string { return t.email }
func (t testIdentity) Role() string  { return t.role }
