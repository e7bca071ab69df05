package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockCall records a method call for assertion
type MockCall struct {
	Method string
	Args   []any
}

// MockProvider is a Provider for tests: in-memory accounts, call
// recording, and per-method overrides.
type MockProvider struct {
	mu sync.Mutex

	Calls []MockCall

	SignUpFunc               func(email, password string) (*Session, error)
	SignInFunc               func(email, password string) (*Session, error)
	SignOutFunc              func(token string) error
	RequestPasswordResetFunc func(email string) (string, error)
	ResetPasswordFunc        func(resetToken, newPassword string) error
	ValidateTokenFunc        func(token string) (string, error)

	// DefaultError, when set, is returned by every method without an override
	DefaultError error

	// accounts keyed by email
	accounts map[string]*mockAccount
	// live tokens keyed by token string
	tokens map[string]string
}

type mockAccount struct {
	userID   string
	password string
}

// NewMockProvider creates an empty mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		accounts: make(map[string]*mockAccount),
		tokens:   make(map[string]string),
	}
}

// AddAccount registers a test account and returns its user id
func (m *MockProvider) AddAccount(email, password string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID := uuid.NewString()
	m.accounts[email] = &mockAccount{userID: userID, password: password}
	return userID
}

// CallsForMethod returns recorded calls for one method
func (m *MockProvider) CallsForMethod(method string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockCall
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockProvider) record(method string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Method: method, Args: args})
}

func (m *MockProvider) issue(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := "mock_token_" + uuid.NewString()
	m.tokens[token] = userID
	return &Session{UserID: userID, Token: token, ExpiresAt: time.Now().Add(24 * time.Hour)}
}

func (m *MockProvider) SignUp(ctx context.Context, email, password string) (*Session, error) {
	m.record("SignUp", email)
	if m.SignUpFunc != nil {
		return m.SignUpFunc(email, password)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}

	m.mu.Lock()
	if _, exists := m.accounts[email]; exists {
		m.mu.Unlock()
		return nil, ErrUserExists
	}
	acct := &mockAccount{userID: uuid.NewString(), password: password}
	m.accounts[email] = acct
	m.mu.Unlock()

	return m.issue(acct.userID), nil
}

func (m *MockProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	m.record("SignIn", email)
	if m.SignInFunc != nil {
		return m.SignInFunc(email, password)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}

	m.mu.Lock()
	acct, exists := m.accounts[email]
	m.mu.Unlock()
	if !exists || acct.password != password {
		return nil, ErrInvalidCredentials
	}
	return m.issue(acct.userID), nil
}

func (m *MockProvider) SignOut(ctx context.Context, token string) error {
	m.record("SignOut", token)
	if m.SignOutFunc != nil {
		return m.SignOutFunc(token)
	}
	if m.DefaultError != nil {
		return m.DefaultError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func (m *MockProvider) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	m.record("RequestPasswordReset", email)
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(email)
	}
	if m.DefaultError != nil {
		return "", m.DefaultError
	}
	return uuid.NewString(), nil
}

func (m *MockProvider) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	m.record("ResetPassword", resetToken)
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(resetToken, newPassword)
	}
	return m.DefaultError
}

func (m *MockProvider) ValidateToken(ctx context.Context, token string) (string, error) {
	m.record("ValidateToken", token)
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	if m.DefaultError != nil {
		return "", m.DefaultError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[token]
	if !ok {
		return "", ErrTokenInvalid
	}
	return userID, nil
}

// Ensure MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
