package factory

import (
	"time"

	"github.com/userdash/userdash/internal/dependencies/mocks"
	"github.com/userdash/userdash/internal/services/auth"
	sessionmemory "github.com/userdash/userdash/internal/session/memory"
	storagememory "github.com/userdash/userdash/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	users := storagememory.New()
	sessions := sessionmemory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(users, sessions, mockClock, auth.DefaultConfig())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
