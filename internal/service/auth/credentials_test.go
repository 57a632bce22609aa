package auth

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/tickprobe/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChecker(t *testing.T, delay time.Duration) *StaticChecker {
	t.Helper()
	checker, err := NewStaticChecker(delay, testutils.DiscardLogger())
	require.NoError(t, err)
	return checker
}

func TestStaticChecker_Check(t *testing.T) {
	t.Parallel()

	checker := newTestChecker(t, 0)

	tests := []struct {
		name    string
		creds   Credentials
		wantErr error
	}{
		{name: "valid", creds: Credentials{Login: "admin", Password: "password"}},
		{name: "wrong password", creds: Credentials{Login: "admin", Password: "hunter2"}, wantErr: ErrInvalidCredentials},
		{name: "wrong login", creds: Credentials{Login: "root", Password: "password"}, wantErr: ErrInvalidCredentials},
		{name: "empty", creds: Credentials{}, wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := checker.Check(context.Background(), tt.creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, UserIDFor("admin"), user.ID)
			assert.Equal(t, "Admin", user.Name)
		})
	}
}

func TestStaticChecker_StableUserID(t *testing.T) {
	t.Parallel()

	checker := newTestChecker(t, 0)
	creds := Credentials{Login: "admin", Password: "password"}

	first, err := checker.Check(context.Background(), creds)
	require.NoError(t, err)
	second, err := checker.Check(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, UserIDFor("admin"), UserIDFor("someone-else"))
}

func TestStaticChecker_Delay(t *testing.T) {
	t.Parallel()

	checker := newTestChecker(t, 30*time.Millisecond)

	start := time.Now()
	_, err := checker.Check(context.Background(), Credentials{Login: "admin", Password: "password"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestStaticChecker_DelayHonoursContext(t *testing.T) {
	t.Parallel()

	checker := newTestChecker(t, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := checker.Check(ctx, Credentials{Login: "admin", Password: "password"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
