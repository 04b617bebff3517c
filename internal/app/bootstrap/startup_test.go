package bootstrap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		SessionKey:        devSessionKey,
		AuditLogAuth:      "all",
		AuditLogAdmin:     "db",
		CampaignBoardSize: 8,
	}
}

func TestValidateApp(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"defaults in dev", "dev", func(*AppConfig) {}, ""},
		{"operator with password", "dev", func(c *AppConfig) {
			c.OperatorEmail = "ops@example.com"
			c.OperatorPassword = "longenough"
		}, ""},
		{"operator password too short", "dev", func(c *AppConfig) {
			c.OperatorEmail = "ops@example.com"
			c.OperatorPassword = "short"
		}, "operator_password"},
		{"password without email is ignored", "dev", func(c *AppConfig) { c.OperatorPassword = "x" }, ""},
		{"dev key rejected in prod", "prod", func(*AppConfig) {}, "session_key"},
		{"empty key rejected in prod", "prod", func(c *AppConfig) { c.SessionKey = "" }, "session_key"},
		{"strong key accepted in prod", "prod", func(c *AppConfig) { c.SessionKey = strings.Repeat("k", 48) }, ""},
		{"bad audit mode", "dev", func(c *AppConfig) { c.AuditLogAdmin = "everything" }, "audit_log_admin"},
		{"negative board size", "dev", func(c *AppConfig) { c.CampaignBoardSize = -1 }, "campaign_board_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateApp(tt.env, cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRandomSessionKey(t *testing.T) {
	a, b := randomSessionKey(), randomSessionKey()
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

type fakeEnsurer struct {
	created bool
	err     error
	calls   []string
}

func (f *fakeEnsurer) Ensure(_ context.Context, email, _ string) (bool, error) {
	f.calls = append(f.calls, email)
	return f.created, f.err
}

func TestEnsureOperator(t *testing.T) {
	t.Run("skipped without email", func(t *testing.T) {
		f := &fakeEnsurer{}
		require.NoError(t, ensureOperator(context.Background(), f, "", "", testLogger()))
		assert.Empty(t, f.calls)
	})

	t.Run("creates or keeps", func(t *testing.T) {
		f := &fakeEnsurer{created: true}
		require.NoError(t, ensureOperator(context.Background(), f, "ops@example.com", "password1", testLogger()))
		assert.Equal(t, []string{"ops@example.com"}, f.calls)
	})

	t.Run("store failure aborts startup", func(t *testing.T) {
		f := &fakeEnsurer{err: errors.New("no primary")}
		err := ensureOperator(context.Background(), f, "ops@example.com", "password1", testLogger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ensure operator")
	})
}

func TestNatsConn_NilStaysNil(t *testing.T) {
	assert.Nil(t, natsConn(DBDeps{}))
}

func TestShutdown_NothingToClose(t *testing.T) {
	require.NoError(t, Shutdown(context.Background(), nil, AppConfig{}, DBDeps{Services: &Services{}}, testLogger()))
}
