package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("NOTIFICATION_EMAILS", " ops@example.com, ,sales@example.com ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, []string{"ops@example.com", "sales@example.com"}, cfg.Notify.Recipients)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, "api", cfg.Email.Transport)
	assert.Equal(t, 10, cfg.RateLimit.Requests)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"port":       {"PORT", "eighty"},
		"timeout":    {"NOTIFY_TIMEOUT", "soon"},
		"driver":     {"STORE_DRIVER", "cassandra"},
		"transport":  {"EMAIL_TRANSPORT", "fax"},
		"zero rate":  {"RATE_LIMIT_REQUESTS", "0"},
		"neg rate":   {"RATE_LIMIT_REQUESTS", "-5"},
		"no window":  {"RATE_LIMIT_WINDOW", "0s"},
		"neg window": {"RATE_LIMIT_WINDOW", "-1m"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STORE_DRIVER", "memory")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPostgresNeedsURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}
