package app

import (
	"strings"
	"testing"

	"github.com/strataworks/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Issuer:             "gatehouse",
		AccessTokenSecret:  strings.Repeat("a", 32),
		RefreshTokenSecret: strings.Repeat("b", 32),
		AccessTTL:          jwtx.DefaultAccessTokenTTL,
		RefreshTTL:         jwtx.DefaultRefreshTokenTTL,
		RememberMeTTL:      jwtx.DefaultRememberMeTTL,
		RevocationBackend:  "sqlite",
		Env:                "dev",
	}
}

func TestValidateAcceptsSaneConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.AccessTokenSecret = ""
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RefreshTokenSecret = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.AccessTokenSecret = "too short"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsPlaceholderSecret(t *testing.T) {
	cfg := validConfig()
	cfg.AccessTokenSecret = "your-secret-key-your-secret-key-123"
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "placeholder")

	cfg = validConfig()
	cfg.RefreshTokenSecret = strings.Repeat("x", 20) + "CHANGEME" + strings.Repeat("x", 20)
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsSharedSecret(t *testing.T) {
	cfg := validConfig()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must differ")
}

func TestValidateRedisBackendNeedsAddr(t *testing.T) {
	cfg := validConfig()
	cfg.RevocationBackend = "redis"
	require.Error(t, cfg.Validate())

	cfg.RedisAddr = "localhost:6379"
	require.NoError(t, cfg.Validate())

	cfg.RevocationBackend = "memcached"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedTTLs(t *testing.T) {
	cfg := validConfig()
	cfg.RememberMeTTL = cfg.RefreshTTL / 2
	require.Error(t, cfg.Validate())
}

func TestSecureCookiesOutsideDev(t *testing.T) {
	cfg := validConfig()
	require.False(t, cfg.SecureCookies())

	cfg.Env = "prod"
	require.True(t, cfg.SecureCookies())
}
