package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV", "test")
	t.Setenv("MONGODB_URL", "mongodb://mongo:27017")
	t.Setenv("MONGODB_DB_NAME", "stockflow_test")
	t.Setenv("SECRET_KEY", "unit-test-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("BACKEND_CORS_ORIGINS", "http://localhost:3000,https://app.stockflow.com")

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURL)
	assert.Equal(t, "stockflow_test", cfg.MongoDBName)
	assert.Equal(t, "unit-test-secret", cfg.SecretKey)
	assert.Equal(t, 45, cfg.ExpireMinutes)
	assert.Equal(t, 45*time.Minute, cfg.TokenTTL())
	assert.Equal(t, []string{"http://localhost:3000", "https://app.stockflow.com"}, cfg.CORSOrigins)
}

func TestMustLoad_Defaults(t *testing.T) {
	// t.Setenv регистрирует восстановление значения, Unsetenv убирает
	// переменную на время теста.
	for _, key := range []string{"CONFIG_PATH", "ENV", "MONGODB_URL", "MONGODB_DB_NAME",
		"ALGORITHM", "ACCESS_TOKEN_EXPIRE_MINUTES", "HTTP_ADDRESS", "MAIL_SERVER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURL)
	assert.Equal(t, "stockflow_db", cfg.MongoDBName)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 30, cfg.ExpireMinutes)
	assert.Equal(t, "0.0.0.0:8000", cfg.AddressHTTP)
	assert.False(t, cfg.MailEnabled())
}

func TestMustLoad_FromConfigFile(t *testing.T) {
	content := `
env: test
mongo_connection:
  mongo_url: "mongodb://filehost:27017"
  mongo_db_name: "stockflow_file"
jwttoken:
  secret_key: "file-secret"
  access_token_expire_minutes: 15
http_server:
  addresshttp: "127.0.0.1:9000"
mail:
  mail_server: "smtp.example.com"
  mail_port: 2525
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_PATH", path)

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "mongodb://filehost:27017", cfg.MongoURL)
	assert.Equal(t, "stockflow_file", cfg.MongoDBName)
	assert.Equal(t, "file-secret", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "127.0.0.1:9000", cfg.AddressHTTP)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, 2525, cfg.MailPort)
}

func TestConfig_String_ContainsNoSecrets(t *testing.T) {
	cfg := &Config{
		Env:             "prod",
		MongoConnection: MongoConnection{MongoURL: "mongodb://localhost:27017", MongoDBName: "stockflow_db"},
		JWTToken:        JWTToken{SecretKey: "super-secret-value", Algorithm: "HS256", ExpireMinutes: 30},
	}

	out := cfg.String()
	assert.Contains(t, out, "stockflow_db")
	assert.NotContains(t, out, "super-secret-value")
}
