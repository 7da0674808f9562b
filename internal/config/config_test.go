package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	require.NoError(t, BindEnv(v))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	v := newViper(t)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "applications", cfg.AMQP.Queue)
	assert.Equal(t, 2, cfg.AMQP.Workers)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 24, cfg.Auth.JWTExpirationHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/hiring")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9090")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/hiring", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey())
	assert.NoError(t, cfg.RequireDatabase())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hiring-desk.yaml")
	content := "port: 7000\nfrontend-url: https://jobs.example.com\ngithub:\n  analyzer-url: http://analyzer:8000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := newViper(t)
	require.NoError(t, ReadFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "https://jobs.example.com", cfg.FrontendURL)
	assert.Equal(t, "http://analyzer:8000", cfg.GitHub.AnalyzerURL)
}

func TestReadFile_MissingDefaultIsIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, ReadFile(newViper(t), ""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{Port: 8080, LLM: LLMConfig{Provider: "gemini"}}},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "port"},
		{name: "negative workers", cfg: Config{AMQP: AMQPConfig{Workers: -1}}, wantErr: "workers"},
		{name: "unknown provider", cfg: Config{LLM: LLMConfig{Provider: "llama"}}, wantErr: "unknown llm provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireDatabase(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.RequireDatabase())
}
