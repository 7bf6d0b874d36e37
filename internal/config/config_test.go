package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/credited/internal/model"
	"github.com/cleared-dev/credited/internal/tax"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Profile = model.Profile{DisplayName: "John Doe"}
	cfg.Store.Driver = "memory"
	cfg.OCR.CacheTTL = 10 * time.Minute

	path := filepath.Join(t.TempDir(), "credited.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "John Doe", got.Profile.DisplayName)
	assert.Equal(t, "memory", got.Store.Driver)
	assert.Equal(t, 10*time.Minute, got.OCR.CacheTTL)
	assert.Equal(t, cfg.Classifier, got.Classifier)
	assert.Equal(t, cfg.Extractor.Banks, got.Extractor.Banks)

	brackets, err := got.TaxBrackets()
	require.NoError(t, err)
	want := tax.DefaultBrackets()
	require.Len(t, brackets, len(want))
	for i := range want {
		assert.Equal(t, want[i].Unbounded, brackets[i].Unbounded)
		assert.True(t, want[i].Rate.Equal(brackets[i].Rate), "rate %d", i)
		assert.True(t, want[i].UpperBound.Equal(brackets[i].UpperBound), "upper %d", i)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Profile.HasName())
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "credited.db", cfg.Store.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, "info", cfg.LogLevel)
	require.Len(t, cfg.Tax.Brackets, 6)
	assert.Nil(t, cfg.Tax.Brackets[5].UpperBound)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credited.yaml")
	yml := `profile:
  display_name: Ada Obi
tax:
  brackets:
    - upper_bound: 1000
      rate: 0
    - rate: 0.1
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", cfg.Profile.DisplayName)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NotEmpty(t, cfg.Classifier.CreditKeywords)

	brackets, err := cfg.TaxBrackets()
	require.NoError(t, err)
	require.Len(t, brackets, 2)
	assert.Equal(t, "1000", brackets[0].UpperBound.String())
	assert.True(t, brackets[1].Unbounded)
	assert.Equal(t, "0.1", brackets[1].Rate.String())
}

func TestLoad_InvalidBrackets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credited.yaml")
	yml := "tax:\n  brackets:\n    - upper_bound: 100\n      rate: 0.1\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, tax.ErrInvalidBrackets)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credited.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tax: [unterminated"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
	assert.Equal(t, Default().Tax, cfg.Tax)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default()
	cfg.Profile.DisplayName = "John Doe"
	path := filepath.Join(t.TempDir(), "credited.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "display_name: John Doe")
	assert.Contains(t, contents, "upper_bound: 800000")
	assert.Contains(t, contents, "credit_keywords:")
	assert.Contains(t, contents, "driver: sqlite")
	assert.Contains(t, contents, "cache_ttl: 1h0m0s")
	assert.NotContains(t, contents, "amount_patterns")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{
		EnvLogLevel: "debug",
		EnvDB:       "/tmp/other.db",
	}))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/other.db", cfg.Store.Path)

	cfg = Default()
	cfg.ApplyEnv(env(nil))
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "flag.yaml", Path("flag.yaml", env(map[string]string{EnvConfig: "env.yaml"})))
	assert.Equal(t, "env.yaml", Path("", env(map[string]string{EnvConfig: "env.yaml"})))
	assert.Equal(t, DefaultPath, Path("", env(nil)))
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CREDITED_TEST_DOTENV=loaded\n"), 0o644))
	t.Setenv("CREDITED_TEST_DOTENV", "")
	os.Unsetenv("CREDITED_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("CREDITED_TEST_DOTENV"))
}
