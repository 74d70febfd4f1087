package ops

import (
	"os"
	"path/filepath"
	"testing"

	"orderaccumulator/internal/risk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	loaded, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, risk.DefaultSymbols, loaded.Risk.Symbols)
	assert.True(t, loaded.Risk.ExposureLimit.Equal(risk.DefaultExposureLimit))
	assert.Equal(t, DefaultFixSettings, loaded.Acceptor.SettingsPath)
	assert.False(t, loaded.Acceptor.Verbose)
	assert.Equal(t, DefaultJournalCapacity, loaded.JournalCapacity)
	assert.Empty(t, loaded.PyroscopeAddr)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"risk": {"symbols": ["PETR4", " WEGE3 "], "exposureLimit": "2500000.50"},
		"fix": {"settings": "conf/fix.cfg", "verbose": true},
		"journal": {"capacity": 16},
		"profiling": {"pyroscopeAddr": "http://localhost:4040"}
	}`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"PETR4", "WEGE3"}, loaded.Risk.Symbols)
	assert.Equal(t, "2500000.50", loaded.Risk.ExposureLimit.StringFixed(2))
	assert.Equal(t, "conf/fix.cfg", loaded.Acceptor.SettingsPath)
	assert.True(t, loaded.Acceptor.Verbose)
	assert.Equal(t, 16, loaded.JournalCapacity)
	assert.Equal(t, "http://localhost:4040", loaded.PyroscopeAddr)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
risk:
  symbols: [VALE3]
  exposure_limit: "1000"
journal:
  capacity: 8
`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"VALE3"}, loaded.Risk.Symbols)
	assert.Equal(t, "1000.00", loaded.Risk.ExposureLimit.StringFixed(2))
	assert.Equal(t, DefaultFixSettings, loaded.Acceptor.SettingsPath)
	assert.Equal(t, 8, loaded.JournalCapacity)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
	}{
		{name: "unsupported format", file: "config.toml", content: "risk = 1"},
		{name: "malformed json", file: "config.json", content: "{"},
		{name: "bad limit", file: "config.json", content: `{"risk": {"exposureLimit": "lots"}}`},
		{name: "zero limit", file: "config.yml", content: "risk:\n  exposure_limit: \"0\"\n"},
		{name: "negative limit", file: "config.yml", content: "risk:\n  exposure_limit: \"-5\"\n"},
		{name: "negative capacity", file: "config.json", content: `{"journal": {"capacity": -1}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tc.file, tc.content))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.json", `{"risk": {"symbols": ["PETR4"], "exposureLimit": "10"}}`)

	t.Setenv(envSymbols, "abev3, itub4,,")
	t.Setenv(envExposureLimit, "500000")
	t.Setenv(envFixSettings, "/etc/accumulator/fix.cfg")
	t.Setenv(envFixVerbose, "true")
	t.Setenv(envJournalCapacity, "32")
	t.Setenv(envPyroscopeAddr, "http://pyroscope:4040")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"abev3", "itub4"}, loaded.Risk.Symbols)
	assert.Equal(t, "500000", loaded.Risk.ExposureLimit.String())
	assert.Equal(t, "/etc/accumulator/fix.cfg", loaded.Acceptor.SettingsPath)
	assert.True(t, loaded.Acceptor.Verbose)
	assert.Equal(t, 32, loaded.JournalCapacity)
	assert.Equal(t, "http://pyroscope:4040", loaded.PyroscopeAddr)

	_, err = risk.NewEngine(loaded.Risk)
	require.NoError(t, err)
}

func TestLoadEnvOverridesInvalid(t *testing.T) {
	t.Setenv(envFixVerbose, "sometimes")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv(envFixVerbose, "")
	t.Setenv(envJournalCapacity, "many")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	// Registers cleanup that restores the variable after the test.
	t.Setenv(envExposureLimit, "")
	require.NoError(t, os.Unsetenv(envExposureLimit))

	path := writeFile(t, ".env", envExposureLimit+"=777\n")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "777", os.Getenv(envExposureLimit))

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "777", loaded.Risk.ExposureLimit.String())

	require.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadDotEnvDefaultPath(t *testing.T) {
	t.Setenv(envPyroscopeAddr, "")
	require.NoError(t, os.Unsetenv(envPyroscopeAddr))

	t.Chdir(t.TempDir())
	require.NoError(t, LoadDotEnv(""), "a missing ./.env is skipped")

	require.NoError(t, os.WriteFile(".env", []byte(envPyroscopeAddr+"=http://pyroscope:4040\n"), 0o600))
	require.NoError(t, LoadDotEnv(""))
	assert.Equal(t, "http://pyroscope:4040", os.Getenv(envPyroscopeAddr))

	require.NoError(t, os.WriteFile(".env", []byte("BAD-KEY=1\n"), 0o600))
	require.Error(t, LoadDotEnv(""), "a malformed ./.env is reported")
}
