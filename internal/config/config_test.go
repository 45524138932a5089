package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadInterpolatesEnvironmentVariables(t *testing.T) {
	t.Setenv("PESTICIDE_TEST_ADAPTER", "/usr/bin/lldb-vscode")

	dir := t.TempDir()
	path := filepath.Join(dir, "pesticide.toml")
	contents := `
adapter = "${PESTICIDE_TEST_ADAPTER}"
adapter_args = ["--port", "0"]
session_name = "literal-$$-dollar"

[launch_args]
program = "${PESTICIDE_TEST_ADAPTER}"
stopOnEntry = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/usr/bin/lldb-vscode", cfg.Adapter)
	require.Equal(t, []string{"--port", "0"}, cfg.AdapterArgs)
	require.Equal(t, "literal-$-dollar", cfg.SessionName)
	require.JSONEq(t, `{"program":"/usr/bin/lldb-vscode","stopOnEntry":true}`, string(cfg.LaunchArgs))
}

func TestLoadMissingAdapterIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pesticide.toml")
	require.NoError(t, os.WriteFile(path, []byte("adapter_args = []\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadUnsetEnvironmentVariableBecomesEmpty(t *testing.T) {
	os.Unsetenv("PESTICIDE_TEST_UNSET")

	dir := t.TempDir()
	path := filepath.Join(dir, "pesticide.toml")
	contents := "adapter = \"prefix-${PESTICIDE_TEST_UNSET}-suffix\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prefix--suffix", cfg.Adapter)
}
