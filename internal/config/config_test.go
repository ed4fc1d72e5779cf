package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gitlab-org/pages-devserver/internal/redirects"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	rootDir = &dir
	t.Cleanup(func() {
		defaultRoot := "."
		rootDir = &defaultRoot
		listenHTTP = MultiStringFlag{separator: ","}
		redirect = MultiStringFlag{separator: ","}
	})

	require.NoError(t, listenHTTP.Set("127.0.0.1:8000,[::1]:8000"))
	require.NoError(t, redirect.Set("/docs:/docs/"))
	require.NoError(t, redirect.Set("/old:/new/:302"))

	cfg, err := loadConfig()
	require.NoError(t, err)

	require.Equal(t, dir, cfg.General.RootDir)
	require.Equal(t, []string{"127.0.0.1:8000", "[::1]:8000"}, cfg.ListenAddresses())
	require.Equal(t, []string{"/docs:/docs/", "/old:/new/:302"}, cfg.Redirects.Rules)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, 2048, cfg.General.MaxURILength)

	require.Equal(t, redirects.Sources{Flags: []string{"/docs:/docs/", "/old:/new/:302"}}, cfg.Redirects.Sources())
}

func TestLoadConfigInvalid(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	rootDir = &missing
	t.Cleanup(func() {
		defaultRoot := "."
		rootDir = &defaultRoot
	})

	_, err := loadConfig()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestListenAddressesDefault(t *testing.T) {
	cfg := Config{}
	require.Equal(t, []string{DefaultListenHTTP}, cfg.ListenAddresses())
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEVSERVER_TEST_ROOT_DIR=/srv/site\n"), 0644))

	t.Setenv(EnvFile, envFile)
	t.Cleanup(func() { os.Unsetenv("DEVSERVER_TEST_ROOT_DIR") })

	require.NoError(t, loadEnvFile())
	require.Equal(t, "/srv/site", os.Getenv("DEVSERVER_TEST_ROOT_DIR"))
}

func TestLoadEnvFileKeepsEnvironment(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DEVSERVER_TEST_LOG_FORMAT=json\n"), 0644))

	t.Setenv(EnvFile, envFile)
	t.Setenv("DEVSERVER_TEST_LOG_FORMAT", "text")

	require.NoError(t, loadEnvFile())
	require.Equal(t, "text", os.Getenv("DEVSERVER_TEST_LOG_FORMAT"))
}

func TestLoadEnvFileMissing(t *testing.T) {
	t.Setenv(EnvFile, filepath.Join(t.TempDir(), ".env"))

	require.Error(t, loadEnvFile())
}

func TestLoadEnvFileUnset(t *testing.T) {
	t.Setenv(EnvFile, "")

	require.NoError(t, loadEnvFile())
}
