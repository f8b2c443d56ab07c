// Package testutil provides shared test helpers for creating config files.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file for testing.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := `database:
  host: 127.0.0.1
  port: 3306
  user: lms
  name: lms_test
scheduler:
  anchor_weekday: saturday
  max_session_size: 15
log:
  level: error
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}

// SetupTestConfigWithScheduler creates a config file with a custom scheduler
// section.
func SetupTestConfigWithScheduler(t *testing.T, tmpDir, anchorWeekday string, maxSessionSize int) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  host: 127.0.0.1
  port: 3306
  user: lms
  name: lms_test
scheduler:
  anchor_weekday: %s
  max_session_size: %d
log:
  level: error
`, anchorWeekday, maxSessionSize)
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}
