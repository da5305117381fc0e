package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-ninety/internal/config"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))
	return path
}

func TestLoadSettings_MissingFileUsesDefaults(t *testing.T) {
	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, s.ServerPort)
	assert.Equal(t, config.DefaultLanguage, s.Language)
	assert.Equal(t, config.SourceModeLocal, s.Source.Mode)
	assert.Equal(t, config.DefaultTripsFile, s.Source.LocalPath)
	assert.Equal(t, config.DefaultRefreshMin, s.RefreshInterval())
}

func TestLoadSettings_PartialFileOverridesDefaults(t *testing.T) {
	path := writeSettings(t, `
language: fr
server_port: "19000"
source:
  mode: web
  web_url: https://example.com/trips.ics
  web_user: alice
reminder:
  enabled: true
  value: 3
`)

	s, err := config.LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "fr", s.Language)
	assert.Equal(t, "19000", s.ServerPort)
	assert.Equal(t, config.SourceModeWeb, s.Source.Mode)
	assert.Equal(t, "alice", s.Source.WebUser)
	// Unit and direction fall back to defaults.
	assert.Equal(t, "-P3D", s.ReminderTrigger())
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"Port Not Number", `server_port: "abc"`, config.ErrPortNumber},
		{"Port Out Of Range", `server_port: "70000"`, config.ErrPortRange},
		{"Negative Interval", `refresh_interval_min: -5`, config.ErrIntervalRange},
		{"Unknown Mode", "source:\n  mode: ftp", config.ErrModeUnsupport},
		{"Unknown Unit", "reminder:\n  unit: w", config.ErrReminderUnit},
		{"Unknown Direction", "reminder:\n  direction: during", config.ErrReminderDir},
		{"Malformed YAML", "server_port: [", config.ErrSettingsDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadSettings(writeSettings(t, tt.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePort(t *testing.T) {
	assert.EqualError(t, config.ValidatePort(""), config.ErrPortRequired)
	assert.EqualError(t, config.ValidatePort("0"), config.ErrPortRange)
	assert.NoError(t, config.ValidatePort("1"))
	assert.NoError(t, config.ValidatePort("65535"))
}

// TestSettings_ReminderTrigger tests the conversion of reminder settings to an ISO8601 trigger.
func TestSettings_ReminderTrigger(t *testing.T) {
	tests := []struct {
		name        string
		enabled     bool
		val         int
		unit        string
		direction   string
		wantTrigger string
	}{
		{name: "Disabled", enabled: false, wantTrigger: ""},
		{name: "1 Day Before", enabled: true, val: 1, unit: config.UnitDays, direction: config.DirBefore, wantTrigger: "-P1D"},
		{name: "2 Hours After", enabled: true, val: 2, unit: config.UnitHours, direction: config.DirAfter, wantTrigger: "PT2H"},
		{name: "30 Minutes Before", enabled: true, val: 30, unit: config.UnitMinutes, direction: config.DirBefore, wantTrigger: "-PT30M"},
		{name: "Zero Value Falls Back", enabled: true, val: 0, unit: config.UnitDays, direction: config.DirAfter, wantTrigger: "P1D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			s.Reminder = config.ReminderConfig{
				Enabled:   tt.enabled,
				Value:     tt.val,
				Unit:      tt.unit,
				Direction: tt.direction,
			}

			assert.Equal(t, tt.wantTrigger, s.ReminderTrigger())
		})
	}
}

func TestSettings_ResolvedLocalPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.yaml"), []byte("trips: []"), config.FilePermUserRW))
	path := filepath.Join(dir, config.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("source:\n  local_path: mine.yaml\n"), config.FilePermUserRW))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "mine.yaml"), s.ResolvedLocalPath(), "relative paths resolve next to the settings file")

	s.Source.LocalPath = "/abs/trips.yaml"
	assert.Equal(t, "/abs/trips.yaml", s.ResolvedLocalPath())
}
