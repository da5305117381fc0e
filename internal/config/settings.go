package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings is the on-disk configuration shape (YAML).
// It replaces desktop preferences for a headless process.
type Settings struct {
	Language    string         `yaml:"language"`
	ServerPort  string         `yaml:"server_port"`
	RefreshMin  int            `yaml:"refresh_interval_min"`
	Source      SourceSettings `yaml:"source"`
	Reminder    ReminderConfig `yaml:"reminder"`
	settingsDir string
}

// SourceSettings describes where trips are read from.
// The web password is never stored here; it lives in the OS keyring.
type SourceSettings struct {
	Mode      string `yaml:"mode"`
	LocalPath string `yaml:"local_path"`
	WebURL    string `yaml:"web_url"`
	WebUser   string `yaml:"web_user"`
}

// ReminderConfig controls the alarm attached to over-limit feed events.
type ReminderConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Value     int    `yaml:"value"`
	Unit      string `yaml:"unit"`
	Direction string `yaml:"direction"`
}

// DefaultSettings returns the configuration used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Language:   DefaultLanguage,
		ServerPort: DefaultPort,
		RefreshMin: DefaultRefreshMin,
		Source: SourceSettings{
			Mode:      SourceModeLocal,
			LocalPath: DefaultTripsFile,
		},
		Reminder: ReminderConfig{
			Value:     DefaultReminderValue,
			Unit:      UnitDays,
			Direction: DirBefore,
		},
	}
}

// DefaultSettingsPath returns <user config dir>/<AppID>/settings.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// LoadSettings reads path, overlays it on the defaults and validates the result.
// A missing file is not an error: defaults are returned.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()
	s.settingsDir = filepath.Dir(path)

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug(MsgSettingsMiss,
			LogKeyComponent, CompConfig,
			LogKeyFile, path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsDecode, err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// applyDefaults fills the fields a partial file left empty.
func (s *Settings) applyDefaults() {
	d := DefaultSettings()
	if s.Language == "" {
		s.Language = d.Language
	}
	if s.ServerPort == "" {
		s.ServerPort = d.ServerPort
	}
	if s.Source.Mode == "" {
		s.Source.Mode = d.Source.Mode
	}
	if s.Source.Mode == SourceModeLocal && s.Source.LocalPath == "" {
		s.Source.LocalPath = d.Source.LocalPath
	}
	if s.Reminder.Value == 0 {
		s.Reminder.Value = d.Reminder.Value
	}
	if s.Reminder.Unit == "" {
		s.Reminder.Unit = d.Reminder.Unit
	}
	if s.Reminder.Direction == "" {
		s.Reminder.Direction = d.Reminder.Direction
	}
}

// Validate checks values that would otherwise fail late at runtime.
func (s *Settings) Validate() error {
	if err := ValidatePort(s.ServerPort); err != nil {
		return err
	}
	if s.RefreshMin < 0 {
		return errors.New(ErrIntervalRange)
	}
	switch s.Source.Mode {
	case SourceModeLocal, SourceModeWeb:
	default:
		return fmt.Errorf("%s: %q", ErrModeUnsupport, s.Source.Mode)
	}
	switch s.Reminder.Unit {
	case UnitDays, UnitHours, UnitMinutes:
	default:
		return errors.New(ErrReminderUnit)
	}
	switch s.Reminder.Direction {
	case DirBefore, DirAfter:
	default:
		return errors.New(ErrReminderDir)
	}
	return nil
}

// ValidatePort checks that port is a number within the TCP range.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// ResolvedLocalPath interprets a relative local_path against the settings file directory
// when that file exists, falling back to the path as given (relative to cwd).
func (s *Settings) ResolvedLocalPath() string {
	p := s.Source.LocalPath
	if p == "" || filepath.IsAbs(p) || s.settingsDir == "" {
		return p
	}
	cand := filepath.Join(s.settingsDir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// ReminderTrigger renders the reminder as an ISO8601 duration ("-P1D", "PT2H").
// Returns "" when reminders are disabled.
func (s *Settings) ReminderTrigger() string {
	r := s.Reminder
	if !r.Enabled {
		return ""
	}
	val := r.Value
	if val <= 0 {
		val = DefaultReminderValue
	}

	sign := ISOPeriodPrefix
	if r.Direction == DirBefore {
		sign = ISONegativePrefix
	}

	// Hours and minutes belong to the time part of an ISO8601 duration.
	switch r.Unit {
	case UnitHours:
		return fmt.Sprintf("%sT%d%s", sign, val, ISOHour)
	case UnitMinutes:
		return fmt.Sprintf("%sT%d%s", sign, val, ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", sign, val, ISODay)
	}
}

// RefreshInterval returns the worker period, falling back to the default for non-positive values.
func (s *Settings) RefreshInterval() int {
	if s.RefreshMin <= 0 {
		return DefaultRefreshMin
	}
	return s.RefreshMin
}
