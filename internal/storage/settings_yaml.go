package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"resty/internal/core/model"
	"resty/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes        int                 `yaml:"work_minutes"`
	BreakMinutes       int                 `yaml:"break_minutes"`
	FlowMode           bool                `yaml:"flow_mode"`
	SegmentedEnabled   bool                `yaml:"segmented_work_enabled"`
	Segments           []model.WorkSegment `yaml:"work_segments,omitempty"`
	ForceBreak         bool                `yaml:"force_break"`
	ReminderFullscreen *bool               `yaml:"reminder_fullscreen,omitempty"`
	Autostart          bool                `yaml:"autostart"`
	DatabasePath       string              `yaml:"database_path,omitempty"`
}

// LoadSettings reads user preferences from the YAML file in the user config
// dir. If the file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// SaveSettings writes user preferences to the YAML file in the user config dir.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// LoadSettingsFile reads settings from configPath, keeping defaults for
// missing or non-positive values.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsFile validates and writes settings to configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYamlSettings(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ExportSettings writes settings to w in the settings file format.
func ExportSettings(w io.Writer, settings preferences.Settings) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(toYamlSettings(settings)); err != nil {
		return fmt.Errorf("encode settings yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode settings yaml: %w", err)
	}
	return nil
}

// ImportSettings reads settings exported by ExportSettings. Missing keys keep
// their defaults; out-of-range values are rejected rather than clamped.
func ImportSettings(r io.Reader) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	var fileData yamlSettings
	if err := yaml.NewDecoder(r).Decode(&fileData); err != nil {
		if errors.Is(err, io.EOF) {
			return settings, fmt.Errorf("import settings: empty document")
		}
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	if fileData.WorkMinutes != 0 {
		settings.WorkMinutes = fileData.WorkMinutes
	}
	if fileData.BreakMinutes != 0 {
		settings.BreakMinutes = fileData.BreakMinutes
	}
	if fileData.Segments != nil {
		settings.Segments = fileData.Segments
	}
	if fileData.ReminderFullscreen != nil {
		settings.ReminderFullscreen = *fileData.ReminderFullscreen
	}
	settings.FlowMode = fileData.FlowMode
	settings.SegmentedEnabled = fileData.SegmentedEnabled
	settings.ForceBreak = fileData.ForceBreak
	settings.Autostart = fileData.Autostart
	settings.DatabasePath = fileData.DatabasePath

	if err := settings.Validate(); err != nil {
		return preferences.DefaultSettings(), fmt.Errorf("validate imported settings: %w", err)
	}
	return settings, nil
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func toYamlSettings(settings preferences.Settings) yamlSettings {
	fullscreen := settings.ReminderFullscreen
	return yamlSettings{
		WorkMinutes:        settings.WorkMinutes,
		BreakMinutes:       settings.BreakMinutes,
		FlowMode:           settings.FlowMode,
		SegmentedEnabled:   settings.SegmentedEnabled,
		Segments:           settings.Segments,
		ForceBreak:         settings.ForceBreak,
		ReminderFullscreen: &fullscreen,
		Autostart:          settings.Autostart,
		DatabasePath:       settings.DatabasePath,
	}
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkMinutes = min(fileData.WorkMinutes, model.MaxSegmentMinutes)
	}
	if fileData.BreakMinutes > 0 {
		settings.BreakMinutes = min(fileData.BreakMinutes, model.MaxSegmentMinutes)
	}
	if len(fileData.Segments) > 0 {
		settings.Segments = fileData.Segments
	}
	if fileData.ReminderFullscreen != nil {
		settings.ReminderFullscreen = *fileData.ReminderFullscreen
	}

	settings.FlowMode = fileData.FlowMode
	settings.SegmentedEnabled = fileData.SegmentedEnabled
	settings.ForceBreak = fileData.ForceBreak
	settings.Autostart = fileData.Autostart
	settings.DatabasePath = fileData.DatabasePath
}
