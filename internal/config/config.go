package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/listentwo/internal/effect"
	"github.com/llehouerou/listentwo/internal/logging"
	"github.com/llehouerou/listentwo/internal/session"
)

type Config struct {
	DefaultFolder string `koanf:"default_folder"` // folder opened at startup, empty for none

	Playback PlaybackConfig `koanf:"playback"`
	State    StateConfig    `koanf:"state"`
	UI       UIConfig       `koanf:"ui"`
	Log      LogConfig      `koanf:"log"`
	Desktop  DesktopConfig  `koanf:"desktop"`
}

// PlaybackConfig holds player defaults.
type PlaybackConfig struct {
	DefaultVolume      *float64 `koanf:"default_volume"`       // 0-1 (default: 0.7)
	ShuffleAvoidRepeat *bool    `koanf:"shuffle_avoid_repeat"` // random mode never repeats the current track (default: false)
	SeekStep           int      `koanf:"seek_step"`            // seconds (default: 5)
}

// StateConfig controls persistence.
type StateConfig struct {
	AutosaveInterval int   `koanf:"autosave_interval"` // seconds, 0 disables (default: 5)
	RestoreSidecar   *bool `koanf:"restore_sidecar"`   // apply a folder's state file on open (default: true)
	SidecarAutosave  bool  `koanf:"sidecar_autosave"`  // also write the folder's state file on save
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	LyricPoll  int    `koanf:"lyric_poll"`  // milliseconds (default: 100)
	Effect     string `koanf:"effect"`      // particle, spectrum, ripple or none
	ShowLyrics *bool  `koanf:"show_lyrics"` // initial lyric panel state for fresh sessions
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"`
	MaxSize    int    `koanf:"max_size"`    // megabytes
	MaxBackups int    `koanf:"max_backups"`
	MaxAge     int    `koanf:"max_age"` // days
	Compress   bool   `koanf:"compress"`
}

// DesktopConfig toggles desktop integration.
type DesktopConfig struct {
	MPRIS         *bool `koanf:"mpris"`         // default: true
	Notifications *bool `koanf:"notifications"` // default: true
}

const (
	defaultSeekStep  = 5 * time.Second
	defaultAutosave  = 5 * time.Second
	defaultLyricPoll = 100 * time.Millisecond
)

func Load() (*Config, error) {
	return LoadPaths(getConfigPaths()...)
}

// LoadPaths merges the TOML files that exist among paths, later files
// overriding earlier ones.
func LoadPaths(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.UI.Effect = strings.ToLower(strings.TrimSpace(cfg.UI.Effect))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/listentwo/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "listentwo", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// DefaultVolume returns the startup volume, clamped to [0,1].
func (c *Config) DefaultVolume() float64 {
	if c.Playback.DefaultVolume == nil {
		return session.DefaultVolume
	}
	return min(max(*c.Playback.DefaultVolume, 0), 1)
}

func (c *Config) ShuffleAvoidRepeat() bool {
	return boolOr(c.Playback.ShuffleAvoidRepeat, false)
}

func (c *Config) SeekStep() time.Duration {
	if c.Playback.SeekStep <= 0 {
		return defaultSeekStep
	}
	return time.Duration(c.Playback.SeekStep) * time.Second
}

// AutosaveInterval returns the periodic save cadence. Zero disables it.
func (c *Config) AutosaveInterval() time.Duration {
	switch {
	case c.State.AutosaveInterval < 0:
		return 0
	case c.State.AutosaveInterval == 0:
		return defaultAutosave
	}
	return time.Duration(c.State.AutosaveInterval) * time.Second
}

func (c *Config) RestoreSidecar() bool {
	return boolOr(c.State.RestoreSidecar, true)
}

func (c *Config) LyricPoll() time.Duration {
	if c.UI.LyricPoll <= 0 {
		return defaultLyricPoll
	}
	return time.Duration(c.UI.LyricPoll) * time.Millisecond
}

// Effect returns the configured visualizer, falling back to the first
// registered one for unknown names. "none" disables it.
func (c *Config) Effect() string {
	switch name := c.UI.Effect; {
	case name == "none":
		return ""
	case effect.Has(name):
		return name
	}
	return effect.Names()[0]
}

// ShowLyrics returns the lyric panel default and whether one is set.
func (c *Config) ShowLyrics() (show, ok bool) {
	if c.UI.ShowLyrics == nil {
		return false, false
	}
	return *c.UI.ShowLyrics, true
}

// Logging returns the logger settings with the default file location.
func (c *Config) Logging() logging.Config {
	path := c.Log.File
	if path == "" {
		if p, err := logging.DefaultPath(); err == nil {
			path = p
		}
	}
	return logging.Config{
		Level:      c.Log.Level,
		File:       path,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
		Compress:   c.Log.Compress,
	}
}

func (c *Config) MPRISEnabled() bool {
	return boolOr(c.Desktop.MPRIS, true)
}

func (c *Config) NotificationsEnabled() bool {
	return boolOr(c.Desktop.Notifications, true)
}
