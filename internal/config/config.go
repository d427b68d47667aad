// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	AppName       = "lasertag"
	ConfigType    = "yaml"
	DefaultConfig = `# Laser tag weapon configuration

# Timing
tick_rate: 100000          # Ticks per second; one ADC sample per tick
sample_buffer_size: 32768  # ADC samples held between detector passes

# Hit detection
fudge_factor: 1000         # Strongest channel must reach this multiple of the median power
ignored_channels: []       # Channels that never register a hit (usually your own)

# Weapon
channel: 0                 # Carrier channel this weapon transmits on (0-9)
continuous_mode: false     # Transmit bursts back to back
unlimited_ammo: false      # Shots do not use up the clip
clip_size: 10              # Shots per clip
trigger_debounce_ms: 50    # Trigger must hold a level this long to count
burst_ms: 200              # Length of one shot
lockout_ms: 500            # Hits ignored for this long after a hit
hit_led_ms: 500            # Hit indicator on time
reload_ms: 3000            # Auto-reload delay after the clip runs dry
invincibility_ms: 5000     # Grace period after losing a life

# Receiver (audio interface used as ADC)
device_index: -1           # -1 for default device
buffer_size: 1024          # Capture period in frames

# GPIO (Linux character device)
gpio_enabled: false
gpio_chip: "gpiochip0"
trigger_pin: 17
transmitter_pin: 18
hit_led_pin: 27
invincibility_led_pin: 22

# Output
log_level: "info"          # debug, info, warn, error
debug: false               # Shortcut for log_level: debug
`
)

// ChannelCount is the number of carrier channels.
const ChannelCount = 10

// Settings holds all application configuration
type Settings struct {
	// Timing
	TickRate         int `mapstructure:"tick_rate"`
	SampleBufferSize int `mapstructure:"sample_buffer_size"`

	// Hit detection
	FudgeFactor     int   `mapstructure:"fudge_factor"`
	IgnoredChannels []int `mapstructure:"ignored_channels"`

	// Weapon
	Channel           int  `mapstructure:"channel"`
	ContinuousMode    bool `mapstructure:"continuous_mode"`
	UnlimitedAmmo     bool `mapstructure:"unlimited_ammo"`
	ClipSize          int  `mapstructure:"clip_size"`
	TriggerDebounceMs int  `mapstructure:"trigger_debounce_ms"`
	BurstMs           int  `mapstructure:"burst_ms"`
	LockoutMs         int  `mapstructure:"lockout_ms"`
	HitLedMs          int  `mapstructure:"hit_led_ms"`
	ReloadMs          int  `mapstructure:"reload_ms"`
	InvincibilityMs   int  `mapstructure:"invincibility_ms"`

	// Receiver
	DeviceIndex int `mapstructure:"device_index"`
	BufferSize  int `mapstructure:"buffer_size"`

	// GPIO
	GPIOEnabled         bool   `mapstructure:"gpio_enabled"`
	GPIOChip            string `mapstructure:"gpio_chip"`
	TriggerPin          int    `mapstructure:"trigger_pin"`
	TransmitterPin      int    `mapstructure:"transmitter_pin"`
	HitLedPin           int    `mapstructure:"hit_led_pin"`
	InvincibilityLedPin int    `mapstructure:"invincibility_led_pin"`

	// Output
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/lasertag/
func Init() error {
	viper.SetDefault("tick_rate", 100000)
	viper.SetDefault("sample_buffer_size", 32768)
	viper.SetDefault("fudge_factor", 1000)
	viper.SetDefault("ignored_channels", []int{})
	viper.SetDefault("channel", 0)
	viper.SetDefault("continuous_mode", false)
	viper.SetDefault("unlimited_ammo", false)
	viper.SetDefault("clip_size", 10)
	viper.SetDefault("trigger_debounce_ms", 50)
	viper.SetDefault("burst_ms", 200)
	viper.SetDefault("lockout_ms", 500)
	viper.SetDefault("hit_led_ms", 500)
	viper.SetDefault("reload_ms", 3000)
	viper.SetDefault("invincibility_ms", 5000)
	viper.SetDefault("device_index", -1)
	viper.SetDefault("buffer_size", 1024)
	viper.SetDefault("gpio_enabled", false)
	viper.SetDefault("gpio_chip", "gpiochip0")
	viper.SetDefault("trigger_pin", 17)
	viper.SetDefault("transmitter_pin", 18)
	viper.SetDefault("hit_led_pin", 27)
	viper.SetDefault("invincibility_led_pin", 22)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("debug", false)

	// Support both config.yaml and .config.yaml
	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	viper.SetEnvPrefix(strings.ToUpper(AppName))
	viper.AutomaticEnv()

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("read config: %w", err)
		}
		if err = ensureConfigExists(filepath.Join(configDir, AppName)); err != nil {
			return err
		}
		if err = viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	// Timing
	if s.TickRate < 10000 || s.TickRate > 200000 {
		errs = append(errs, fmt.Errorf("tick_rate must be between 10000 and 200000, got %d", s.TickRate))
	}
	if s.SampleBufferSize < 1024 || s.SampleBufferSize > 1<<20 {
		errs = append(errs, fmt.Errorf("sample_buffer_size must be between 1024 and 1048576, got %d", s.SampleBufferSize))
	}

	// Hit detection
	if s.FudgeFactor < 1 {
		errs = append(errs, fmt.Errorf("fudge_factor must be at least 1, got %d", s.FudgeFactor))
	}
	for _, ch := range s.IgnoredChannels {
		if ch < 0 || ch >= ChannelCount {
			errs = append(errs, fmt.Errorf("ignored_channels entries must be between 0 and 9, got %d", ch))
		}
	}

	// Weapon
	if s.Channel < 0 || s.Channel >= ChannelCount {
		errs = append(errs, fmt.Errorf("channel must be between 0 and 9, got %d", s.Channel))
	}
	if s.ClipSize < 1 || s.ClipSize > 1000 {
		errs = append(errs, fmt.Errorf("clip_size must be between 1 and 1000, got %d", s.ClipSize))
	}
	durations := []struct {
		key string
		ms  int
	}{
		{"trigger_debounce_ms", s.TriggerDebounceMs},
		{"burst_ms", s.BurstMs},
		{"lockout_ms", s.LockoutMs},
		{"hit_led_ms", s.HitLedMs},
		{"reload_ms", s.ReloadMs},
		{"invincibility_ms", s.InvincibilityMs},
	}
	for _, d := range durations {
		if d.ms < 1 || d.ms > 600000 {
			errs = append(errs, fmt.Errorf("%s must be between 1 and 600000, got %d", d.key, d.ms))
		}
	}

	// Receiver
	if s.DeviceIndex < -1 {
		errs = append(errs, fmt.Errorf("device_index must be -1 or a device number, got %d", s.DeviceIndex))
	}
	if s.BufferSize < 64 || s.BufferSize > 8192 {
		errs = append(errs, fmt.Errorf("buffer_size must be between 64 and 8192, got %d", s.BufferSize))
	}
	if s.BufferSize&(s.BufferSize-1) != 0 {
		errs = append(errs, fmt.Errorf("buffer_size should be a power of 2, got %d", s.BufferSize))
	}

	// GPIO
	if s.GPIOEnabled {
		if s.GPIOChip == "" {
			errs = append(errs, errors.New("gpio_chip must be set when gpio_enabled is true"))
		}
		pinsInUse := map[int]string{}
		for _, p := range []struct {
			key    string
			offset int
		}{
			{"trigger_pin", s.TriggerPin},
			{"transmitter_pin", s.TransmitterPin},
			{"hit_led_pin", s.HitLedPin},
			{"invincibility_led_pin", s.InvincibilityLedPin},
		} {
			if p.offset < 0 {
				errs = append(errs, fmt.Errorf("%s must be non-negative, got %d", p.key, p.offset))
				continue
			}
			if other, ok := pinsInUse[p.offset]; ok {
				errs = append(errs, fmt.Errorf("%s and %s share line %d", other, p.key, p.offset))
			}
			pinsInUse[p.offset] = p.key
		}
	}

	// Output
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", s.LogLevel))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Ticks converts a duration in milliseconds to ticks at the configured rate.
func (s *Settings) Ticks(ms int) int {
	return ms * s.TickRate / 1000
}

// IgnoredMask returns ignored_channels as a per-channel flag array.
func (s *Settings) IgnoredMask() [ChannelCount]bool {
	var mask [ChannelCount]bool
	for _, ch := range s.IgnoredChannels {
		if ch >= 0 && ch < ChannelCount {
			mask[ch] = true
		}
	}
	return mask
}
