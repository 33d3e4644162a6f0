package emu

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"trackerboy/emu/log"
	"trackerboy/hw"
	"trackerboy/hw/apu"
)

type Config struct {
	Audio    AudioConfig    `toml:"audio"`
	Synth    SynthConfig    `toml:"synth"`
	Playback PlaybackConfig `toml:"playback"`
}

type AudioConfig struct {
	DisableAudio bool   `toml:"disable_audio"`
	Backend      string `toml:"backend"`
	SampleRate   int    `toml:"sample_rate"`
	BufferSize   int    `toml:"buffer_size"`
}

// Check fixes invalid settings, falling back to their defaults.
func (acfg *AudioConfig) Check() {
	switch acfg.Backend {
	case hw.BackendSDL, hw.BackendOto, hw.BackendNone:
	default:
		log.ModEmu.Warnf("Invalid audio backend %q, fallback to %q", acfg.Backend, hw.BackendSDL)
		acfg.Backend = hw.BackendSDL
	}
	if acfg.SampleRate <= 0 || acfg.SampleRate > apu.MaxSampleRate {
		log.ModEmu.Warnf("Invalid sample rate %d, fallback to %d", acfg.SampleRate, apu.DefaultSampleRate)
		acfg.SampleRate = apu.DefaultSampleRate
	}
	if acfg.BufferSize <= 0 {
		acfg.BufferSize = hw.AudioBufferSize
	}
}

type SynthConfig struct {
	// Framerate overrides the song framerate when non-zero.
	Framerate float64 `toml:"framerate"`
	// Master volume, written into NR50.
	Volume uint8   `toml:"volume"`
	Gain   float64 `toml:"gain"`
}

type PlaybackConfig struct {
	PatternRepeat bool `toml:"pattern_repeat"`
	StartOrder    int  `toml:"start_order"`
	StartRow      int  `toml:"start_row"`
}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "trackerboy")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

var defaultConfig = Config{
	Audio: AudioConfig{
		Backend:    hw.BackendSDL,
		SampleRate: apu.DefaultSampleRate,
		BufferSize: hw.AudioBufferSize,
	},
	Synth: SynthConfig{
		Volume: 0x77,
		Gain:   1,
	},
}

// DefaultConfig returns the configuration used when none has been saved.
func DefaultConfig() Config { return defaultConfig }

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the trackerboy config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		return defaultConfig
	}
	return cfg
}

// LoadConfig loads the configuration file at path. Settings missing from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Audio.Check()
	return cfg, nil
}

// SaveConfig into trackerboy config directory.
func SaveConfig(cfg Config) error {
	return saveConfig(filepath.Join(ConfigDir(), cfgFilename), cfg)
}

func saveConfig(path string, cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
