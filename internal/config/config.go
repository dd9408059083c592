package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Player     PlayerConfig     `yaml:"player"`
	Weapon     WeaponConfig     `yaml:"weapon"`
	Level      LevelConfig      `yaml:"level"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type SimulationConfig struct {
	TickRate         int     `yaml:"tick_rate"`
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame"`
	MaxDelta         float64 `yaml:"max_delta"`
}

type PlayerConfig struct {
	Speed  float64 `yaml:"speed"`
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

type WeaponConfig struct {
	Damage     int     `yaml:"damage"`
	Range      float64 `yaml:"range"`
	CooldownMs int     `yaml:"cooldown_ms"`
}

type LevelConfig struct {
	File string `yaml:"file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:         60,
			MaxStepsPerFrame: 5,
			MaxDelta:         0.05,
		},
		Player: PlayerConfig{
			Speed:  4.0,
			Height: 1.8,
			Radius: 0.3,
		},
		Weapon: WeaponConfig{
			Damage:     10,
			Range:      100,
			CooldownMs: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Simulation.TickRate <= 0:
		return fmt.Errorf("%w: simulation.tick_rate must be positive, got %d", ErrInvalidConfig, c.Simulation.TickRate)
	case c.Simulation.MaxStepsPerFrame <= 0:
		return fmt.Errorf("%w: simulation.max_steps_per_frame must be positive, got %d", ErrInvalidConfig, c.Simulation.MaxStepsPerFrame)
	case c.Simulation.MaxDelta <= 0:
		return fmt.Errorf("%w: simulation.max_delta must be positive, got %g", ErrInvalidConfig, c.Simulation.MaxDelta)
	case c.Player.Speed < 0:
		return fmt.Errorf("%w: player.speed must not be negative, got %g", ErrInvalidConfig, c.Player.Speed)
	case c.Player.Radius < 0:
		return fmt.Errorf("%w: player.radius must not be negative, got %g", ErrInvalidConfig, c.Player.Radius)
	case c.Player.Height < c.Player.Radius:
		return fmt.Errorf("%w: player.height %g is below player.radius %g", ErrInvalidConfig, c.Player.Height, c.Player.Radius)
	case c.Weapon.Range <= 0:
		return fmt.Errorf("%w: weapon.range must be positive, got %g", ErrInvalidConfig, c.Weapon.Range)
	case c.Weapon.CooldownMs < 0:
		return fmt.Errorf("%w: weapon.cooldown_ms must not be negative, got %d", ErrInvalidConfig, c.Weapon.CooldownMs)
	}
	return nil
}

// TickInterval is the fixed simulation step.
func (s SimulationConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

func (w WeaponConfig) Cooldown() time.Duration {
	return time.Duration(w.CooldownMs) * time.Millisecond
}
