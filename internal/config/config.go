package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/OLDtherubyproject/rubyserver-sub001/internal/logging"
	"github.com/OLDtherubyproject/rubyserver-sub001/pkg/combat"
)

type Config struct {
	World   WorldConfig       `toml:"world"`
	Combat  CombatConfig      `toml:"combat"`
	Content ContentConfig     `toml:"content"`
	Lua     LuaConfig         `toml:"lua"`
	Logging logging.LogConfig `toml:"logging"`
}

type WorldConfig struct {
	Type string `toml:"type"` // "pvp", "no-pvp" or "pvp-enforced"
}

type CombatConfig struct {
	ProtectionLevel int           `toml:"protection_level"` // players below this level cannot fight players
	FieldGrace      time.Duration `toml:"field_grace"`      // fields younger than this never credit their owner
	ViewportX       int           `toml:"viewport_x"`
	ViewportY       int           `toml:"viewport_y"`
	MaxCallDepth    int           `toml:"max_call_depth"` // nested script calls, 0 for the engine default
}

type ContentConfig struct {
	Combats []string `toml:"combats"` // yaml combat definition files
}

type LuaConfig struct {
	Scripts       []string      `toml:"scripts"`
	CallStackSize int           `toml:"call_stack_size"`
	Timeout       time.Duration `toml:"timeout"` // per-call Lua timeout, 0 for none
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

//Parse decodes data over the defaults; name is only used in errors
func Parse(data []byte, name string) (*Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if _, err := cfg.WorldType(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	if cfg.Combat.MaxCallDepth < 0 {
		return nil, fmt.Errorf("config %s: negative max_call_depth %v", name, cfg.Combat.MaxCallDepth)
	}
	return cfg, nil
}

//Default is the configuration used without a config file
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	d := combat.DefaultConfig()
	return &Config{
		World: WorldConfig{
			Type: "pvp",
		},
		Combat: CombatConfig{
			ProtectionLevel: d.ProtectionLevel,
			FieldGrace:      d.FieldGrace,
			ViewportX:       d.ViewportX,
			ViewportY:       d.ViewportY,
			MaxCallDepth:    d.MaxCallDepth,
		},
		Lua: LuaConfig{
			CallStackSize: 120,
			Timeout:       100 * time.Millisecond,
		},
		Logging: logging.LogConfig{
			LogLevel: "info",
		},
	}
}

func (c *Config) WorldType() (combat.WorldType, error) {
	t, ok := combat.StrToWorldType(c.World.Type)
	if !ok {
		return combat.WorldPvP, fmt.Errorf("unknown world type %q", c.World.Type)
	}
	return t, nil
}

//Engine converts the combat table to engine tunables
func (c *Config) Engine() combat.Config {
	return combat.Config{
		ProtectionLevel: c.Combat.ProtectionLevel,
		FieldGrace:      c.Combat.FieldGrace,
		ViewportX:       c.Combat.ViewportX,
		ViewportY:       c.Combat.ViewportY,
		MaxCallDepth:    c.Combat.MaxCallDepth,
	}
}
