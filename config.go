package assembly

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type PlayAreaConfig struct {
	Horizontal float32 `json:"horizontal" mapstructure:"horizontal"`
	MinY       float32 `json:"minY" mapstructure:"minY"`
	MaxY       float32 `json:"maxY" mapstructure:"maxY"`
}

type CameraConfig struct {
	FovY     float32 `json:"fovY" mapstructure:"fovY"`
	Distance float32 `json:"distance" mapstructure:"distance"`
	Pitch    float32 `json:"pitch" mapstructure:"pitch"` // degrees
	Yaw      float32 `json:"yaw" mapstructure:"yaw"`     // degrees
	TargetY  float32 `json:"targetY" mapstructure:"targetY"`
	MinZoom  float32 `json:"minZoom" mapstructure:"minZoom"`
	MaxZoom  float32 `json:"maxZoom" mapstructure:"maxZoom"`
	// RotateSpeed is degrees per pixel of pointer travel.
	RotateSpeed float32 `json:"rotateSpeed" mapstructure:"rotateSpeed"`
}

// SpawnConfig places palette slots alternately right and left of the structure:
// slot i sits at x = ±(OriginX + (i/2)*Spacing).
type SpawnConfig struct {
	OriginX float32 `json:"originX" mapstructure:"originX"`
	OriginY float32 `json:"originY" mapstructure:"originY"`
	OriginZ float32 `json:"originZ" mapstructure:"originZ"`
	Spacing float32 `json:"spacing" mapstructure:"spacing"`
}

type ZoneStyleConfig struct {
	BaseOpacity float32 `json:"baseOpacity" mapstructure:"baseOpacity"`
	SoftOpacity float32 `json:"softOpacity" mapstructure:"softOpacity"`
	HardOpacity float32 `json:"hardOpacity" mapstructure:"hardOpacity"`
	HardScale   float32 `json:"hardScale" mapstructure:"hardScale"`
}

type ViewportConfig struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

type Config struct {
	LogLevel          string          `json:"logLevel" mapstructure:"logLevel"`
	SnapTolerance     float32         `json:"snapTolerance" mapstructure:"snapTolerance"`
	AnimationDuration time.Duration   `json:"animationDuration" mapstructure:"animationDuration"`
	Scale             float32         `json:"scale" mapstructure:"scale"`
	TickRate          int             `json:"tickRate" mapstructure:"tickRate"`
	PlayArea          PlayAreaConfig  `json:"playArea" mapstructure:"playArea"`
	Camera            CameraConfig    `json:"camera" mapstructure:"camera"`
	Spawn             SpawnConfig     `json:"spawn" mapstructure:"spawn"`
	ZoneStyle         ZoneStyleConfig `json:"zoneStyle" mapstructure:"zoneStyle"`
	Viewport          ViewportConfig  `json:"viewport" mapstructure:"viewport"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("snapTolerance", 1.0)
	v.SetDefault("animationDuration", "500ms")
	v.SetDefault("scale", 1.0)
	v.SetDefault("tickRate", 60)

	v.SetDefault("playArea.horizontal", 6.0)
	v.SetDefault("playArea.minY", -0.5)
	v.SetDefault("playArea.maxY", 8.0)

	v.SetDefault("camera.fovY", 45.0)
	v.SetDefault("camera.distance", 14.32)
	v.SetDefault("camera.pitch", 12.1)
	v.SetDefault("camera.yaw", 0.0)
	v.SetDefault("camera.targetY", 2.0)
	v.SetDefault("camera.minZoom", 4.0)
	v.SetDefault("camera.maxZoom", 40.0)
	v.SetDefault("camera.rotateSpeed", 0.3)

	v.SetDefault("spawn.originX", 3.2)
	v.SetDefault("spawn.originY", 0.5)
	v.SetDefault("spawn.originZ", 0.0)
	v.SetDefault("spawn.spacing", 0.7)

	v.SetDefault("zoneStyle.baseOpacity", 0.3)
	v.SetDefault("zoneStyle.softOpacity", 0.5)
	v.SetDefault("zoneStyle.hardOpacity", 0.8)
	v.SetDefault("zoneStyle.hardScale", 1.1)

	v.SetDefault("viewport.width", 1280)
	v.SetDefault("viewport.height", 720)
}

// DefaultConfig returns the built-in defaults without touching disk or env.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// LoadConfig reads assembly.{yaml,json,toml} from configDir when present and
// applies ASSEMBLY_* environment overrides, e.g. ASSEMBLY_PLAYAREA_MAXY.
// A missing file is not an error.
func LoadConfig(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("assembly")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix("ASSEMBLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.SnapTolerance <= 0:
		return fmt.Errorf("snapTolerance must be positive, got %v", c.SnapTolerance)
	case c.AnimationDuration <= 0:
		return fmt.Errorf("animationDuration must be positive, got %v", c.AnimationDuration)
	case c.Scale <= 0:
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	case c.PlayArea.Horizontal <= 0:
		return fmt.Errorf("playArea.horizontal must be positive, got %v", c.PlayArea.Horizontal)
	case c.PlayArea.MinY >= c.PlayArea.MaxY:
		return fmt.Errorf("playArea.minY (%v) must be below maxY (%v)", c.PlayArea.MinY, c.PlayArea.MaxY)
	}
	return nil
}

// withBlueprint lets per-blueprint tuning override the config.
func (c Config) withBlueprint(bp *Blueprint) Config {
	if bp == nil {
		return c
	}
	if bp.SnapTolerance > 0 {
		c.SnapTolerance = bp.SnapTolerance
	}
	if bp.AnimationDurationMs > 0 {
		c.AnimationDuration = time.Duration(bp.AnimationDurationMs) * time.Millisecond
	}
	return c
}
