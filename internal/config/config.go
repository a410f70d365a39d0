package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/richard-senior/edutune/internal/logger"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, eg EDUTUNE_CANVAS_WIDTH
const EnvPrefix = "EDUTUNE"

// AppConfig contains every tunable value used by the server, the renderer and the CLI
// This centralizes all magic numbers and constants for easy adjustment
type AppConfig struct {
	// === Logging ===
	LogOutput string `mapstructure:"log_output"` // c(onsole), f(ile) or b(oth)
	LogLevel  string `mapstructure:"log_level"`  // debug, info, warn, error
	LogFile   string `mapstructure:"log_file"`   // used when LogOutput is f or b

	// === Server ===
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`
	ToolPrefix    string `mapstructure:"tool_prefix"` // prepended to every registered tool name

	// === Storage ===
	HistoryDBPath string `mapstructure:"history_db_path"` // sqlite DSN, ":memory:" keeps history per process
	HistoryLimit  int    `mapstructure:"history_limit"`   // oldest entries beyond this are dropped

	// === Canvas ===
	CanvasWidth  int `mapstructure:"canvas_width"`
	CanvasHeight int `mapstructure:"canvas_height"`

	// === Rendering ===
	UnitPixels      float64  `mapstructure:"unit_pixels"`      // pixels per math unit at scale 1
	DefaultZoom     float64  `mapstructure:"default_zoom"`     // scale = zoom / 10
	MinZoom         float64  `mapstructure:"min_zoom"`
	MaxZoom         float64  `mapstructure:"max_zoom"`
	ParametricSteps int      `mapstructure:"parametric_steps"` // uniform steps across a curve's domain
	PointRadius     float64  `mapstructure:"point_radius"`
	AnimationStep   float64  `mapstructure:"animation_step"` // parameter advance per frame
	AnimationFPS    int      `mapstructure:"animation_fps"`
	Palette         []string `mapstructure:"palette"`
	GridColor       string   `mapstructure:"grid_color"`
	AxesColor       string   `mapstructure:"axes_color"`
	Background      string   `mapstructure:"background"`
	LabelColor      string   `mapstructure:"label_color"`

	// === Fetching ===
	HTTPTimeoutSeconds int   `mapstructure:"http_timeout_seconds"`
	MaxSVGBytes        int64 `mapstructure:"max_svg_bytes"`
}

// DefaultConfig returns the default configuration with all standard values
func DefaultConfig() *AppConfig {
	return &AppConfig{
		LogOutput: "f",
		LogLevel:  "info",
		LogFile:   filepath.Join(os.TempDir(), "edutune.log"),

		ServerName:    "edutune",
		ServerVersion: "1.0.0",
		ToolPrefix:    "mcp___",

		HistoryDBPath: ":memory:",
		HistoryLimit:  100,

		CanvasWidth:  800,
		CanvasHeight: 400,

		UnitPixels:      50,
		DefaultZoom:     50,
		MinZoom:         10,
		MaxZoom:         200,
		ParametricSteps: 100,
		PointRadius:     5,
		AnimationStep:   0.005,
		AnimationFPS:    30,
		Palette:         []string{"#8b5cf6", "#ec4899", "#3b82f6", "#10b981", "#f59e0b", "#ef4444"},
		GridColor:       "rgba(255, 255, 255, 0.1)",
		AxesColor:       "rgba(255, 255, 255, 0.5)",
		Background:      "#0f0f1a",
		LabelColor:      "white",

		HTTPTimeoutSeconds: 30,
		MaxSVGBytes:        5 << 20,
	}
}

// Global configuration instance
var Config *AppConfig

func init() {
	Config = DefaultConfig()
}

// UpdateConfig replaces the global configuration
func UpdateConfig(newConfig *AppConfig) {
	Config = newConfig
}

// Load builds a configuration from the defaults, an optional config file, an optional
// .env file and EDUTUNE_* environment variables, in increasing order of precedence
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v, DefaultConfig())

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		logger.Info("Loaded configuration from", v.ConfigFileUsed())
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv reads ./.env when present so its values reach AutomaticEnv
func loadDotEnv() error {
	path := os.Getenv(EnvPrefix + "_DOTENV")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("log_output", d.LogOutput)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("server_name", d.ServerName)
	v.SetDefault("server_version", d.ServerVersion)
	v.SetDefault("tool_prefix", d.ToolPrefix)
	v.SetDefault("history_db_path", d.HistoryDBPath)
	v.SetDefault("history_limit", d.HistoryLimit)
	v.SetDefault("canvas_width", d.CanvasWidth)
	v.SetDefault("canvas_height", d.CanvasHeight)
	v.SetDefault("unit_pixels", d.UnitPixels)
	v.SetDefault("default_zoom", d.DefaultZoom)
	v.SetDefault("min_zoom", d.MinZoom)
	v.SetDefault("max_zoom", d.MaxZoom)
	v.SetDefault("parametric_steps", d.ParametricSteps)
	v.SetDefault("point_radius", d.PointRadius)
	v.SetDefault("animation_step", d.AnimationStep)
	v.SetDefault("animation_fps", d.AnimationFPS)
	v.SetDefault("palette", d.Palette)
	v.SetDefault("grid_color", d.GridColor)
	v.SetDefault("axes_color", d.AxesColor)
	v.SetDefault("background", d.Background)
	v.SetDefault("label_color", d.LabelColor)
	v.SetDefault("http_timeout_seconds", d.HTTPTimeoutSeconds)
	v.SetDefault("max_svg_bytes", d.MaxSVGBytes)
}

// === CONFIGURATION VALIDATION ===

// ValidateConfig ensures all configuration values are within reasonable ranges
func ValidateConfig(config *AppConfig) error {
	switch config.LogOutput {
	case "c", "f", "b":
	default:
		return fmt.Errorf("LogOutput must be one of c, f or b, got: %q", config.LogOutput)
	}
	if _, err := logger.ParseLevel(config.LogLevel); err != nil {
		return err
	}
	if config.CanvasWidth < 16 || config.CanvasHeight < 16 {
		return fmt.Errorf("canvas must be at least 16x16, got: %dx%d", config.CanvasWidth, config.CanvasHeight)
	}
	if config.CanvasWidth > 8192 || config.CanvasHeight > 8192 {
		return fmt.Errorf("canvas must be at most 8192x8192, got: %dx%d", config.CanvasWidth, config.CanvasHeight)
	}
	if config.UnitPixels <= 0 {
		return fmt.Errorf("UnitPixels must be positive, got: %f", config.UnitPixels)
	}
	if config.MinZoom <= 0 || config.MinZoom > config.MaxZoom {
		return fmt.Errorf("zoom range is invalid: [%f, %f]", config.MinZoom, config.MaxZoom)
	}
	if config.DefaultZoom < config.MinZoom || config.DefaultZoom > config.MaxZoom {
		return fmt.Errorf("DefaultZoom %f is outside [%f, %f]", config.DefaultZoom, config.MinZoom, config.MaxZoom)
	}
	if config.ParametricSteps < 1 {
		return fmt.Errorf("ParametricSteps must be at least 1, got: %d", config.ParametricSteps)
	}
	if config.AnimationStep <= 0 || config.AnimationStep >= 1 {
		return fmt.Errorf("AnimationStep must be between 0 and 1, got: %f", config.AnimationStep)
	}
	if config.AnimationFPS < 1 || config.AnimationFPS > 120 {
		return fmt.Errorf("AnimationFPS must be between 1 and 120, got: %d", config.AnimationFPS)
	}
	if len(config.Palette) == 0 {
		return fmt.Errorf("Palette must contain at least one colour")
	}
	if config.HistoryLimit < 1 {
		return fmt.Errorf("HistoryLimit must be at least 1, got: %d", config.HistoryLimit)
	}
	if config.MaxSVGBytes <= 0 {
		return fmt.Errorf("MaxSVGBytes must be positive, got: %d", config.MaxSVGBytes)
	}
	return nil
}

// ApplyLogging pushes the logging section of the configuration into the logger package
func ApplyLogging(config *AppConfig) error {
	level, err := logger.ParseLevel(config.LogLevel)
	if err != nil {
		return err
	}
	if err := logger.SetLogOutput(rune(config.LogOutput[0]), config.LogFile); err != nil {
		return err
	}
	logger.SetLevel(level)
	return nil
}
