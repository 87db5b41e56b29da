package bootstrap

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/fitglue/coursemap/pkg/coursemap"
)

const envPrefix = "COURSEMAP"

// Config holds the settings shared by every command.
type Config struct {
	LogLevel        string `mapstructure:"log_level"`
	Environment     string `mapstructure:"environment"`
	Release         string `mapstructure:"release"`
	SentryDSN       string `mapstructure:"sentry_dsn"`
	ProjectID       string `mapstructure:"google_cloud_project"`
	CredentialsFile string `mapstructure:"google_application_credentials"`
	// TileSource is a directory or gs://bucket/prefix holding {z}/{x}/{y}.png tiles.
	TileSource string `mapstructure:"tile_source"`

	Course coursemap.Config `mapstructure:"course"`
}

// LoadConfig reads defaults, then the optional YAML file at path, then COURSEMAP_*
// environment variables. Nested keys use underscores, e.g.
// COURSEMAP_COURSE_ALTITUDE_FILTER_MODE.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "local")
	v.SetDefault("release", "")
	v.SetDefault("sentry_dsn", "")
	v.SetDefault("tile_source", "")
	v.SetDefault("google_cloud_project", "")
	v.SetDefault("google_application_credentials", "")
	if err := v.BindEnv("google_cloud_project", envPrefix+"_GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_PROJECT"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("google_application_credentials", envPrefix+"_GOOGLE_APPLICATION_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS"); err != nil {
		return nil, err
	}

	d := coursemap.DefaultConfig()
	v.SetDefault("course.altitude_filter_mode", string(d.AltitudeFilter))
	v.SetDefault("course.negative_altitude_allowed", d.NegativeAltitudeAllowed)
	v.SetDefault("course.plot_start_distance", d.PlotStart)
	v.SetDefault("course.plot_finish_distance", d.PlotFinish)
	v.SetDefault("course.oversize_ratio", d.OversizeRatio)
	v.SetDefault("course.averaging_window_length", d.AveragingWindow)
	v.SetDefault("course.grid_resolution", d.GridResolution)
	v.SetDefault("course.grid_overlap", d.GridOverlap)
	v.SetDefault("course.color_channel", d.ColorChannel)
	v.SetDefault("course.color_log", d.ColorLog)
	v.SetDefault("course.color_window", d.ColorWindow)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Course.Validate(); err != nil {
		return nil, fmt.Errorf("course config: %w", err)
	}
	return &cfg, nil
}
