package config

import (
	"fmt"
	"time"

	"github.com/OCAP2/globe/pkg/core"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "globe.cfg.json"

// TrajectoryConfig controls where the trajectory comes from.
type TrajectoryConfig struct {
	Source  string        `json:"source" mapstructure:"source"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	Policy  string        `json:"policy" mapstructure:"policy"`
	Watch   bool          `json:"watch" mapstructure:"watch"`
}

// WindowConfig sizes the window and its software framebuffer.
type WindowConfig struct {
	Title       string  `json:"title" mapstructure:"title"`
	Width       int     `json:"width" mapstructure:"width"`
	Height      int     `json:"height" mapstructure:"height"`
	TPS         int     `json:"tps" mapstructure:"tps"`
	RenderScale float64 `json:"renderScale" mapstructure:"renderScale"`
}

// SceneConfig covers the static layers.
type SceneConfig struct {
	AssetsDir   string  `json:"assetsDir" mapstructure:"assetsDir"`
	StarCount   int     `json:"starCount" mapstructure:"starCount"`
	StarSeed    int64   `json:"starSeed" mapstructure:"starSeed"`
	NightLights bool    `json:"nightLights" mapstructure:"nightLights"`
	TiltDeg     float64 `json:"tiltDeg" mapstructure:"tiltDeg"`
}

// ClockConfig lists the zones shown in the time panel.
type ClockConfig struct {
	Zones    []string      `json:"zones" mapstructure:"zones"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// GraylogConfig holds GELF output settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// InfluxConfig holds telemetry sink settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled        bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName    string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout   time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	MetricInterval time.Duration `json:"metricInterval" mapstructure:"metricInterval"`
	Endpoint       string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `json:"insecure" mapstructure:"insecure"`
}

// MonitorConfig controls the performance monitor.
type MonitorConfig struct {
	Enabled    bool          `json:"enabled" mapstructure:"enabled"`
	Interval   time.Duration `json:"interval" mapstructure:"interval"`
	StatusFile string        `json:"statusFile" mapstructure:"statusFile"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./globelogs")
	viper.SetDefault("assetsDir", ".")

	viper.SetDefault("trajectory.source", "pos.txt")
	viper.SetDefault("trajectory.timeout", 10*time.Second)
	viper.SetDefault("trajectory.policy", "abort")
	viper.SetDefault("trajectory.watch", false)

	viper.SetDefault("window.title", "Globe")
	viper.SetDefault("window.width", 1280)
	viper.SetDefault("window.height", 720)
	viper.SetDefault("window.tps", 60)
	viper.SetDefault("window.renderScale", 0.5)

	viper.SetDefault("globe.nightLights", false)
	viper.SetDefault("globe.tiltDeg", 0.0)

	viper.SetDefault("clock.zones", []string{"UTC", "America/Denver", "America/New_York"})
	viper.SetDefault("clock.interval", time.Second)

	viper.SetDefault("stars.count", 200)
	viper.SetDefault("stars.seed", 1)

	viper.SetDefault("cities.extra", []map[string]any{})

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "globe")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "globe")
	viper.SetDefault("otel.batchTimeout", 5*time.Second)
	viper.SetDefault("otel.metricInterval", time.Minute)
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.interval", 30*time.Second)
	viper.SetDefault("monitor.statusFile", "")
}

// Load sets default values and reads the JSON config file from configDir.
// Defaults stay in effect when the file is missing; the error says why.
func Load(configDir string) error {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// RegisterFlags adds the command line overrides to fs and binds them so a
// flag the user sets beats the config file.
func RegisterFlags(fs *pflag.FlagSet) error {
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("assets", ".", "directory holding the texture images")
	fs.String("source", "pos.txt", "trajectory file path or http(s) URL")
	fs.String("policy", "abort", "malformed line policy (abort, skip)")
	fs.Bool("watch", false, "reload the trajectory when the file changes")
	fs.Int("width", 1280, "window width in pixels")
	fs.Int("height", 720, "window height in pixels")

	bindings := map[string]string{
		"log-level": "logLevel",
		"assets":    "assetsDir",
		"source":    "trajectory.source",
		"policy":    "trajectory.policy",
		"watch":     "trajectory.watch",
		"width":     "window.width",
		"height":    "window.height",
	}
	for flag, key := range bindings {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetTrajectoryConfig returns the trajectory source settings.
func GetTrajectoryConfig() TrajectoryConfig {
	return TrajectoryConfig{
		Source:  viper.GetString("trajectory.source"),
		Timeout: viper.GetDuration("trajectory.timeout"),
		Policy:  viper.GetString("trajectory.policy"),
		Watch:   viper.GetBool("trajectory.watch"),
	}
}

// GetWindowConfig returns the window settings.
func GetWindowConfig() WindowConfig {
	return WindowConfig{
		Title:       viper.GetString("window.title"),
		Width:       viper.GetInt("window.width"),
		Height:      viper.GetInt("window.height"),
		TPS:         viper.GetInt("window.tps"),
		RenderScale: viper.GetFloat64("window.renderScale"),
	}
}

// GetSceneConfig returns the static scene settings.
func GetSceneConfig() SceneConfig {
	return SceneConfig{
		AssetsDir:   viper.GetString("assetsDir"),
		StarCount:   viper.GetInt("stars.count"),
		StarSeed:    viper.GetInt64("stars.seed"),
		NightLights: viper.GetBool("globe.nightLights"),
		TiltDeg:     viper.GetFloat64("globe.tiltDeg"),
	}
}

// GetClockConfig returns the time panel settings.
func GetClockConfig() ClockConfig {
	return ClockConfig{
		Zones:    viper.GetStringSlice("clock.zones"),
		Interval: viper.GetDuration("clock.interval"),
	}
}

// GetGraylogConfig returns the GELF output settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetInfluxConfig returns the telemetry sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		BatchTimeout:   viper.GetDuration("otel.batchTimeout"),
		MetricInterval: viper.GetDuration("otel.metricInterval"),
		Endpoint:       viper.GetString("otel.endpoint"),
		Insecure:       viper.GetBool("otel.insecure"),
	}
}

// GetMonitorConfig returns the performance monitor settings.
func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:    viper.GetBool("monitor.enabled"),
		Interval:   viper.GetDuration("monitor.interval"),
		StatusFile: viper.GetString("monitor.statusFile"),
	}
}

// GetExtraCities returns user-defined cities from cities.extra.
func GetExtraCities() ([]core.GeoPoint, error) {
	var cities []core.GeoPoint
	if err := viper.UnmarshalKey("cities.extra", &cities); err != nil {
		return nil, fmt.Errorf("error decoding cities.extra: %w", err)
	}
	for i, c := range cities {
		if c.Label == "" {
			return nil, fmt.Errorf("cities.extra[%d] has no label", i)
		}
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			return nil, fmt.Errorf("cities.extra[%d] %s is out of range", i, c.Label)
		}
	}
	return cities, nil
}
