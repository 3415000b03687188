package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"BuildpacksDemo/modules/kit/errx"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults 返回内置默认配置。
func Defaults() Config {
	return Config{
		HTTPServer: HTTPServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Mode:              "release",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:   "info",
			MaxSize: 100,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("httpserver.host", d.HTTPServer.Host)
	v.SetDefault("httpserver.port", d.HTTPServer.Port)
	v.SetDefault("httpserver.mode", d.HTTPServer.Mode)
	v.SetDefault("httpserver.healthz", d.HTTPServer.Healthz)
	v.SetDefault("httpserver.read_header_timeout", d.HTTPServer.ReadHeaderTimeout)
	v.SetDefault("httpserver.read_timeout", d.HTTPServer.ReadTimeout)
	v.SetDefault("httpserver.write_timeout", d.HTTPServer.WriteTimeout)
	v.SetDefault("httpserver.idle_timeout", d.HTTPServer.IdleTimeout)
	v.SetDefault("httpserver.shutdown_timeout", d.HTTPServer.ShutdownTimeout)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("log.file_dir", d.Log.FileDir)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dev", d.Log.Dev)
}

func load(configPath string) (Config, error) {
	// .env 只补充未设置的环境变量，不覆盖进程已有的值。
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errConfig("load .env failed", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errConfig("read config failed", err).WithData("path", configPath)
		}
	}

	c, err := decode(v)
	if err != nil {
		return Config{}, err
	}

	if configPath != "" {
		v.OnConfigChange(func(e fsnotify.Event) {
			next, err := decode(v)
			if err != nil {
				notifyError(e.Name, err)
				return
			}
			notify(next)
		})
		v.WatchConfig()
	}
	return c, nil
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := v.Unmarshal(&c, hook); err != nil {
		return Config{}, errConfig("decode config failed", err)
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate 校验配置取值范围。
func Validate(c Config) error {
	h := c.HTTPServer
	if h.Port < 0 || h.Port > 65535 {
		return errConfig("httpserver.port out of range", nil).WithData("port", h.Port)
	}
	switch h.Mode {
	case "debug", "release", "test":
	default:
		return errConfig("httpserver.mode must be debug/release/test", nil).WithData("mode", h.Mode)
	}
	for name, d := range map[string]time.Duration{
		"read_header_timeout": h.ReadHeaderTimeout,
		"read_timeout":        h.ReadTimeout,
		"write_timeout":       h.WriteTimeout,
		"idle_timeout":        h.IdleTimeout,
		"shutdown_timeout":    h.ShutdownTimeout,
	} {
		if d < 0 {
			return errConfig("httpserver timeout must be >= 0", nil).WithData("field", name)
		}
	}
	if c.Metrics.Addr != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errConfig("metrics.path must start with /", nil).WithData("path", c.Metrics.Path)
	}
	return nil
}

func errConfig(reason string, cause error) *errx.Error {
	e := errx.ErrConfigInvalid.WithData("reason", reason)
	if cause != nil {
		e = e.WithCause(cause)
	}
	return e
}
