// control/config.go
// Author: momentics <momentics@gmail.com>
//
// JSON configuration file for the dispatcher and the demo receiver.

package control

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Duration is a time.Duration that decodes from a Go duration string
// ("250ms") or from a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := jsoniter.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(x))
	case nil:
		*d = 0
	default:
		return fmt.Errorf("duration: unexpected %T", v)
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(time.Duration(d).String())
}

// FileConfig mirrors the on-disk configuration. Zero fields mean "use the
// built-in default".
type FileConfig struct {
	Endpoint    string   `json:"endpoint"`
	Backlog     int      `json:"backlog"`
	MaxEvents   int      `json:"max_events"`
	PollTimeout Duration `json:"poll_timeout"`
	MessageSize int      `json:"message_size"`
	LogLevel    string   `json:"log_level"`
	MetricsAddr string   `json:"metrics_addr"`
}

// LoadConfig reads and decodes the configuration file at path.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := jsoniter.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.Backlog < 0 || cfg.MaxEvents < 0 || cfg.MessageSize < 0 || cfg.PollTimeout < 0 {
		return cfg, fmt.Errorf("config %s: negative values are not allowed", path)
	}
	return cfg, nil
}

// Level returns the configured log level, info when unset.
func (c FileConfig) Level() (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
