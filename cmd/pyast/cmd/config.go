package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds the handful of host-tunable limits the spec leaves to the
// embedder: max call-stack depth, whether to trace, and where `print`
// output goes. Read from pyast.yaml (optional, --config); flags override
// whatever the file says, cobra-style.
type Config struct {
	MaxCallDepth int    `yaml:"max_call_depth"`
	Trace        bool   `yaml:"trace"`
	PrintSink    string `yaml:"print_sink"`
}

func loadConfig(path string) (Config, error) {
	cfg := Config{PrintSink: "stdout"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// openSink resolves print_sink to a writer: "stdout"/"" -> os.Stdout,
// "stderr" -> os.Stderr, anything else -> a file path to create/truncate.
// The returned close func is always safe to defer.
func (c Config) openSink() (io.Writer, func() error, error) {
	switch c.PrintSink {
	case "", "stdout":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(c.PrintSink)
		if err != nil {
			return nil, nil, fmt.Errorf("opening print sink %s: %w", c.PrintSink, err)
		}
		return f, f.Close, nil
	}
}
