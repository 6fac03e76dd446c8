// Package config loads module settings from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/bufcore/internal/textcol"
)

// Settings holds the tunable knobs of the module.
type Settings struct {
	// TabWidth is the display width of a tab stop.
	TabWidth int `toml:"tabwidth"`

	// Fifo groups stream ingestion settings.
	Fifo FifoSettings `toml:"fifo"`

	// Log groups logging settings.
	Log LogSettings `toml:"log"`
}

// FifoSettings configures stream ingestion.
type FifoSettings struct {
	// Scroll allows the append point to move away from the first line
	// while a stream writes into an otherwise empty buffer.
	Scroll bool `toml:"scroll"`
}

// LogSettings configures logging.
type LogSettings struct {
	// Level is the minimum level emitted: debug, info, warn or error.
	Level string `toml:"level"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		TabWidth: textcol.DefaultTabWidth,
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load reads settings from path, applying defaults for anything the
// file leaves out. A missing file is not an error; defaults apply.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if s.TabWidth < 1 {
		s.TabWidth = textcol.DefaultTabWidth
	}
	return s, nil
}
