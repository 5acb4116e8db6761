package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# mouse selection (TUI-mode only)
mouse: false
# page size in cells; 0 uses the terminal size
width: 0
height: 0
# write debug logs
debug: false

selection:
  # longest span, in characters, that can become a clip
  max_length: 500

layout:
  # how "pages" measures text: terminal (cells and rows) or font (pixels)
  measurer: "terminal"
  font:
    size: 16
    # 0 means 1.2 times the font size
    line_height: 0
    width: 600
    height: 800

# Audio generation. Leave engine empty to read without generating.
synth:
  # piper or gtts
  engine: ""
  # piper speaker id or gtts language; empty uses the engine default
  voice: ""
  speed: 1.0
  # output_dir: "~/sampler/clips"

  piper:
    binary: "piper"
    # model: "~/voices/en_US-lessac-medium.onnx"
    sample_rate: 22050
    timeout: "30s"

  gtts:
    binary: "gtts-cli"
    language: "en"
    slow: false
    requests_per_minute: 50
    timeout: "30s"

  cache:
    # dir: "~/.cache/sampler/clips"
    # megabytes; 0 disables the cache
    max_size: 256
    # zstd level, 0 stores clips uncompressed
    compression: 3
    # clips unused for this long are dropped at startup; 0 keeps them
    max_age: "720h"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the sampler config file",
	Long:    paragraph(fmt.Sprintf("\n%s the sampler config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("sampler config\nsampler config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Sampler", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
