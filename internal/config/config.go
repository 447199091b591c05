// ABOUTME: Options loading with global + project config merge via viper
// ABOUTME: YAML files, IREPL_* environment overrides, and bound CLI flags

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Options holds the merged configuration.
type Options struct {
	Shadow   ShadowOptions   `mapstructure:"shadow"`
	Watch    WatchOptions    `mapstructure:"watch"`
	Classify ClassifyOptions `mapstructure:"classify"`
	Hooks    HookOptions     `mapstructure:"hooks"`
	Scripts  []string        `mapstructure:"scripts"`
	Log      LogOptions      `mapstructure:"log"`
}

// ShadowOptions configures the build-and-run tool.
type ShadowOptions struct {
	Dir     string `mapstructure:"dir"`
	Command string `mapstructure:"command"`
}

// WatchOptions configures the external file watcher.
type WatchOptions struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// ClassifyOptions configures the build output classifier.
type ClassifyOptions struct {
	ProgressMarker    string   `mapstructure:"progress_marker"`
	DiagnosticMarkers []string `mapstructure:"diagnostic_markers"`
}

// HookOptions configures plugin invocation.
type HookOptions struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogOptions configures diagnostics.
type LogOptions struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-file":   "log.file",
	"shadow-dir": "shadow.dir",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("shadow.dir", DefaultShadowDir())
	v.SetDefault("shadow.command", "cargo run --color never")
	v.SetDefault("watch.debounce", 2*time.Second)
	v.SetDefault("classify.progress_marker", "Compiling")
	v.SetDefault("classify.diagnostic_markers", []string{"warning", "error"})
	v.SetDefault("hooks.timeout", 10*time.Second)
	v.SetDefault("scripts", []string{})
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
}

// Load reads global then project config, applies IREPL_* environment
// variables, then any changed flags in fs. fs may be nil.
func Load(projectRoot string, fs *pflag.FlagSet) (*Options, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	for _, path := range []string{GlobalConfigFile(), ProjectConfigFile(projectRoot)} {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix("IREPL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var o Options
	if err := v.Unmarshal(&o); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &o, nil
}

// mergeFile merges one YAML file into v. Missing files are ignored.
func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ShadowCommand splits the configured build-and-run command into argv.
func (o *Options) ShadowCommand() []string {
	return strings.Fields(o.Shadow.Command)
}

// ScriptCommands splits every configured script command line into argv,
// skipping blank entries.
func (o *Options) ScriptCommands() [][]string {
	var cmds [][]string
	for _, line := range o.Scripts {
		if argv := strings.Fields(line); len(argv) > 0 {
			cmds = append(cmds, argv)
		}
	}
	return cmds
}
