// Package config handles command-line flags and the optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/joe/png-scan/pkg/enumerator"
	"github.com/joe/png-scan/pkg/filesystem"
)

// Exported constants.
const (
	DefaultPattern  = "*.png"
	DefaultInterval = 200 * time.Millisecond
	DefaultLogLevel = "info"
	// DefaultConfigName is looked up in the home directory.
	DefaultConfigName = ".png-scan.yaml"
)

// Exported variables.
var (
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrInvalidMaxSize  = errors.New("max size must not be negative")
	ErrNoFileTypes     = errors.New("types must include files or dirs")
	ErrInvalidExclude  = errors.New("invalid --exclude glob")
)

// Config holds the application configuration.
type Config struct {
	Path      string                  `arg:"-p,--path" help:"Root to scan: a local file or directory, or sftp://user@host[:port]/path"`
	Pattern   string                  `arg:"--pattern" help:"Name pattern; separate alternatives with ';'"`
	Exclude   string                  `arg:"--exclude" help:"Skip files whose path below the root matches this glob (e.g. **/thumbs/**)"`
	Recursive bool                    `arg:"-r,--recursive" help:"Descend into subdirectories (--recursive=false to stay in the root)"`
	Policy    enumerator.SearchPolicy `arg:"--policy" help:"Where the pattern applies: match-only|all"`
	Types     enumerator.FileType     `arg:"--types" help:"Entries to return: files|dirs|all"`
	DotDot    bool                    `arg:"--dotdot" help:"Also return the '..' entry of listed directories"`
	Confine   bool                    `arg:"--confine" help:"Resolve every path of a local scan inside the root; links cannot lead outside it"`
	Interval  time.Duration           `arg:"--interval" help:"Time between checked files"`
	MaxSize   int64                   `arg:"--max-size" help:"Maximum bytes read per file (0 = unlimited)"`
	Plain     bool                    `arg:"--plain" help:"Log to the console instead of running the terminal UI"`
	About     bool                    `arg:"--about" help:"Print CPU features and exit"`
	LogLevel  string                  `arg:"--log-level" help:"Console log level: trace|debug|info|warn|error"`
	File      string                  `arg:"--config" help:"YAML config file (default ~/.png-scan.yaml)"`

	InteractiveMode bool `arg:"-i,--interactive" help:"Ask for the root in the terminal UI"`
}

// Description returns the program description for go-arg.
func (Config) Description() string {
	return "Scan a directory tree for PNG images and check that each one decodes"
}

// Version returns the version string for go-arg.
func (Config) Version() string {
	return "png-scan 1.0.0"
}

// FileTypes returns the enumerator file type flags, including --dotdot.
func (cfg *Config) FileTypes() enumerator.FileType {
	if cfg.DotDot {
		return cfg.Types | enumerator.IncludeDotDot
	}

	return cfg.Types
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Pattern:   DefaultPattern,
		Recursive: true,
		Policy:    enumerator.All,
		Types:     enumerator.Files,
		Interval:  DefaultInterval,
		LogLevel:  DefaultLogLevel,
	}
}

// ParseFlags parses os.Args, exiting on --help, --version and usage errors.
func ParseFlags() (*Config, error) {
	probe := &Config{}
	parser := arg.MustParse(probe)

	cfg, err := Load(os.Args[1:], probe.File, defaultConfigPath())
	if err != nil {
		parser.Fail(err.Error())
	}

	return PostProcessConfig(cfg)
}

// Load builds a configuration from defaults, then the YAML file, then args.
// An explicit file must exist; the fallback file may be missing.
func Load(args []string, explicitFile, fallbackFile string) (*Config, error) {
	cfg := Defaults()

	switch {
	case explicitFile != "":
		if err := loadFile(cfg, explicitFile, false); err != nil {
			return nil, err
		}
	case fallbackFile != "":
		if err := loadFile(cfg, fallbackFile, true); err != nil {
			return nil, err
		}
	}

	parser, err := arg.NewParser(arg.Config{Program: "png-scan"}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build flag parser: %w", err)
	}

	if err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	return cfg, nil
}

// PostProcessConfig applies post-processing logic to a parsed config.
func PostProcessConfig(cfg *Config) (*Config, error) {
	// Without a root the terminal UI asks for one.
	if cfg.Path == "" && !cfg.Plain && !cfg.About {
		cfg.InteractiveMode = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option values and, outside interactive mode, the root.
func (cfg *Config) Validate() error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, cfg.Interval)
	}

	if cfg.MaxSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSize, cfg.MaxSize)
	}

	if cfg.Types&(enumerator.Files|enumerator.Directories) == 0 {
		return ErrNoFileTypes
	}

	if err := filesystem.ValidatePattern(cfg.Pattern); err != nil {
		return fmt.Errorf("invalid --pattern: %w", err)
	}

	if cfg.Exclude != "" && !doublestar.ValidatePattern(cfg.Exclude) {
		return fmt.Errorf("%w: %q", ErrInvalidExclude, cfg.Exclude)
	}

	if cfg.InteractiveMode || cfg.About {
		return nil
	}

	return ValidateRoot(cfg.Path)
}

// ValidateRoot checks that a root is given, that sftp roots parse and that
// local roots exist.
func ValidateRoot(path string) error {
	if path == "" {
		return errors.New("path is required") //nolint:err113 // Simple validation error
	}

	root, err := filesystem.ParseRoot(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	if root.Remote {
		return nil
	}

	if _, err := os.Stat(root.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("path does not exist: %s", root.Path) //nolint:err113 // Validation error with the offending path
		}

		return fmt.Errorf("cannot access path: %w", err)
	}

	return nil
}

// fileConfig mirrors the keys allowed in the YAML file. Absent keys keep the
// current value.
type fileConfig struct {
	Path      *string                  `yaml:"path"`
	Pattern   *string                  `yaml:"pattern"`
	Exclude   *string                  `yaml:"exclude"`
	Recursive *bool                    `yaml:"recursive"`
	Policy    *enumerator.SearchPolicy `yaml:"policy"`
	Types     *enumerator.FileType     `yaml:"types"`
	DotDot    *bool                    `yaml:"dotdot"`
	Confine   *bool                    `yaml:"confine"`
	Interval  *time.Duration           `yaml:"interval"`
	MaxSize   *int64                   `yaml:"max_size"`
	Plain     *bool                    `yaml:"plain"`
	LogLevel  *string                  `yaml:"log_level"`
}

func loadFile(cfg *Config, path string, optional bool) error {
	file, err := os.Open(path) // #nosec G304 - config path comes from the user
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("failed to open config file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	return applyYAML(cfg, file, path)
}

func applyYAML(cfg *Config, r io.Reader, name string) error {
	var fc fileConfig

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", name, err)
	}

	setIf(&cfg.Path, fc.Path)
	setIf(&cfg.Pattern, fc.Pattern)
	setIf(&cfg.Exclude, fc.Exclude)
	setIf(&cfg.Recursive, fc.Recursive)
	setIf(&cfg.Policy, fc.Policy)
	setIf(&cfg.Types, fc.Types)
	setIf(&cfg.DotDot, fc.DotDot)
	setIf(&cfg.Confine, fc.Confine)
	setIf(&cfg.Interval, fc.Interval)
	setIf(&cfg.MaxSize, fc.MaxSize)
	setIf(&cfg.Plain, fc.Plain)
	setIf(&cfg.LogLevel, fc.LogLevel)

	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, DefaultConfigName)
}
