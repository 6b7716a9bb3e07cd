package sizefs

import (
	"fmt"

	"github.com/mwantia/sizefs/log"
	"github.com/mwantia/sizefs/metrics"
	"github.com/mwantia/sizefs/resolver"
	"github.com/mwantia/sizefs/size"
)

type FileSystemOptions struct {
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger

	Seed        []byte
	Units       *size.Units
	Directories []PatternDirectory
	ListedSizes []string

	Metrics    *metrics.Metrics
	MaxHandles int
}

// PatternDirectory is an additional directory rule, see content.ParsePattern.
type PatternDirectory struct {
	Name    string
	Pattern string
}

type FileSystemOption func(*FileSystemOptions) error

func newDefaultFileSystemOptions() *FileSystemOptions {
	return &FileSystemOptions{
		LogLevel:    log.Info,
		Seed:        []byte(resolver.DefaultSeed),
		Units:       size.JEDECUnits,
		ListedSizes: DefaultListedSizes,
	}
}

func WithLogLevel(logLevel log.LogLevel) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithLogger replaces the logger built from the log options.
func WithLogger(logger *log.Logger) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		opts.Logger = logger
		return nil
	}
}

func WithSeed(seed []byte) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Seed = append([]byte(nil), seed...)
		return nil
	}
}

// WithUnits sets the unit table for filenames. Defaults to size.JEDECUnits.
func WithUnits(units *size.Units) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if units == nil {
			return fmt.Errorf("unit table cannot be nil")
		}
		opts.Units = units
		return nil
	}
}

// WithPatternDirectory registers a directory whose files use pattern,
// e.g. WithPatternDirectory("hex", "[0-9,a-f]").
func WithPatternDirectory(name, pattern string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Directories = append(opts.Directories, PatternDirectory{Name: name, Pattern: pattern})
		return nil
	}
}

// WithListedSizes replaces the size tokens returned by ReadDirectory.
func WithListedSizes(sizes ...string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.ListedSizes = append([]string(nil), sizes...)
		return nil
	}
}

func WithMetrics(m *metrics.Metrics) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Metrics = m
		return nil
	}
}

// WithMaxHandles limits the number of simultaneously open handles; 0 means unlimited.
func WithMaxHandles(n int) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if n < 0 {
			return fmt.Errorf("max handles cannot be negative")
		}
		opts.MaxHandles = n
		return nil
	}
}

func (opts *FileSystemOptions) resolverOptions() []resolver.Option {
	ropts := []resolver.Option{
		resolver.WithSeed(opts.Seed),
		resolver.WithUnits(opts.Units),
	}
	for _, dir := range opts.Directories {
		ropts = append(ropts, resolver.WithRuleExpr(dir.Name, dir.Pattern))
	}
	return ropts
}
