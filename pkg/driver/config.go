package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"lox/interpreter-go/pkg/interpreter"
)

// ConfigFileName is looked up from the working directory upward.
const ConfigFileName = "lox.yml"

// DefaultExclude lists directory names the module locator never enters.
var DefaultExclude = []string{"target", "build", "bin", "dist", "node_modules", ".git"}

// Config is the resolved contents of lox.yml merged over the defaults.
type Config struct {
	// Path is the file the configuration was read from; empty when only
	// defaults apply.
	Path string

	ModuleRoot       string
	Exclude          []string
	RespectGitignore bool
	MaxCallDepth     int
	LogLevel         string
	HistoryFile      string
	Prompt           string
}

type configFile struct {
	ModuleRoot       string   `yaml:"module_root"`
	Exclude          []string `yaml:"exclude"`
	RespectGitignore *bool    `yaml:"respect_gitignore"`
	MaxCallDepth     *int     `yaml:"max_call_depth"`
	LogLevel         string   `yaml:"log_level"`
	HistoryFile      string   `yaml:"history_file"`
	Prompt           *string  `yaml:"prompt"`
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the configuration used when no lox.yml exists.
// workDir becomes the module root.
func DefaultConfig(workDir string) *Config {
	history := ".lox_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".lox_history")
	}
	return &Config{
		ModuleRoot:       workDir,
		Exclude:          append([]string(nil), DefaultExclude...),
		RespectGitignore: true,
		MaxCallDepth:     interpreter.DefaultMaxCallDepth,
		LogLevel:         logrus.WarnLevel.String(),
		HistoryFile:      history,
		Prompt:           ">> ",
	}
}

// FindConfig walks from start toward the filesystem root and returns the
// first lox.yml found, or "" when there is none.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("config: resolve %s: %w", start, err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadConfig parses path over the defaults. Relative module_root and
// history_file values are taken relative to the file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	baseDir := filepath.Dir(absPath)
	cfg := raw.toConfig(DefaultConfig(baseDir), baseDir)
	cfg.Path = absPath
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw configFile) toConfig(cfg *Config, baseDir string) *Config {
	if raw.ModuleRoot != "" {
		cfg.ModuleRoot = resolvePath(baseDir, raw.ModuleRoot)
	}
	if raw.Exclude != nil {
		cfg.Exclude = raw.Exclude
	}
	if raw.RespectGitignore != nil {
		cfg.RespectGitignore = *raw.RespectGitignore
	}
	if raw.MaxCallDepth != nil {
		cfg.MaxCallDepth = *raw.MaxCallDepth
	}
	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	if raw.HistoryFile != "" {
		cfg.HistoryFile = resolvePath(baseDir, raw.HistoryFile)
	}
	if raw.Prompt != nil {
		cfg.Prompt = *raw.Prompt
	}
	return cfg
}

func resolvePath(baseDir, p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(baseDir, p)
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be positive, got %d", c.MaxCallDepth))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q is not a valid level", c.LogLevel))
	}
	for i, dir := range c.Exclude {
		if dir == "" || strings.ContainsRune(dir, filepath.Separator) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("exclude[%d] must be a plain directory name", i))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}
