package rconfig

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vuecore/vuecore/internal/rerrors"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the project configuration file name, JSON-shaped
	// (the teacher's vango.json shape: paths, dev server, build output).
	FileName = "vuecore.json"

	// ManifestFileName is the alternate, YAML-shaped project file: a
	// component manifest (name -> template file -> script file) rather
	// than server/build settings.
	ManifestFileName = "vuecore.yaml"

	// DefaultPort is the default dev server port.
	DefaultPort = 5173

	// DefaultHost is the default dev server bind address.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultRegistry is the default component registry endpoint.
	DefaultRegistry = "https://registry.vuecore.dev/index.json"
)

// Config is the project configuration schema. Loaded from vuecore.json
// (server/build settings) or vuecore.yaml (a Components manifest);
// LoadFile picks the decoder by extension.
type Config struct {
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Version  string         `json:"version,omitempty" yaml:"version,omitempty"`
	Template TemplateConfig `json:"template,omitempty" yaml:"template,omitempty"`
	Dev      DevConfig      `json:"dev,omitempty" yaml:"dev,omitempty"`
	Build    BuildConfig    `json:"build,omitempty" yaml:"build,omitempty"`
	Registry RegistryConfig `json:"registry,omitempty" yaml:"registry,omitempty"`

	// Components is only populated when Config is loaded from a
	// vuecore.yaml manifest: component name -> its source files.
	Components map[string]ComponentEntry `json:"components,omitempty" yaml:"components,omitempty"`

	path string
}

// ComponentEntry names a single component's source files, as declared
// in a vuecore.yaml manifest.
type ComponentEntry struct {
	Template string `json:"template,omitempty" yaml:"template,omitempty"`
	Script   string `json:"script,omitempty" yaml:"script,omitempty"`
}

// TemplateConfig controls the HTML/text parser and static optimizer.
type TemplateConfig struct {
	// Delimiters is the mustache interpolation pair, default ["{{", "}}"].
	Delimiters []string `json:"delimiters,omitempty" yaml:"delimiters,omitempty"`

	// ExpectHTML enables HTML5 auto-close heuristics (paragraph/li/etc).
	ExpectHTML bool `json:"expectHTML,omitempty" yaml:"expectHTML,omitempty"`

	// KeepComments preserves HTML comments in the parsed output.
	KeepComments bool `json:"keepComments,omitempty" yaml:"keepComments,omitempty"`

	// OptimizeStatic enables the static-node/static-root marking pass.
	OptimizeStatic bool `json:"optimizeStatic,omitempty" yaml:"optimizeStatic,omitempty"`
}

// DevConfig controls the live-reload dev server (pkg/devserver).
type DevConfig struct {
	Port      int      `json:"port,omitempty" yaml:"port,omitempty"`
	Host      string   `json:"host,omitempty" yaml:"host,omitempty"`
	HotReload bool     `json:"hotReload,omitempty" yaml:"hotReload,omitempty"`
	Watch     []string `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// BuildConfig controls production builds.
type BuildConfig struct {
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Minify bool   `json:"minify,omitempty" yaml:"minify,omitempty"`
}

// RegistryConfig points at the component registry (pkg/registry).
type RegistryConfig struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
}

// New returns a Config filled in with defaults.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Template: TemplateConfig{
			Delimiters:     []string{"{{", "}}"},
			ExpectHTML:     true,
			OptimizeStatic: true,
		},
		Dev: DevConfig{
			Port:      DefaultPort,
			Host:      DefaultHost,
			HotReload: true,
			Watch:     []string{"src", "public"},
		},
		Build: BuildConfig{
			Output: DefaultOutput,
			Minify: true,
		},
		Registry: RegistryConfig{
			Endpoint: DefaultRegistry,
		},
	}
}

// Load reads vuecore.json from dir, falling back to vuecore.yaml.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if yamlPath := filepath.Join(dir, ManifestFileName); fileExists(yamlPath) {
			path = yamlPath
		}
	}
	return LoadFile(path)
}

// LoadFile reads and parses a config file at an explicit path, choosing
// JSON or YAML by its extension (.json vs .yaml/.yml).
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rerrors.New("C002").
				WithDetail("No " + FileName + " or " + ManifestFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create a " + FileName + " or " + ManifestFileName + " in the project directory")
		}
		return nil, rerrors.New("C001").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, rerrors.New("C001").
				WithDetail("failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("check that " + filepath.Base(path) + " is valid YAML")
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, rerrors.New("C001").
				WithDetail("failed to parse " + filepath.Base(path) + ": " + err.Error()).
				WithSuggestion("check that " + filepath.Base(path) + " is valid JSON")
		}
	}
	cfg.path = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return rerrors.Newf(rerrors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the config to an explicit path, encoding as JSON or
// YAML by extension.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return rerrors.New("C001").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return rerrors.New("C001").Wrap(err)
	}
	c.path = path
	return nil
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (c *Config) applyDefaults() {
	if len(c.Template.Delimiters) != 2 {
		c.Template.Delimiters = []string{"{{", "}}"}
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"src", "public"}
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Registry.Endpoint == "" {
		c.Registry.Endpoint = DefaultRegistry
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return rerrors.New("C001").WithDetail("dev.port must be between 0 and 65535")
	}
	if len(c.Template.Delimiters) != 2 {
		return rerrors.New("C001").WithDetail("template.delimiters must have exactly two entries")
	}
	return nil
}

// Path returns the file the config was loaded from, or "" if unsaved.
func (c *Config) Path() string { return c.path }

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// DevAddress returns "host:port" for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// OutputPath returns the absolute build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Build.Output) {
		return c.Build.Output
	}
	return filepath.Join(c.Dir(), c.Build.Output)
}

// Exists checks whether a vuecore.json or vuecore.yaml file exists in dir.
func Exists(dir string) bool {
	return fileExists(filepath.Join(dir, FileName)) || fileExists(filepath.Join(dir, ManifestFileName))
}

// FindProjectRoot walks up from startDir looking for vuecore.json/vuecore.yaml.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", rerrors.New("C002").
				WithDetail("no " + FileName + " or " + ManifestFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
