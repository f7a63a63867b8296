package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/weaver-dev/weaver/internal/werrors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weaver.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultRPCPath is the default RPC endpoint path.
	DefaultRPCPath = "/weaver/execute"

	// DefaultWorkerPoolSize is the default number of worker goroutines
	// a server process runs logic modules on.
	DefaultWorkerPoolSize = 4

	// DefaultSuspenseTimeoutMS is the default suspense-region deadline
	// applied when a logic signal's Timeout is unset.
	DefaultSuspenseTimeoutMS = 3000
)

// Config represents the complete weaver.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Port is the default server port (convenience field, also in Dev).
	Port int `json:"port,omitempty"`

	// Paths contains path configuration for various directories.
	Paths PathsConfig `json:"paths,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains production build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Tailwind contains Tailwind CSS configuration.
	Tailwind TailwindConfig `json:"tailwind,omitempty"`

	// RPC contains the execute-endpoint configuration.
	RPC RPCConfig `json:"rpc,omitempty"`

	// Worker contains the logic-module worker pool configuration.
	Worker WorkerConfig `json:"worker,omitempty"`

	// Suspense contains default suspense-region timeout configuration.
	Suspense SuspenseConfig `json:"suspense,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PathsConfig contains path configuration for project directories.
type PathsConfig struct {
	// Routes is the path to the routes directory.
	Routes string `json:"routes,omitempty"`

	// Components is the path to the components directory.
	Components string `json:"components,omitempty"`

	// Logic is the path to the directory containing logic modules
	// (the JS/TS sources that signal.NewLogic src paths resolve
	// against, and what the build-time transform in internal/build
	// scans for define* calls).
	Logic string `json:"logic,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files (default: "/").
	Prefix string `json:"prefix,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Port is the port to run the dev server on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// OpenBrowser opens the browser automatically on start.
	OpenBrowser bool `json:"openBrowser,omitempty"`

	// HTTPS enables HTTPS for the dev server.
	HTTPS bool `json:"https,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// HotReload enables hot reload in development.
	HotReload bool `json:"hotReload,omitempty"`
}

// BuildConfig contains production build settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty"`

	// Minify enables minification.
	Minify bool `json:"minify,omitempty"`

	// StripSymbols strips debug symbols from the binary (-ldflags="-s -w").
	StripSymbols bool `json:"stripSymbols,omitempty"`

	// SourceMaps enables source map generation.
	SourceMaps bool `json:"sourceMaps,omitempty"`

	// Target is the Go build target (e.g., "linux/amd64").
	Target string `json:"target,omitempty"`

	// LDFlags are additional linker flags for go build.
	LDFlags string `json:"ldflags,omitempty"`

	// Tags are build tags to pass to go build.
	Tags []string `json:"tags,omitempty"`

	// S3 configures where built logic-module bundles and the manifest
	// are uploaded for CDN-fronted serving. Zero value means "don't upload, serve from Public".
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config configures the object-storage destination for built assets.
type S3Config struct {
	// Bucket is the destination bucket name. Empty disables upload.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the key prefix objects are uploaded under.
	Prefix string `json:"prefix,omitempty"`

	// Region is the bucket's AWS region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores
	// (MinIO, R2, ...).
	Endpoint string `json:"endpoint,omitempty"`

	// PublicBaseURL is prepended to object keys to form the manifest's
	// public URLs (typically a CDN domain fronting the bucket).
	PublicBaseURL string `json:"publicBaseUrl,omitempty"`
}

// TailwindConfig contains Tailwind CSS settings.
type TailwindConfig struct {
	// Enabled controls whether Tailwind CSS is used.
	Enabled bool `json:"enabled,omitempty"`

	// Config is the path to tailwind.config.js.
	Config string `json:"config,omitempty"`

	// Input is the input CSS file.
	Input string `json:"input,omitempty"`

	// Output is the output CSS file.
	Output string `json:"output,omitempty"`
}

// RPCConfig configures the execute-endpoint.
type RPCConfig struct {
	// Path is the route the handler-execute RPC is mounted at.
	Path string `json:"path,omitempty"`
}

// WorkerConfig configures the logic-module worker pool.
type WorkerConfig struct {
	// PoolSize is the number of worker goroutines a server process
	// runs logic execution on.
	PoolSize int `json:"poolSize,omitempty"`
}

// SuspenseConfig configures suspense-region defaults.
type SuspenseConfig struct {
	// DefaultTimeoutMS is applied to a logic signal whose own Timeout
	// is unset.
	DefaultTimeoutMS int `json:"defaultTimeoutMs,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Port:    DefaultPort,
		Paths: PathsConfig{
			Routes:     "app/routes",
			Components: "app/components",
			Logic:      "app/logic",
		},
		Static: StaticConfig{
			Dir:    "public",
			Prefix: "/",
		},
		Dev: DevConfig{
			Port:        DefaultPort,
			Host:        DefaultHost,
			OpenBrowser: false,
			HotReload:   true,
			Watch:       []string{"app", "public"},
		},
		Build: BuildConfig{
			Output:       DefaultOutput,
			Minify:       true,
			StripSymbols: true,
		},
		RPC: RPCConfig{
			Path: DefaultRPCPath,
		},
		Worker: WorkerConfig{
			PoolSize: DefaultWorkerPoolSize,
		},
		Suspense: SuspenseConfig{
			DefaultTimeoutMS: DefaultSuspenseTimeoutMS,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for weaver.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, werrors.New("W006").
				WithDetail("No weaver.json found in " + filepath.Dir(path)).
				WithSuggestion("Create a weaver.json at the project root, or run `weaver build`/`weaver dev` from a directory that has one")
		}
		return nil, werrors.New("W006").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, werrors.New("W006").
			WithDetail("Failed to parse weaver.json: " + err.Error()).
			WithSuggestion("Check that weaver.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return werrors.Newf(werrors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return werrors.New("W006").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return werrors.New("W006").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = c.Port
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"app", "public"}
	}

	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}

	if c.Paths.Routes == "" {
		c.Paths.Routes = "app/routes"
	}
	if c.Paths.Components == "" {
		c.Paths.Components = "app/components"
	}
	if c.Paths.Logic == "" {
		c.Paths.Logic = "app/logic"
	}

	if c.Static.Dir == "" {
		c.Static.Dir = "public"
	}
	if c.Static.Prefix == "" {
		c.Static.Prefix = "/"
	}

	if c.RPC.Path == "" {
		c.RPC.Path = DefaultRPCPath
	}
	if c.Worker.PoolSize <= 0 {
		c.Worker.PoolSize = DefaultWorkerPoolSize
	}
	if c.Suspense.DefaultTimeoutMS <= 0 {
		c.Suspense.DefaultTimeoutMS = DefaultSuspenseTimeoutMS
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return werrors.New("W007").WithDetail("dev.port must be between 0 and 65535")
	}
	if c.Worker.PoolSize < 0 {
		return werrors.New("W007").WithDetail("worker.poolSize must not be negative")
	}
	if c.Suspense.DefaultTimeoutMS < 0 {
		return werrors.New("W007").WithDetail("suspense.defaultTimeoutMs must not be negative")
	}
	return nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	scheme := "http"
	if c.Dev.HTTPS {
		scheme = "https"
	}
	return scheme + "://" + c.DevAddress()
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Build.Output) {
		return c.Build.Output
	}
	return filepath.Join(c.Dir(), c.Build.Output)
}

// RoutesPath returns the absolute path to the routes directory.
func (c *Config) RoutesPath() string {
	path := c.Paths.Routes
	if path == "" {
		path = "app/routes"
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// ComponentsPath returns the absolute path to the components directory.
func (c *Config) ComponentsPath() string {
	path := c.Paths.Components
	if path == "" {
		path = "app/components"
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// LogicPath returns the absolute path to the logic-module source
// directory the build-time transform scans.
func (c *Config) LogicPath() string {
	path := c.Paths.Logic
	if path == "" {
		path = "app/logic"
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// PublicPath returns the absolute path to the public directory.
func (c *Config) PublicPath() string {
	path := c.Static.Dir
	if path == "" {
		path = "public"
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// StaticPrefix returns the URL prefix for static files.
func (c *Config) StaticPrefix() string {
	if c.Static.Prefix == "" {
		return "/"
	}
	return c.Static.Prefix
}

// HasTailwind returns true if Tailwind CSS is enabled.
func (c *Config) HasTailwind() bool {
	return c.Tailwind.Enabled
}

// TailwindConfigPath returns the absolute path to the Tailwind config.
func (c *Config) TailwindConfigPath() string {
	if c.Tailwind.Config == "" {
		return filepath.Join(c.Dir(), "tailwind.config.js")
	}
	if filepath.IsAbs(c.Tailwind.Config) {
		return c.Tailwind.Config
	}
	return filepath.Join(c.Dir(), c.Tailwind.Config)
}

// HasS3 returns true if built assets should be uploaded to object storage.
func (c *Config) HasS3() bool {
	return c.Build.S3.Bucket != ""
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing weaver.json, or an error if not found.
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
			return "", werrors.New("W006").
				WithDetail("No weaver.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	digits := make([]byte, 0, 10)
	for n > 0 {
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
