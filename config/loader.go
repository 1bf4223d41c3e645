package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file probes the loader makes, so resolution can
// be tested without touching disk.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem backs FileSystem with the OS.
type RealFileSystem struct{}

func (*RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (*RealFileSystem) LoadEnv(path string) error { return godotenv.Load(path) }

// LoaderConfig carries the loader's dependencies and file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	// ConfigFile, when set, bypasses the config search.
	ConfigFile string
	// EnvFile, when set, bypasses the .env search.
	EnvFile string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem substitutes the filesystem used for probing and env loading.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile pins an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile pins an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Resolver locates the config.yml and .env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles holds the paths the resolver settled on; empty means not
// found, which the loader treats as "env only".
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths untouched and searches the standard
// locations for whatever is missing.
func (r *Resolver) ResolveFiles(service string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.firstExisting(configSearchPaths(service))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.firstExisting(envSearchPaths(service))
	}
	return files
}

func (r *Resolver) firstExisting(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// configSearchPaths lists where config.yml may live. Running from the repo
// root and from cmd/<service> are both supported.
func configSearchPaths(service string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", service),
		"./config.yml",
		"./config/config.yml",
		fmt.Sprintf("../cmd/%s/config.yml", service),
		"../config.yml",
	}
}

// envSearchPaths prefers a service-specific .env over the generic one.
func envSearchPaths(service string) []string {
	dirs := []string{".", fmt.Sprintf("./cmd/%s", service), ".."}
	paths := make([]string, 0, 2*len(dirs))
	for _, name := range []string{".env." + service, ".env"} {
		for _, dir := range dirs {
			paths = append(paths, dir+"/"+name)
		}
	}
	return paths
}

// LoadConfig fills cfg for the named service. Sources are layered: config.yml
// first, then the .env file, then process environment variables, with later
// sources winning. Missing files are not an error; an unmarshalable result is.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(service, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "[config] skipping unreadable config file %s: %v\n", files.ConfigFile, err)
		}
	}

	v.AutomaticEnv()
	bindEnviron(v)

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] skipping unreadable .env file %s: %v\n", files.EnvFile, err)
		} else {
			// Pick up the variables the .env file just introduced.
			bindEnviron(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unmarshaling %s config: %w", service, err)
	}
	return nil
}

// bindEnviron force-sets every environment variable under each viper key it
// could address. AutomaticEnv alone cannot reach keys nested under yaml
// sections.
func bindEnviron(v *viper.Viper) {
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants maps an environment key onto the viper keys it could
// address: OPENAI_API_KEY yields openai_api_key, openai.api.key, and the
// section split openai.api_key; DATABASE_MAX_OPEN_CONNS additionally yields
// database.max_open_conns.
func envKeyVariants(key string) []string {
	lower := strings.ToLower(key)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
