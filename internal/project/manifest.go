package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"exprc/internal/arith"
)

// ManifestName is the project file searched for upwards from the working dir.
const ManifestName = "exprc.toml"

const unitExt = ".unit.toml"

var (
	// ErrPackageSectionMissing indicates that [package] is missing in the manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Manifest is a loaded exprc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors exprc.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Target         string   `toml:"target"`
	Jobs           int      `toml:"jobs"`
	OutDir         string   `toml:"out_dir"`
	Units          []string `toml:"units"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Cache          *bool    `toml:"cache"`
}

// Find walks up from startDir looking for exprc.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the nearest manifest. ok is false when none exists.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if _, err := arith.ParseTarget(cfg.Build.Target); err != nil {
		return Config{}, fmt.Errorf("%s: [build].target: %w", path, err)
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if cfg.Build.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [build].max_diagnostics must not be negative", path)
	}
	return cfg, nil
}

// OutDir returns the absolute artifact directory (default "build").
func (m *Manifest) OutDir() string {
	out := strings.TrimSpace(m.Config.Build.OutDir)
	if out == "" {
		out = "build"
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}

// CacheEnabled reports the [build].cache setting (default true).
func (m *Manifest) CacheEnabled() bool {
	return m.Config.Build.Cache == nil || *m.Config.Build.Cache
}

// UnitFiles expands [build].units globs relative to the project root.
// Without patterns every *.unit.toml below the root is used.
func (m *Manifest) UnitFiles() ([]string, error) {
	if len(m.Config.Build.Units) == 0 {
		return ListUnits(m.Root)
	}
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range m.Config.Build.Units {
		matches, err := filepath.Glob(filepath.Join(m.Root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("%s: bad units pattern %q: %w", m.Path, pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// ListUnits возвращает отсортированный список всех *.unit.toml файлов в директории
func ListUnits(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, unitExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
