package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths, resolved to absolute form.
// This is the single source of truth for file locations.
type Paths struct {
	BaseDir        string
	DatasetFile    string
	DatasetDir     string
	RecipientsFile string
	WebDir         string
	StaticDir      string
	LogsDir        string
}

// ResolvePaths resolves cfg against its base directory. An empty BaseDir
// selects the working directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p, fallback string) string {
		if p == "" {
			p = fallback
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	dataset := resolve(cfg.DatasetFile, DefaultDatasetFile)
	web := resolve(cfg.WebDir, DefaultWebDir)
	return &Paths{
		BaseDir:        base,
		DatasetFile:    dataset,
		DatasetDir:     filepath.Dir(dataset),
		RecipientsFile: resolve(cfg.RecipientsFile, DefaultRecipientsFile),
		WebDir:         web,
		StaticDir:      filepath.Join(web, "static"),
		LogsDir:        resolve(cfg.LogsDir, DefaultLogsDir),
	}, nil
}

// Config converts p back to its configuration form
func (p *Paths) Config() PathsConfig {
	return PathsConfig{
		BaseDir:        p.BaseDir,
		DatasetFile:    p.DatasetFile,
		RecipientsFile: p.RecipientsFile,
		WebDir:         p.WebDir,
		LogsDir:        p.LogsDir,
	}
}

// EnsureDirectories creates the directories the server writes to
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DatasetDir,
		filepath.Dir(p.RecipientsFile),
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetLogPath returns the full path of a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("dataset", p.DatasetDir),
			slog.String("logs", p.LogsDir),
			slog.String("web", p.WebDir),
		),
		slog.Group("files",
			slog.String("dataset", p.DatasetFile),
			slog.String("recipients", p.RecipientsFile),
		))
}
