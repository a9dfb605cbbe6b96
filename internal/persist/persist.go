// Package persist saves and loads aggregate profiles. Saves rotate the
// previous file into a backup so an interrupted write never destroys the
// last good generation.
package persist

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
)

const (
	fileExt      = ".mtk"
	backupSuffix = ".old"
	tempSuffix   = ".tmp"
)

// Source reports where a loaded store came from.
type Source int

// Load sources.
const (
	SourceNew Source = iota
	SourceLive
	SourceBackup
)

func (s Source) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceBackup:
		return "backup"
	default:
		return "new"
	}
}

// Persister reads and writes profile files in one directory.
type Persister struct {
	dir         string
	compression Compression
	logger      *slog.Logger

	rename func(oldpath, newpath string) error
	remove func(name string) error
}

// New returns a Persister rooted at dir.
func New(dir string, compression Compression, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{
		dir:         dir,
		compression: compression,
		logger:      logger,
		rename:      os.Rename,
		remove:      os.Remove,
	}
}

// Dir returns the profile directory.
func (p *Persister) Dir() string {
	return p.dir
}

// Path returns the live file path for a profile.
func (p *Persister) Path(profile string) string {
	return filepath.Join(p.dir, SanitizeName(profile)+fileExt)
}

// BackupPath returns the backup file path for a profile.
func (p *Persister) BackupPath(profile string) string {
	return p.Path(profile) + backupSuffix
}

// Save writes the store for profile and returns the number of bytes
// written. The live file is replaced only after the new data is fully on
// disk; on failure the previous generation stays readable.
func (p *Persister) Save(store *aggregate.Store, profile string) (int, error) {
	data, err := Encode(store, p.compression)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create profile dir: %w", err)
	}

	livePath := p.Path(profile)
	backupPath := p.BackupPath(profile)
	tempPath := filepath.Join(p.dir, "."+SanitizeName(profile)+"."+uuid.NewString()+tempSuffix)

	if err := writeSynced(tempPath, data); err != nil {
		_ = p.remove(tempPath)
		return 0, fmt.Errorf("write temp file: %w", err)
	}

	if err := p.remove(backupPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("remove stale backup", "path", backupPath, "error", err)
	}
	if err := p.rename(livePath, backupPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.logger.Warn("rotate live file to backup", "path", livePath, "error", err)
	}
	if err := p.rename(tempPath, livePath); err != nil {
		if rerr := p.remove(tempPath); rerr != nil {
			p.logger.Warn("remove temp file", "path", tempPath, "error", rerr)
		}
		return 0, fmt.Errorf("replace profile file: %w", err)
	}
	return len(data), nil
}

func writeSynced(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Load reads a profile, falling back to its backup and then to an empty
// store. Unreadable files are logged, never returned as errors.
func (p *Persister) Load(profile string) (*aggregate.Store, Source) {
	if store, ok := p.loadFile(p.Path(profile)); ok {
		return store, SourceLive
	}
	if store, ok := p.loadFile(p.BackupPath(profile)); ok {
		p.logger.Warn("loaded profile from backup", "profile", profile)
		return store, SourceBackup
	}
	return aggregate.New(CurrentVersion), SourceNew
}

func (p *Persister) loadFile(path string) (*aggregate.Store, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("read profile file", "path", path, "error", err)
		}
		return nil, false
	}
	store, err := Decode(data)
	if err != nil {
		p.logger.Warn("decode profile file", "path", path, "error", err)
		return nil, false
	}
	return store, true
}

// Profiles lists the profile names stored on disk.
func (p *Persister) Profiles() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profile dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(names)
	return names, nil
}
