package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CleanedSuffix marks files written by the cleaner
const CleanedSuffix = "_cleaned"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds input tables on disk
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath. Relative directories
// and patterns are resolved against it.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// IsTableFile reports whether name has an extension the parser reads
func IsTableFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// isCandidate skips office lock files and earlier cleaner output
func isCandidate(name string) bool {
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return IsTableFile(name) && !strings.HasSuffix(stem, CleanedSuffix)
}

func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) || d.basePath == "" {
		return path
	}
	return filepath.Join(d.basePath, path)
}

// FindTables lists the table files directly inside dir, sorted by name
func (d *Discovery) FindTables(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var found []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !isCandidate(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sortByName(found)
	return found, nil
}

// FindByPattern lists the table files matching a glob pattern
func (d *Discovery) FindByPattern(pattern string) ([]FileInfo, error) {
	matches, err := filepath.Glob(d.resolve(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var found []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() || !isCandidate(info.Name()) {
			continue
		}
		found = append(found, FileInfo{
			Path:    match,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sortByName(found)
	return found, nil
}

// Resolve expands each argument into table files. Directories are listed,
// arguments with glob metacharacters are matched and anything else is taken
// as a file path. Duplicates are dropped, keeping first occurrence.
func (d *Discovery) Resolve(args ...string) ([]FileInfo, error) {
	var out []FileInfo
	seen := make(map[string]bool)
	add := func(files []FileInfo) {
		for _, f := range files {
			if !seen[f.Path] {
				seen[f.Path] = true
				out = append(out, f)
			}
		}
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			files, err := d.FindByPattern(arg)
			if err != nil {
				return nil, err
			}
			add(files)
			continue
		}

		path := d.resolve(arg)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			files, err := d.FindTables(path)
			if err != nil {
				return nil, err
			}
			add(files)
			continue
		}
		add([]FileInfo{{Path: path, Name: info.Name(), Size: info.Size(), ModTime: info.ModTime()}})
	}
	return out, nil
}

func sortByName(files []FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
}
