package mustache

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultExtension is the file extension FileSystemLoader appends to
// template names.
const DefaultExtension = "mustache"

// FileSystemLoader resolves template names to files under a root
// directory, appending the configured extension. It reports file
// modification times, so it supports the CheckFreshness cache policy.
type FileSystemLoader struct {
	Root string
	Ext  string
}

// NewFileSystemLoader creates a loader rooted at dir using the default
// extension.
func NewFileSystemLoader(dir string) *FileSystemLoader {
	return &FileSystemLoader{Root: dir, Ext: DefaultExtension}
}

func (l *FileSystemLoader) path(name string) string {
	ext := l.Ext
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Join(l.Root, name+"."+ext)
}

// Load reads the template file for name.
func (l *FileSystemLoader) Load(name string) (string, error) {
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ModTime returns the modification time of the template file for name.
func (l *FileSystemLoader) ModTime(name string) (time.Time, error) {
	info, err := os.Stat(l.path(name))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
