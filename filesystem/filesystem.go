package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrFileNotFound = fmt.Errorf("filesystem: file not found")
	ErrInvalidPath  = fmt.Errorf("filesystem: invalid path")
)

// Filesystem is the file access the server needs: reading whole files and
// telling regular files apart from directories and missing paths.
type Filesystem interface {
	ReadFile(path string) ([]byte, error)
	IsFile(path string) (bool, error)
}

type localFileSystem struct {
}

func NewLocalFileSystem() Filesystem {
	return &localFileSystem{}
}

func (filesystem *localFileSystem) ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	return content, nil
}

func (filesystem *localFileSystem) IsFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return info.Mode().IsRegular(), nil
}

// PublicDir resolves request paths to files below a root directory.
type PublicDir struct {
	fs   Filesystem
	root string
}

func NewPublicDir(fs Filesystem, root string) PublicDir {
	return PublicDir{fs: fs, root: root}
}

func (dir PublicDir) Root() string {
	return dir.root
}

// Resolve maps a request path to a path below the root. The request path is
// cleaned as an absolute path first, so ".." segments cannot climb out of
// the root.
func (dir PublicDir) Resolve(requestPath string) (string, error) {
	if strings.IndexByte(requestPath, 0) >= 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, requestPath)
	}

	cleaned := filepath.Clean("/" + filepath.FromSlash(requestPath))
	relative := strings.TrimPrefix(cleaned, string(filepath.Separator))
	if relative == "" {
		return dir.root, nil
	}

	return filepath.Join(dir.root, relative), nil
}

// Lookup returns the resolved path when it names a regular file.
func (dir PublicDir) Lookup(requestPath string) (string, bool) {
	if dir.fs == nil {
		return "", false
	}

	path, err := dir.Resolve(requestPath)
	if err != nil {
		return "", false
	}

	isFile, err := dir.fs.IsFile(path)
	if err != nil {
		slog.Error("checking static file failed", "path", path, "error", err)
		return "", false
	}

	return path, isFile
}

func (dir PublicDir) ReadFile(path string) ([]byte, error) {
	return dir.fs.ReadFile(path)
}

func GetFileExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
