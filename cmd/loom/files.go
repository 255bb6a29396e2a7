package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/loom/core"
)

// maxRepoFileSize skips generated bundles and other oversized files.
const maxRepoFileSize = 512 * 1024

// skippedDirs are never descended into when walking a repository.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"target":       true,
}

// collectRepoFiles walks dir and returns its text files with paths relative
// to dir. Dot-directories, well-known dependency directories and binary
// files are skipped.
func collectRepoFiles(dir string) ([]core.RepoFile, error) {
	var files []core.RepoFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(name, ".") || skippedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() == 0 || info.Size() > maxRepoFileSize {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !isText(content) {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		files = append(files, core.RepoFile{
			Path:    filepath.ToSlash(rel),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// isText reports whether content looks like text: valid UTF-8 with no NUL
// bytes in the leading window.
func isText(content []byte) bool {
	window := content
	if len(window) > 8192 {
		window = window[:8192]
	}
	if bytes.IndexByte(window, 0) >= 0 {
		return false
	}
	return utf8.Valid(content)
}
