package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

// CopyTree merges src into dst. Directories are created as needed, files with
// the same relative path are overwritten and anything else already in dst is
// left alone. Paths matched by ignore (relative to src, slash separated) are skipped.
func CopyTree(fs afero.Fs, src, dst string, ignore *gitignore.GitIgnore) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel != "." && ignore != nil && ignore.MatchesPath(ignorePath(rel, info)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, os.ModePerm)
		}
		return CopyFile(fs, path, target)
	})
}

// directories get a trailing slash so "dir/" patterns match the directory itself
func ignorePath(rel string, info os.FileInfo) string {
	p := filepath.ToSlash(rel)
	if info.IsDir() {
		p += "/"
	}
	return p
}

// CopyFile copies the contents of src to dst, creating parent directories of dst.
func CopyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fs.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	out, err := fs.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
