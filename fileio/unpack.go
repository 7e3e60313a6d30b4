package fileio

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Extractor writes every entry of an archive below destDir.
type Extractor interface {
	ExtractAll(archivePath string, destDir string) error
}

type ZipExtractor struct {
	fs afero.Fs
}

func NewZipExtractor(fs afero.Fs) ZipExtractor {
	return ZipExtractor{fs: fs}
}

func (z ZipExtractor) ExtractAll(archivePath string, destDir string) error {
	f, err := z.fs.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	zr, err := zip.NewReader(f, stat.Size())
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", archivePath, err)
	}

	for _, file := range zr.File {
		destPath := filepath.Join(destDir, filepath.FromSlash(file.Name))

		relPath, relErr := filepath.Rel(destDir, destPath)
		if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return fmt.Errorf("invalid path in archive: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := z.fs.MkdirAll(destPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}
		if err := z.extractFile(file, destPath); err != nil {
			return fmt.Errorf("failed to extract %s: %w", file.Name, err)
		}
	}
	return nil
}

func (z ZipExtractor) extractFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := CreateFile(z.fs, destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Unpacker extracts archives into root/<archive basename>, replacing any previous extraction.
type Unpacker struct {
	fs        afero.Fs
	root      string
	extractor Extractor
	log       *log.Logger
}

func NewUnpacker(fs afero.Fs, root string, extractor Extractor, logger *log.Logger) *Unpacker {
	return &Unpacker{
		fs:        fs,
		root:      root,
		extractor: extractor,
		log:       logger.WithPrefix("unpack"),
	}
}

func (u *Unpacker) Unpack(archivePath string) (string, error) {
	dest := filepath.Join(u.root, filepath.Base(archivePath))

	if err := u.fs.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("failed to remove previous extraction %s: %w", dest, err)
	}
	if err := u.fs.MkdirAll(dest, os.ModePerm); err != nil {
		return "", err
	}

	u.log.Debug("extracting", "archive", archivePath, "destination", dest)
	if err := u.extractor.ExtractAll(archivePath, dest); err != nil {
		return "", err
	}
	return dest, nil
}
