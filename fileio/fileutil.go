package fileio

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

func CreateFile(fs afero.Fs, path string) (afero.File, error) {
	f, err := fs.Create(path)
	if err != nil {
		err2 := fs.MkdirAll(filepath.Dir(path), os.ModePerm)
		if err2 == nil {
			f, err = fs.Create(path)
		}
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}
