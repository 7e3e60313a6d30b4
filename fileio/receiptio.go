package fileio

import (
	"github.com/spf13/afero"

	"github.com/leocov-dev/mccdl/core"
)

// WriteHashable marshals obj into path and returns its hash format and hash.
func WriteHashable(fs afero.Fs, path string, obj core.HashableObject) (string, string, error) {
	result, err := obj.Marshal()
	if err != nil {
		return "", "", err
	}

	f, err := CreateFile(fs, path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	if _, err := f.Write(result.Value); err != nil {
		return "", "", err
	}

	return result.HashFormat, result.Hash, nil
}

func LoadReceipt(fs afero.Fs, path string) (core.Receipt, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return core.Receipt{}, err
	}
	return core.ParseReceipt(raw)
}
