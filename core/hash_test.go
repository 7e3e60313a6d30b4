package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashImpl(t *testing.T) {
	tests := []struct {
		name     string
		hashType string
		wantErr  bool
	}{
		{"SHA256", "sha256", false},
		{"SHA256 uppercase", "SHA256", false},
		{"SHA1", "sha1", true},
		{"MD5", "md5", true},
		{"Murmur2", "murmur2", true},
		{"Invalid hash", "invalid-hash", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetHashImpl(tt.hashType)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, got)
			}
		})
	}
}

func TestHashString(t *testing.T) {
	tests := []struct {
		name     string
		hashType string
		input    string
		want     string
	}{
		{"SHA256 empty", "sha256", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"SHA256", "sha256", "test data", "916f0027a575074ce72a331777c3478d6513f786a591bd892da1a577bf2335f9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HashString(tt.hashType, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashStringDistinguishesURLs(t *testing.T) {
	a, err := HashString("sha256", "http://example.com/a")
	require.NoError(t, err)
	b, err := HashString("sha256", "http://example.com/b")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
