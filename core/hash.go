package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// GetHashImpl gets an implementation of hash.Hash for the given hash type string
func GetHashImpl(hashType string) (HashStringer, error) {
	switch strings.ToLower(hashType) {
	case "sha256":
		return &hexStringer{sha256.New()}, nil
	}
	return nil, fmt.Errorf("hash implementation %s not found", hashType)
}

// HashString returns the hex digest of s.
func HashString(hashType string, s string) (string, error) {
	h, err := GetHashImpl(hashType)
	if err != nil {
		return "", err
	}
	_, _ = h.Write([]byte(s))
	return h.String(), nil
}

type HashStringer interface {
	hash.Hash
	String() string
}

type hexStringer struct {
	hash.Hash
}

func (h *hexStringer) String() string {
	return hex.EncodeToString(h.Sum(nil))
}
