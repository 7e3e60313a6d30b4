package core

import (
	"time"

	"github.com/pelletier/go-toml/v2"
)

const ReceiptFileName = "mccdl.toml"

// Receipt records what was installed into an instance, stored as mccdl.toml in the instance root.
type Receipt struct {
	ProjectID   string             `toml:"project-id"`
	FileID      string             `toml:"file-id"`
	Name        string             `toml:"name,omitempty"`
	Version     string             `toml:"version,omitempty"`
	Author      string             `toml:"author,omitempty"`
	Mode        string             `toml:"mode"`
	InstalledAt time.Time          `toml:"installed-at"`
	Versions    map[string]string  `toml:"versions"`
	Components  []ReceiptComponent `toml:"components"`
}

type ReceiptComponent struct {
	ProjectID string `toml:"project-id"`
	FileID    string `toml:"file-id"`
	FileName  string `toml:"file-name,omitempty"`
	Required  bool   `toml:"required"`
	Skipped   bool   `toml:"skipped,omitempty"`
}

func (r *Receipt) GetHashFormat() string {
	return "sha256"
}

// MinecraftVersion gets the Minecraft version recorded at install time, or "" when unknown
func (r *Receipt) MinecraftVersion() string {
	return r.Versions["minecraft"]
}

func (r *Receipt) Marshal() (MarshalResult, error) {
	result := MarshalResult{
		HashFormat: r.GetHashFormat(),
	}

	var err error

	result.Value, err = toml.Marshal(r)
	if err != nil {
		return result, err
	}

	stringer, err := GetHashImpl(result.HashFormat)
	if err != nil {
		return result, err
	}

	if _, err := stringer.Write(result.Value); err != nil {
		return result, err
	}

	result.Hash = stringer.String()

	return result, nil
}

func ParseReceipt(data []byte) (Receipt, error) {
	var r Receipt
	err := toml.Unmarshal(data, &r)
	return r, err
}
