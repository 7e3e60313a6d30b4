package core

// Fetcher resolves a URL to a local file through the content cache.
// When destination is non-empty the cached file is copied there and the copy's path is returned.
type Fetcher interface {
	Download(url string, destination string) (string, error)
}

// Instance is a single launcher instance directory.
type Instance interface {
	Name() string
	Root() string
	Exists() (bool, error)
	// Create builds a new instance; it fails with ErrInstanceExists if the root is already present.
	Create(mcVersion, loaderVersion, iconPath string) error
	// Upgrade empties the mods directory and repins the loader, leaving everything else in place.
	Upgrade(mcVersion, loaderVersion string) error
	MinecraftDir() string
	ModsDir() string
	ReadReceipt() (*Receipt, error)
	WriteReceipt(receipt Receipt) error
}

// InstanceManager looks up instances by name. It never creates them.
type InstanceManager interface {
	Instance(name string) Instance
	List() ([]string, error)
	Suggest(name string) ([]string, error)
}

type MarshalResult struct {
	Value      []byte
	HashFormat string
	Hash       string
}

func (m MarshalResult) String() string {
	return string(m.Value)
}

type HashableObject interface {
	Marshal() (MarshalResult, error)
}
