package keyvalue

import "github.com/jyhi/mdbfs/internal/registry"

const (
	version = "1.0.0"
	help    = "Presents a bbolt key-value database as files at the root, one per record."
)

// NewDescriptor builds the key-value backend's registry.Descriptor.
// Register it under "berkeleydb" and its aliases "bdb", "db" (spec §6).
func NewDescriptor() *registry.Descriptor {
	mgr := NewManager()
	fsys := NewFS(mgr)

	return &registry.Descriptor{
		Name:        "berkeleydb",
		Description: "key-value database",
		Help:        help,
		Version:     version,
		Init:        func(args []string) error { return nil },
		Deinit:      func() {},
		Open:        mgr.Open,
		Close:       mgr.Close,
		Ops:         fsys,
	}
}
