package tabular

import "github.com/jyhi/mdbfs/internal/registry"

const (
	version = "1.0.0"
	help    = "Presents a SQLite database as tables (directories), rows (directories, named by rowid) and columns (files)."
)

// NewDescriptor builds the tabular backend's registry.Descriptor. Register
// it under "sqlite" and its alias "sqlite3" (spec §6).
func NewDescriptor() *registry.Descriptor {
	mgr := NewManager()
	fsys := NewFS(mgr)

	return &registry.Descriptor{
		Name:        "sqlite",
		Description: "SQLite relational database",
		Help:        help,
		Version:     version,
		Init:        func(args []string) error { return nil },
		Deinit:      func() {},
		Open:        mgr.Open,
		Close:       mgr.Close,
		Ops:         fsys,
	}
}
