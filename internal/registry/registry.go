// Package registry implements mdbfs's Backend Registry/Dispatcher (spec
// §4.2) and the Backend Descriptor capability surface (spec §3), grounded
// on rclone's fs.Register/fs.RegInfo/fs.Find lookup pattern.
package registry

import (
	"strings"

	"github.com/billziss-gh/cgofuse/fuse"
)

// Descriptor is the uniform capability surface a backend exposes to the
// dispatcher: identity, lifecycle hooks, and a populated filesystem
// operation table suitable for the FS host.
type Descriptor struct {
	// Name is the backend's own, self-reported name (used to filter
	// aliases out of help/version aggregation).
	Name        string
	Description string
	// Help is additional help text; may be empty.
	Help    string
	Version string

	// Init is called once with the remaining CLI arguments before the FS
	// host takes over. Deinit is called on shutdown.
	Init   func(args []string) error
	Deinit func()

	// Open attaches the backend to a database artifact at path. Close
	// detaches it. Lifecycle is Closed -> Open -> Closed (spec §4.6).
	Open  func(path string) error
	Close func()

	// Ops is the populated filesystem operation table handed to the FS
	// host (cgofuse.FileSystemInterface).
	Ops fuse.FileSystemInterface
}

// Factory produces a fresh Descriptor for one backend. Factories are called
// on demand: Get calls the matching one, and HelpText/VersionText call every
// registered one; each call builds a new Descriptor.
type Factory func() *Descriptor

type entry struct {
	name    string
	factory Factory
}

// Registry is a statically ordered sequence of (name, factory) entries.
// Multiple entries may share one factory to express aliases. Lookup is by
// exact string match.
type Registry struct {
	entries []entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Register adds an entry under name, pointing at factory. Call it once per
// name (including once per alias) during program start; the registry is
// immutable after that (spec §5).
func (r *Registry) Register(name string, factory Factory) {
	r.entries = append(r.entries, entry{name: name, factory: factory})
}

// Get performs a linear scan for the first exact name match and returns the
// factory's result, or nil if no entry matches.
func (r *Registry) Get(name string) *Descriptor {
	for _, e := range r.entries {
		if e.name == name {
			return e.factory()
		}
	}
	return nil
}

// HelpText concatenates, for each primary entry (an entry whose registry
// key equals the backend's own self-reported name), "<name> -
// <description>\n\n<help-or-placeholder>\n\n". Alias entries are skipped so
// they don't contribute duplicate blocks.
func (r *Registry) HelpText() string {
	var b strings.Builder
	for _, e := range r.entries {
		d := e.factory()
		if e.name != d.Name {
			continue
		}
		help := d.Help
		if help == "" {
			help = "(no additional help available)"
		}
		b.WriteString(d.Name)
		b.WriteString(" - ")
		b.WriteString(d.Description)
		b.WriteString("\n\n")
		b.WriteString(help)
		b.WriteString("\n\n")
	}
	return b.String()
}

// VersionText concatenates "Backend <name> version <version>\n" for each
// primary entry.
func (r *Registry) VersionText() string {
	var b strings.Builder
	for _, e := range r.entries {
		d := e.factory()
		if e.name != d.Name {
			continue
		}
		b.WriteString("Backend ")
		b.WriteString(d.Name)
		b.WriteString(" version ")
		b.WriteString(d.Version)
		b.WriteString("\n")
	}
	return b.String()
}
