// Package fusehost adapts a registry.Descriptor's operation table into a
// mounted filesystem, driving github.com/billziss-gh/cgofuse as the FS host
// (spec §1's "the FS host itself" — an external collaborator whose
// lifecycle and mount-option handling are out of scope; this package is
// the thin adapter that plugs mdbfs's core into it).
//
// Grounded on rclone's cmd/cmount package (mount_test.go is the only file
// that survived the retrieval pack's size filter, but it confirms the
// wiring shape: a FileSystemInterface handed to a cgofuse-backed host).
package fusehost

import (
	"github.com/billziss-gh/cgofuse/fuse"
	"github.com/pkg/errors"

	"github.com/jyhi/mdbfs/internal/registry"
)

// hostOptions are the mount options applied uniformly for every backend:
// direct_io bypasses the kernel page cache for read/write (spec §4.5's
// "force direct I/O"), and omitting use_ino leaves inode numbering disabled
// (spec §4.5's "disable inode numbering").
var hostOptions = []string{"-o", "direct_io"}

// Host mounts one backend's operation table at a mountpoint.
type Host struct {
	fsHost *fuse.FileSystemHost
}

// New constructs a Host for desc's operation table.
func New(desc *registry.Descriptor) *Host {
	return &Host{fsHost: fuse.NewFileSystemHost(desc.Ops)}
}

// Mount blocks, serving filesystem calls at mountpoint until the mount is
// torn down (by Unmount, by the host process exiting, or by the kernel).
// extraArgs are appended verbatim after mdbfs's own default options (spec
// §6: "all remaining arguments ... are passed through to the FS host").
func (h *Host) Mount(mountpoint string, extraArgs []string) error {
	args := make([]string, 0, len(hostOptions)+len(extraArgs))
	args = append(args, hostOptions...)
	args = append(args, extraArgs...)

	if ok := h.fsHost.Mount(mountpoint, args); !ok {
		return errors.Errorf("mount failed at %q", mountpoint)
	}
	return nil
}

// Unmount tears down an active mount.
func (h *Host) Unmount() error {
	if ok := h.fsHost.Unmount(); !ok {
		return errors.New("unmount failed")
	}
	return nil
}
