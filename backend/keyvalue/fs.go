package keyvalue

import (
	"github.com/billziss-gh/cgofuse/fuse"

	"github.com/jyhi/mdbfs/internal/mdbfslog"
)

const (
	dirMode  = fuse.S_IFDIR | 0755
	fileMode = fuse.S_IFREG | 0644
)

// FS is the key-value backend's filesystem operation table (spec §4.5).
// Operations not overridden here fall through to fuse.FileSystemBase,
// which reports them to the FS host as absent.
type FS struct {
	fuse.FileSystemBase
	mgr *Manager
}

// NewFS wraps mgr in a filesystem operation table.
func NewFS(mgr *Manager) *FS {
	return &FS{mgr: mgr}
}

// Init mirrors the tabular backend's: host-wide configuration (no inode
// numbering, forced direct I/O) is applied centrally by internal/fusehost.
func (f *FS) Init() {
	mdbfslog.Debugf("keyvalue: filesystem initialized")
}

// Destroy closes the database handle.
func (f *FS) Destroy() {
	f.mgr.Close()
}

// Getattr fills stat for path, or returns a negated errno.
func (f *FS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	key, ok := Decode(path)
	if !ok {
		return -fuse.ENOENT
	}
	if key == "" {
		stat.Mode = dirMode
		return 0
	}

	value, err := f.mgr.GetRecordValue(key)
	if err != nil || value == nil {
		return -fuse.ENOENT
	}
	stat.Mode = fileMode
	stat.Size = int64(len(value))
	return 0
}

// Readdir lists the root directory's record keys. Only the root is a
// directory for this backend; any other path is rejected.
func (f *FS) Readdir(path string,
	fill func(name string, stat *fuse.Stat_t, ofst int64) bool,
	ofst int64, fh uint64) int {

	if ofst > 0 {
		return 0
	}

	key, ok := Decode(path)
	if !ok || key != "" {
		return -fuse.ENOENT
	}

	keys, err := f.mgr.GetRecordKeys()
	if err != nil {
		return -fuse.ENOENT
	}

	fill(".", nil, 0)
	fill("..", nil, 0)
	for _, k := range keys {
		if k == "" {
			continue
		}
		var stat fuse.Stat_t
		if f.Getattr("/"+k, &stat, 0) == 0 {
			fill(k, &stat, 0)
		} else {
			fill(k, nil, 0)
		}
	}
	return 0
}

// Read copies min(len(value)-offset, len(buff)) bytes from the addressed
// record into buff, starting at offset.
func (f *FS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	key, ok := Decode(path)
	if !ok || key == "" {
		return -fuse.EISDIR
	}

	value, err := f.mgr.GetRecordValue(key)
	if err != nil || value == nil {
		return -fuse.ENOENT
	}
	if ofst >= int64(len(value)) {
		return 0
	}
	n := copy(buff, value[ofst:])
	return n
}

// Write replaces the addressed record's content. Only offset 0 is
// supported.
func (f *FS) Write(path string, buff []byte, ofst int64, fh uint64) int {
	key, ok := Decode(path)
	if !ok || key == "" {
		return -fuse.EISDIR
	}
	if ofst > 0 {
		return 0
	}

	if err := f.mgr.SetRecordValue(key, buff); err != nil {
		return -fuse.EINTR
	}
	return len(buff)
}

// Mknod creates a new, empty record.
func (f *FS) Mknod(path string, mode uint32, dev uint64) int {
	key, ok := Decode(path)
	if !ok || key == "" {
		return -fuse.EINVAL
	}
	if err := f.mgr.CreateRecord(key); err != nil {
		return -fuse.EINVAL
	}
	return 0
}

// Rename maps onto the manager's rename operation. Both paths must be
// non-root keys.
func (f *FS) Rename(oldpath string, newpath string) int {
	oldKey, ok1 := Decode(oldpath)
	newKey, ok2 := Decode(newpath)
	if !ok1 || !ok2 || oldKey == "" || newKey == "" {
		return -fuse.EINVAL
	}
	if err := f.mgr.RenameRecord(oldKey, newKey); err != nil {
		return -fuse.EINVAL
	}
	return 0
}

// Unlink removes a record.
func (f *FS) Unlink(path string) int {
	key, ok := Decode(path)
	if !ok || key == "" {
		return -fuse.EINVAL
	}
	if err := f.mgr.RemoveRecord(key); err != nil {
		return -fuse.EINVAL
	}
	return 0
}

// Mkdir is unsupported: the key-value hierarchy is flat.
func (f *FS) Mkdir(path string, mode uint32) int {
	return -fuse.EROFS
}

// Rmdir is unsupported beyond the root, which can never be removed.
func (f *FS) Rmdir(path string) int {
	return -fuse.EACCES
}
