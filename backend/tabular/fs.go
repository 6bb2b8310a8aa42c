package tabular

import (
	"github.com/billziss-gh/cgofuse/fuse"

	"github.com/jyhi/mdbfs/internal/mdbfslog"
)

const (
	dirMode  = fuse.S_IFDIR | 0755
	fileMode = fuse.S_IFREG | 0644
)

// FS is the tabular backend's filesystem operation table (spec §4.5). It
// embeds fuse.FileSystemBase so every operation not explicitly overridden
// here is reported to the FS host as absent (the host replies EOPNOTSUPP to
// the kernel), per spec §4.5's opening sentence.
type FS struct {
	fuse.FileSystemBase
	mgr *Manager
}

// NewFS wraps mgr in a filesystem operation table.
func NewFS(mgr *Manager) *FS {
	return &FS{mgr: mgr}
}

// Init performs no per-backend setup; the FS host is configured (inode
// numbering disabled, direct I/O forced) centrally by internal/fusehost,
// since both mdbfs backends request the identical host configuration (spec
// §4.5: "Sets FS-host configuration").
func (f *FS) Init() {
	mdbfslog.Debugf("tabular: filesystem initialized")
}

// Destroy closes the database handle.
func (f *FS) Destroy() {
	f.mgr.Close()
}

// Getattr fills stat for path, or returns a negated errno.
func (f *FS) Getattr(path string, stat *fuse.Stat_t, fh uint64) int {
	dp, ok := Decode(path)
	if !ok {
		return -fuse.ENOENT
	}

	switch dp.Tag {
	case TagColumn:
		cell, err := f.mgr.GetCell(dp.Table, dp.Row, dp.Column)
		if err != nil || cell == nil {
			return -fuse.ENOENT
		}
		stat.Mode = fileMode
		stat.Size = int64(len(cell))
		return 0
	case TagRow:
		cols, err := f.mgr.GetColumnNames(dp.Table, dp.Row)
		if err != nil || cols == nil {
			// err == nil, cols == nil means the row itself doesn't exist
			// (spec §4.4); err != nil is an engine fault. Either way the
			// row isn't there to stat.
			return -fuse.ENOENT
		}
		stat.Mode = dirMode
		return 0
	case TagTable:
		_, err := f.mgr.GetRowNames(dp.Table)
		if err != nil {
			return -fuse.ENOENT
		}
		stat.Mode = dirMode
		return 0
	case TagDatabase:
		_, err := f.mgr.GetTableNames()
		if err != nil {
			return -fuse.ENOENT
		}
		stat.Mode = dirMode
		return 0
	default:
		return -fuse.ENOENT
	}
}

// Readdir lists the directory at path by calling Getattr on each listed
// child (spec §9's "cyclic calls within a backend": expressed as a direct
// call to the Getattr method above rather than a re-entrant call through
// the descriptor, so it can never be routed through a different backend).
func (f *FS) Readdir(path string,
	fill func(name string, stat *fuse.Stat_t, ofst int64) bool,
	ofst int64, fh uint64) int {

	if ofst > 0 {
		return 0
	}

	dp, ok := Decode(path)
	if !ok || dp.Tag == TagColumn {
		return -fuse.ENOENT
	}

	var names []string
	var err error
	switch dp.Tag {
	case TagDatabase:
		names, err = f.mgr.GetTableNames()
	case TagTable:
		names, err = f.mgr.GetRowNames(dp.Table)
	case TagRow:
		names, err = f.mgr.GetColumnNames(dp.Table, dp.Row)
	}
	if err != nil || (dp.Tag == TagRow && names == nil) {
		// GetColumnNames returns (nil, nil) when the row itself doesn't
		// exist (spec §4.4), distinct from a legitimate empty listing.
		return -fuse.ENOENT
	}

	fill(".", nil, 0)
	fill("..", nil, 0)
	for _, name := range names {
		child := childPath(dp, name)
		var stat fuse.Stat_t
		if f.Getattr(child, &stat, 0) == 0 {
			fill(name, &stat, 0)
		} else {
			fill(name, nil, 0)
		}
	}
	return 0
}

func childPath(parent Path, name string) string {
	switch parent.Tag {
	case TagDatabase:
		return "/" + name
	case TagTable:
		return "/" + parent.Table + "/" + name
	case TagRow:
		return "/" + parent.Table + "/" + parent.Row + "/" + name
	default:
		return "/"
	}
}

// Read copies min(len(cell)-offset, len(buff)) bytes from the addressed
// cell into buff, starting at offset.
func (f *FS) Read(path string, buff []byte, ofst int64, fh uint64) int {
	dp, ok := Decode(path)
	if !ok {
		return -fuse.ENOENT
	}
	if dp.Tag != TagColumn {
		return -fuse.EISDIR
	}

	cell, err := f.mgr.GetCell(dp.Table, dp.Row, dp.Column)
	if err != nil || cell == nil {
		return -fuse.ENOENT
	}
	if ofst >= int64(len(cell)) {
		return 0
	}
	n := copy(buff, cell[ofst:])
	return n
}

// Write replaces the addressed cell's content. Only offset 0 is supported
// (spec §4.5: "no offset write").
func (f *FS) Write(path string, buff []byte, ofst int64, fh uint64) int {
	dp, ok := Decode(path)
	if !ok || dp.Tag != TagColumn {
		return -fuse.EISDIR
	}
	if ofst > 0 {
		return 0
	}

	if err := f.mgr.SetCell(dp.Table, dp.Row, dp.Column, buff); err != nil {
		return -fuse.EINTR
	}
	return len(buff)
}

// Mknod creates a new column in the addressed row's table.
func (f *FS) Mknod(path string, mode uint32, dev uint64) int {
	dp, ok := Decode(path)
	if !ok || dp.Tag != TagColumn {
		return -fuse.EROFS
	}
	if err := f.mgr.CreateColumn(dp.Table, dp.Column); err != nil {
		return -fuse.EINTR
	}
	return 0
}

// Mkdir is unsupported: neither table-creation nor row-creation by bare
// name is well-defined for this backend (spec §4.5).
func (f *FS) Mkdir(path string, mode uint32) int {
	return -fuse.EROFS
}

// Rename dispatches to the manager's rename operation matching both paths'
// tag. cgofuse's Rename carries no rename flags, so exchange and
// no-replace requests are not distinguished (spec §9's open question).
func (f *FS) Rename(oldpath string, newpath string) int {
	oldDp, ok1 := Decode(oldpath)
	newDp, ok2 := Decode(newpath)
	if !ok1 || !ok2 {
		return -fuse.ENOENT
	}
	if oldDp.Tag != newDp.Tag {
		return -fuse.ENOSPC
	}

	var err error
	switch oldDp.Tag {
	case TagDatabase:
		return -fuse.EROFS
	case TagTable:
		err = f.mgr.RenameTable(oldDp.Table, newDp.Table)
	case TagRow:
		if oldDp.Table != newDp.Table {
			return -fuse.ENOSPC
		}
		err = f.mgr.RenameRow(oldDp.Table, oldDp.Row, newDp.Row)
	case TagColumn:
		if oldDp.Table != newDp.Table || oldDp.Row != newDp.Row {
			return -fuse.ENOSPC
		}
		err = f.mgr.RenameColumn(oldDp.Table, oldDp.Column, newDp.Column)
	}
	if err != nil {
		return -fuse.EINTR
	}
	return 0
}

// Unlink is unsupported: dropping a column is not supported by the engine
// (spec §4.5).
func (f *FS) Unlink(path string) int {
	return -fuse.EROFS
}

// Rmdir removes a table or row. The database root cannot be removed and
// columns are rejected outright.
func (f *FS) Rmdir(path string) int {
	dp, ok := Decode(path)
	if !ok || dp.Tag == TagColumn {
		return -fuse.EINTR
	}

	var err error
	switch dp.Tag {
	case TagDatabase:
		return -fuse.EACCES
	case TagTable:
		err = f.mgr.RemoveTable(dp.Table)
	case TagRow:
		err = f.mgr.RemoveRow(dp.Table, dp.Row)
	}
	if err != nil {
		return -fuse.EINTR
	}
	return 0
}
