// Package keyvalue implements mdbfs's flat backend: a bbolt-backed
// Database Manager (spec §4.4) and the filesystem operation table that maps
// record keys onto files at the root (spec §4.5).
//
// Grounded on rclone's backend/kvfs, which stores a whole filesystem as
// JSON blobs in a go.etcd.io/bbolt database via its lib/kv wrapper.
package keyvalue

import "github.com/jyhi/mdbfs/internal/pathutil"

// Decode maps a path onto an optional key: absence means the root
// directory, presence means a record at /key. Any path with more than one
// non-empty component is rejected (ok == false).
func Decode(p string) (key string, ok bool) {
	norm, err := pathutil.Normalize(p)
	if err != nil {
		return "", false
	}
	if !pathutil.IsAbsolute(norm) {
		return "", false
	}

	segs := pathutil.Segments(norm)
	switch len(segs) {
	case 0:
		return "", true
	case 1:
		return segs[0], true
	default:
		return "", false
	}
}
