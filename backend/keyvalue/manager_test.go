package keyvalue

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "records.db")

	mgr := NewManager()
	require.NoError(t, mgr.Open(dbPath))
	t.Cleanup(mgr.Close)

	require.NoError(t, mgr.SetRecordValue("k1", []byte("v1")))
	require.NoError(t, mgr.SetRecordValue("k2", []byte("v2")))
	return mgr
}

func TestManagerListingCompleteness(t *testing.T) {
	mgr := newTestManager(t)

	keys, err := mgr.GetRecordKeys()
	require.NoError(t, err)
	sort.Strings(keys)
	require.Equal(t, []string{"k1", "k2"}, keys)
}

func TestManagerReadWriteIdempotence(t *testing.T) {
	mgr := newTestManager(t)

	value, err := mgr.GetRecordValue("k1")
	require.NoError(t, err)
	require.Equal(t, "v1", string(value))

	require.NoError(t, mgr.SetRecordValue("k1", []byte("V1")))
	value, err = mgr.GetRecordValue("k1")
	require.NoError(t, err)
	require.Equal(t, "V1", string(value))
}

func TestManagerRemoveRecord(t *testing.T) {
	mgr := newTestManager(t)

	require.NoError(t, mgr.RemoveRecord("k2"))
	keys, err := mgr.GetRecordKeys()
	require.NoError(t, err)
	require.Equal(t, []string{"k1"}, keys)
}

func TestManagerRenameRecord(t *testing.T) {
	mgr := newTestManager(t)

	require.NoError(t, mgr.RenameRecord("k1", "k3"))
	value, err := mgr.GetRecordValue("k3")
	require.NoError(t, err)
	require.Equal(t, "v1", string(value))

	value, err = mgr.GetRecordValue("k1")
	require.NoError(t, err)
	require.Nil(t, value)
}

func TestManagerCreateRecord(t *testing.T) {
	mgr := newTestManager(t)

	require.NoError(t, mgr.CreateRecord("k3"))
	value, err := mgr.GetRecordValue("k3")
	require.NoError(t, err)
	require.Equal(t, []byte{}, value)
}

func TestManagerGetDatabaseName(t *testing.T) {
	mgr := newTestManager(t)
	name, err := mgr.GetDatabaseName()
	require.NoError(t, err)
	require.Equal(t, "records.db", name)
}

func TestManagerOperationsFailWithoutOpenHandle(t *testing.T) {
	mgr := NewManager()
	_, err := mgr.GetRecordKeys()
	require.Error(t, err)
}

func TestManagerReopenClosesPreviousHandle(t *testing.T) {
	mgr := NewManager()
	require.NoError(t, mgr.Open(filepath.Join(t.TempDir(), "a.db")))
	require.NoError(t, mgr.SetRecordValue("only-in-a", []byte("x")))

	require.NoError(t, mgr.Open(filepath.Join(t.TempDir(), "b.db")))
	defer mgr.Close()

	keys, err := mgr.GetRecordKeys()
	require.NoError(t, err)
	require.Empty(t, keys)
}
