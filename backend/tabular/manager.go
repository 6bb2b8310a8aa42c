// Package tabular implements mdbfs's relational backend: a SQLite-backed
// Database Manager (spec §4.4) and the filesystem operation table that maps
// table x row x column onto directories and files (spec §4.5).
//
// Grounded on rclone's backend/sqlite/sqlite_utils.go, generalized from the
// teacher's single fixed "files" table to arbitrary tables and columns, as
// spec §3's tabular data model requires.
package tabular

import (
	"database/sql"
	"strconv"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/jyhi/mdbfs/internal/mdbfslog"
)

// rowIDColumn is SQLite's intrinsic per-row identifier.
const rowIDColumn = "rowid"

// Manager is the tabular Database Manager (spec §4.4): a process-wide
// wrapper around one *sql.DB handle. At most one handle is open at a time;
// every operation fails if none is open (spec §4.6's Closed/Open states).
type Manager struct {
	mu sync.Mutex
	db *sql.DB
}

// NewManager returns a Manager with no open handle.
func NewManager() *Manager {
	return &Manager{}
}

// Open attaches the manager to the SQLite artifact at path. Any previously
// open handle is closed first, with a warning, per spec §4.6.
func (m *Manager) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db != nil {
		mdbfslog.Warnf("tabular: reopening database, closing previous handle")
		_ = m.db.Close()
		m.db = nil
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return errors.Wrap(err, "open sqlite database")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "ping sqlite database")
	}
	m.db = db
	return nil
}

// Close detaches the manager from its handle. It is safe to call when no
// handle is open (logs a warning and remains Closed).
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		mdbfslog.Warnf("tabular: close called with no open database")
		return
	}
	if err := m.db.Close(); err != nil {
		mdbfslog.Warnf("tabular: error closing database: %v", err)
	}
	m.db = nil
}

func (m *Manager) handle() (*sql.DB, error) {
	if m.db == nil {
		return nil, errNoOpenHandle
	}
	return m.db, nil
}

var errNoOpenHandle = errors.New("no open database handle")

// quoteIdent quotes a SQL identifier (table/column name) per SQLite's rule:
// wrap in double quotes, doubling any embedded quote. database/sql has no
// placeholder syntax for identifiers, so every interpolated name in this
// file goes through this helper (SPEC_FULL.md's identifier-quoting
// supplement).
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// GetTableNames lists the database's user tables.
func (m *Manager) GetTableNames() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		mdbfslog.Warnf("tabular: list tables: %v", err)
		return nil, err
	}
	defer closeRows(rows)

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			mdbfslog.Warnf("tabular: scan table name: %v", err)
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		mdbfslog.Warnf("tabular: iterate table names: %v", err)
		return nil, err
	}
	return names, nil
}

// GetRowNames lists the intrinsic row identifiers of table.
func (m *Manager) GetRowNames(table string) ([]string, error) {
	if table == "" {
		return nil, errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + rowIDColumn + " FROM " + quoteIdent(table)
	rows, err := db.Query(query)
	if err != nil {
		mdbfslog.Warnf("tabular: list rows of %q: %v", table, err)
		return nil, err
	}
	defer closeRows(rows)

	names := []string{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			mdbfslog.Warnf("tabular: scan row id: %v", err)
			return nil, err
		}
		names = append(names, strconv.FormatInt(id, 10))
	}
	if err := rows.Err(); err != nil {
		mdbfslog.Warnf("tabular: iterate row ids: %v", err)
		return nil, err
	}
	return names, nil
}

// GetColumnNames lists the column names of table, if row exists in it. A
// nil, nil return means the row does not exist.
func (m *Manager) GetColumnNames(table, row string) ([]string, error) {
	if table == "" || row == "" {
		return nil, errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	exists, err := m.rowExistsLocked(db, table, row)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	query := "PRAGMA table_info(" + quoteIdent(table) + ")"
	rows, err := db.Query(query)
	if err != nil {
		mdbfslog.Warnf("tabular: list columns of %q: %v", table, err)
		return nil, err
	}
	defer closeRows(rows)

	names := []string{}
	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notNull    int
			dfltValue  sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &primaryKey); err != nil {
			mdbfslog.Warnf("tabular: scan column info: %v", err)
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (m *Manager) rowExistsLocked(db *sql.DB, table, row string) (bool, error) {
	query := "SELECT 1 FROM " + quoteIdent(table) + " WHERE " + rowIDColumn + " = ?"
	var one int
	err := db.QueryRow(query, row).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetCell fetches the bytes of (table, row, column). A nil, nil return
// means the cell does not exist (missing row, or the engine's
// missing-column quirk described in spec §4.4's Note: SQLite resolves an
// unknown double-quoted identifier in a SELECT list as a string literal equal to its
// own text, so a value equal to the column name is treated as "no such
// column" rather than legitimate data. This is fragile when the cell
// legitimately contains the column name as data (spec §9 Open Questions) —
// preserved as specified rather than "fixed" with a prior schema check.
func (m *Manager) GetCell(table, row, column string) ([]byte, error) {
	if table == "" || row == "" || column == "" {
		return nil, errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return nil, err
	}

	query := "SELECT " + quoteIdent(column) + " FROM " + quoteIdent(table) + " WHERE " + rowIDColumn + " = ?"
	var value sql.NullString
	err = db.QueryRow(query, row).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		mdbfslog.Warnf("tabular: get cell (%s,%s,%s): %v", table, row, column, err)
		return nil, err
	}
	if !value.Valid {
		return []byte{}, nil
	}
	if value.String == column {
		// engine's missing-column marker
		return nil, nil
	}
	return []byte(value.String), nil
}

// SetCell writes the bytes of (table, row, column).
func (m *Manager) SetCell(table, row, column string, data []byte) error {
	if table == "" || row == "" || column == "" {
		return errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}

	query := "UPDATE " + quoteIdent(table) + " SET " + quoteIdent(column) + " = ? WHERE " + rowIDColumn + " = ?"
	_, err = db.Exec(query, string(data), row)
	if err != nil {
		mdbfslog.Warnf("tabular: set cell (%s,%s,%s): %v", table, row, column, err)
		return err
	}
	return nil
}

// RenameTable renames a table.
func (m *Manager) RenameTable(oldName, newName string) error {
	if oldName == "" || newName == "" {
		return errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}
	query := "ALTER TABLE " + quoteIdent(oldName) + " RENAME TO " + quoteIdent(newName)
	if _, err := db.Exec(query); err != nil {
		mdbfslog.Warnf("tabular: rename table %s -> %s: %v", oldName, newName, err)
		return err
	}
	return nil
}

// RenameRow reassigns a row's intrinsic identifier. SQLite permits updating
// rowid directly, unlike most engines.
func (m *Manager) RenameRow(table, oldRow, newRow string) error {
	if table == "" || oldRow == "" || newRow == "" {
		return errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}
	query := "UPDATE " + quoteIdent(table) + " SET " + rowIDColumn + " = ? WHERE " + rowIDColumn + " = ?"
	if _, err := db.Exec(query, newRow, oldRow); err != nil {
		mdbfslog.Warnf("tabular: rename row %s/%s -> %s: %v", table, oldRow, newRow, err)
		return err
	}
	return nil
}

// RenameColumn renames a column.
func (m *Manager) RenameColumn(table, oldName, newName string) error {
	if table == "" || oldName == "" || newName == "" {
		return errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}
	query := "ALTER TABLE " + quoteIdent(table) + " RENAME COLUMN " + quoteIdent(oldName) + " TO " + quoteIdent(newName)
	if _, err := db.Exec(query); err != nil {
		mdbfslog.Warnf("tabular: rename column %s/%s -> %s: %v", table, oldName, newName, err)
		return err
	}
	return nil
}

// CreateColumn adds a column to table with the engine's default type.
func (m *Manager) CreateColumn(table, column string) error {
	if table == "" || column == "" {
		return errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}
	query := "ALTER TABLE " + quoteIdent(table) + " ADD COLUMN " + quoteIdent(column)
	if _, err := db.Exec(query); err != nil {
		mdbfslog.Warnf("tabular: add column %s/%s: %v", table, column, err)
		return err
	}
	return nil
}

// CreateTable is not implemented by the engine; always fails (spec §4.4).
func (m *Manager) CreateTable(table string) error {
	return errNotImplemented
}

// CreateRow is not implemented by the engine; always fails (spec §4.4).
func (m *Manager) CreateRow(table string) error {
	return errNotImplemented
}

// RemoveTable drops a table.
func (m *Manager) RemoveTable(table string) error {
	if table == "" {
		return errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}
	query := "DROP TABLE " + quoteIdent(table)
	if _, err := db.Exec(query); err != nil {
		mdbfslog.Warnf("tabular: drop table %s: %v", table, err)
		return err
	}
	return nil
}

// RemoveRow deletes a row by its intrinsic identifier.
func (m *Manager) RemoveRow(table, row string) error {
	if table == "" || row == "" {
		return errMissingArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	db, err := m.handle()
	if err != nil {
		return err
	}
	query := "DELETE FROM " + quoteIdent(table) + " WHERE " + rowIDColumn + " = ?"
	if _, err := db.Exec(query, row); err != nil {
		mdbfslog.Warnf("tabular: delete row %s/%s: %v", table, row, err)
		return err
	}
	return nil
}

// RemoveColumn is not implemented by the engine; always fails (spec §4.4).
func (m *Manager) RemoveColumn(table, column string) error {
	return errNotImplemented
}

var (
	errMissingArgument = errors.New("missing argument")
	errNotImplemented  = errors.New("not implemented")
)

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		mdbfslog.Warnf("tabular: finalize statement: %v", err)
	}
}
