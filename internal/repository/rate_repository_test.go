package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"gstskill/pkg/rates"

	"github.com/go-playground/assert/v2"
)

// rateStore is a database/sql driver over an in-memory gst_rate table. It
// understands the two statements RateRepository issues.
type rateStore struct {
	mu       sync.Mutex
	rows     map[string]string
	queryErr error
}

var (
	storesMu sync.Mutex
	stores   = map[string]*rateStore{}
)

func init() {
	sql.Register("gstrate", rateDriver{})
}

func openStore(t *testing.T, rows map[string]string) (*sql.DB, *rateStore) {
	t.Helper()
	store := &rateStore{rows: rows}

	storesMu.Lock()
	stores[t.Name()] = store
	storesMu.Unlock()

	db, err := sql.Open("gstrate", t.Name())
	assert.Equal(t, nil, err)
	t.Cleanup(func() { db.Close() })
	return db, store
}

type rateDriver struct{}

func (rateDriver) Open(name string) (driver.Conn, error) {
	storesMu.Lock()
	defer storesMu.Unlock()
	store, ok := stores[name]
	if !ok {
		return nil, errors.New("unknown store " + name)
	}
	return &rateConn{store: store}, nil
}

type rateConn struct {
	store *rateStore
}

func (c *rateConn) Prepare(query string) (driver.Stmt, error) {
	return &rateStmt{store: c.store, query: query}, nil
}

func (c *rateConn) Close() error { return nil }

func (c *rateConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

type rateStmt struct {
	store *rateStore
	query string
}

func (s *rateStmt) Close() error  { return nil }
func (s *rateStmt) NumInput() int { return -1 }

func (s *rateStmt) Exec(args []driver.Value) (driver.Result, error) {
	if !strings.Contains(s.query, "INSERT INTO gst_rate") {
		return nil, errors.New("unexpected exec: " + s.query)
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.rows[args[0].(string)] = args[1].(string)
	return driver.RowsAffected(1), nil
}

func (s *rateStmt) Query(args []driver.Value) (driver.Rows, error) {
	if s.store.queryErr != nil {
		return nil, s.store.queryErr
	}
	if !strings.Contains(s.query, "FROM gst_rate") {
		return nil, errors.New("unexpected query: " + s.query)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	items := make([]string, 0, len(s.store.rows))
	for item := range s.store.rows {
		items = append(items, item)
	}
	sort.Strings(items)

	out := &rateRows{}
	for _, item := range items {
		out.data = append(out.data, [2]string{item, s.store.rows[item]})
	}
	return out, nil
}

type rateRows struct {
	data [][2]string
	pos  int
}

func (r *rateRows) Columns() []string { return []string{"item", "rate"} }
func (r *rateRows) Close() error      { return nil }

func (r *rateRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	dest[0] = r.data[r.pos][0]
	dest[1] = r.data[r.pos][1]
	r.pos++
	return nil
}

func TestRateRepository_Load(t *testing.T) {
	db, _ := openStore(t, map[string]string{"mobile": "12%", "coal": "5%", "milk": "0%"})
	repo := NewRateRepository(db)

	entries, err := repo.Load(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, []rates.Entry{
		{Item: "coal", Rate: "5%"},
		{Item: "milk", Rate: "0%"},
		{Item: "mobile", Rate: "12%"},
	}, entries)
}

func TestRateRepository_LoadError(t *testing.T) {
	db, store := openStore(t, map[string]string{})
	store.queryErr = errors.New("relation \"gst_rate\" does not exist")
	repo := NewRateRepository(db)

	entries, err := repo.Load(context.Background())

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(entries))
}

func TestRateRepository_UpsertOverwrites(t *testing.T) {
	db, store := openStore(t, map[string]string{"cars": "18%"})
	repo := NewRateRepository(db)
	ctx := context.Background()

	assert.Equal(t, nil, repo.Upsert(ctx, rates.Entry{Item: "cars", Rate: "28%"}))
	assert.Equal(t, nil, repo.Upsert(ctx, rates.Entry{Item: "coal", Rate: "5%"}))

	assert.Equal(t, map[string]string{"cars": "28%", "coal": "5%"}, store.rows)
}

func TestRateRepository_FeedsTable(t *testing.T) {
	db, _ := openStore(t, map[string]string{"Cars": "28%"})
	table := rates.NewTable(NewRateRepository(db))

	rate, err := table.Lookup(context.Background(), " cars ")

	assert.Equal(t, nil, err)
	assert.Equal(t, "28%", rate)
}
