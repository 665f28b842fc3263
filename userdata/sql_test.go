package userdata

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
)

// fakeSQLDriver serves one hard-coded user table without a real database.
type fakeSQLDriver struct {
	rows map[string][]driver.Value // username -> (username, password, email)
	fail error
}

func (d *fakeSQLDriver) Open(string) (driver.Conn, error) {
	return &fakeSQLConn{d: d}, nil
}

type fakeSQLConn struct{ d *fakeSQLDriver }

func (c *fakeSQLConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeSQLStmt{d: c.d}, nil
}
func (c *fakeSQLConn) Close() error              { return nil }
func (c *fakeSQLConn) Begin() (driver.Tx, error) { return nil, errors.New("not supported") }

type fakeSQLStmt struct{ d *fakeSQLDriver }

func (s *fakeSQLStmt) Close() error  { return nil }
func (s *fakeSQLStmt) NumInput() int { return 1 }
func (s *fakeSQLStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("not supported")
}

func (s *fakeSQLStmt) Query(args []driver.Value) (driver.Rows, error) {
	if s.d.fail != nil {
		return nil, s.d.fail
	}
	username, _ := args[0].(string)
	row, ok := s.d.rows[username]
	var rows [][]driver.Value
	if ok {
		rows = [][]driver.Value{row}
	}
	return &fakeSQLRows{rows: rows}, nil
}

type fakeSQLRows struct {
	rows [][]driver.Value
	next int
}

func (r *fakeSQLRows) Columns() []string { return []string{"username", "password", "email"} }
func (r *fakeSQLRows) Close() error      { return nil }

func (r *fakeSQLRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

func newFakeDB(t *testing.T, d *fakeSQLDriver) *sql.DB {
	t.Helper()
	name := "fake-" + t.Name()
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLVerifySuccess(t *testing.T) {
	db := newFakeDB(t, &fakeSQLDriver{rows: map[string][]driver.Value{
		"john": {"john", HashPassword("password"), "john@example.com"},
	}})

	p, err := NewSQLProvider(SQLConfig{DB: db, Table: "users"})
	if err != nil {
		t.Fatalf("NewSQLProvider: %v", err)
	}

	attrs, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "password"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if attrs["email"] != "john@example.com" {
		t.Errorf("email attribute = %q", attrs["email"])
	}
	if _, ok := attrs["password"]; ok {
		t.Error("password column leaked into attributes")
	}
}

func TestSQLVerifyRejections(t *testing.T) {
	db := newFakeDB(t, &fakeSQLDriver{rows: map[string][]driver.Value{
		"john": {"john", HashPassword("password"), "john@example.com"},
	}})

	p, err := NewSQLProvider(SQLConfig{DB: db, Table: "users"})
	if err != nil {
		t.Fatalf("NewSQLProvider: %v", err)
	}

	for _, tc := range []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "password"},
		{"wrong password", "john", "wrong"},
		{"empty username", "", "password"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Verify(map[string]string{FieldUsername: tc.username, FieldPassword: tc.password})
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Verify = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSQLQueryFaultIsInternal(t *testing.T) {
	db := newFakeDB(t, &fakeSQLDriver{fail: errors.New("connection refused")})

	p, err := NewSQLProvider(SQLConfig{DB: db, Table: "users"})
	if err != nil {
		t.Fatalf("NewSQLProvider: %v", err)
	}

	_, err = p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "x"})
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("Verify = %v, want internal fault", err)
	}
}

func TestSQLConfigValidation(t *testing.T) {
	if _, err := NewSQLProvider(SQLConfig{Table: "users"}); err == nil {
		t.Error("missing pool accepted")
	}
	db := newFakeDB(t, &fakeSQLDriver{})
	if _, err := NewSQLProvider(SQLConfig{DB: db}); err == nil {
		t.Error("missing table accepted")
	}
}
