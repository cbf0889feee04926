package common

import (
	"context"
	"testing"

	"github.com/ideamans/go-sheetfix"
)

// Adapter is a backend that can be loaded from and exported to
type Adapter interface {
	sheetfix.Loader
	sheetfix.Exporter
}

// AdapterTestCase represents a test case for an adapter
type AdapterTestCase struct {
	Name        string
	Adapter     Adapter
	Description string
}

// Records builds records from rows of fields given in header order
func Records(headers []string, rows ...[]string) []sheetfix.Record {
	out := make([]sheetfix.Record, len(rows))
	for i, row := range rows {
		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(row) {
				values[h] = row[j]
			} else {
				values[h] = ""
			}
		}
		out[i] = sheetfix.NewRecord(values)
	}
	return out
}

// CreateTestSession replaces the adapter's contents with headers and rows
// and returns a session loaded from it
func CreateTestSession(t *testing.T, adapter Adapter, headers []string, rows []sheetfix.Record) *sheetfix.Session {
	t.Helper()
	ctx := context.Background()

	if err := adapter.Export(ctx, headers, rows); err != nil {
		t.Fatalf("Failed to seed adapter: %v", err)
	}

	session := sheetfix.NewSession(adapter, &sheetfix.Config{MaxRetries: 3})
	if err := session.Load(ctx); err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	return session
}

// Reload opens a fresh session on adapter and returns its state
func Reload(t *testing.T, adapter Adapter) sheetfix.State {
	t.Helper()
	session := sheetfix.NewSession(adapter, &sheetfix.Config{MaxRetries: 3})
	defer CleanupSession(t, session)

	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	st, err := session.State()
	if err != nil {
		t.Fatalf("Failed to read state: %v", err)
	}
	return st
}

// CleanupSession properly closes the session
func CleanupSession(t *testing.T, session *sheetfix.Session) {
	if err := session.Close(); err != nil {
		t.Errorf("Failed to close session: %v", err)
	}
}
