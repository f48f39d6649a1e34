package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
)

var testDB *TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	db, err := SetupTestDatabase(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up test database: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()

	_ = testDB.Teardown(ctx)
	os.Exit(code)
}

// freshServer returns a test server over a clean database
func freshServer(t *testing.T) *TestServer {
	t.Helper()

	if err := testDB.TruncateTables(context.Background()); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	ts := NewTestServer(testDB.DB)
	t.Cleanup(ts.Close)
	return ts
}
