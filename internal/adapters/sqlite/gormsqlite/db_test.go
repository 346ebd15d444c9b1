package gormsqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildDSNIncludesPerConnectionPragmas(t *testing.T) {
	reader := buildDSN("./db.sqlite", true)
	writer := buildDSN("./db.sqlite", false)

	checks := []string{
		"_pragma=journal_mode(WAL)",
		"_pragma=synchronous(NORMAL)",
		"_pragma=foreign_keys(1)",
		"_pragma=busy_timeout(5000)",
		"_pragma=trusted_schema(OFF)",
	}
	for _, c := range checks {
		if !strings.Contains(reader, c) {
			t.Fatalf("reader dsn missing %q: %s", c, reader)
		}
		if !strings.Contains(writer, c) {
			t.Fatalf("writer dsn missing %q: %s", c, writer)
		}
	}

	if !strings.Contains(reader, "_pragma=query_only(1)") {
		t.Fatalf("reader dsn missing query_only(1): %s", reader)
	}
	if !strings.Contains(writer, "_pragma=query_only(0)") {
		t.Fatalf("writer dsn missing query_only(0): %s", writer)
	}
}

func TestMemoryDSNIsPrivateAndShared(t *testing.T) {
	dsn := memoryDSN("a b")
	if !strings.HasPrefix(dsn, "file:a%20b?") {
		t.Fatalf("unexpected memory dsn prefix: %s", dsn)
	}
	for _, c := range []string{"mode=memory", "cache=shared"} {
		if !strings.Contains(dsn, c) {
			t.Fatalf("memory dsn missing %q: %s", c, dsn)
		}
	}
	if strings.Contains(dsn, "journal_mode") {
		t.Fatalf("memory dsn should not request WAL: %s", dsn)
	}
}

func TestOpenMemorySharesOneHandle(t *testing.T) {
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if db.R != db.W {
		t.Fatal("memory mode should reuse the writer for reads")
	}
	if err := db.W.Exec("CREATE TABLE sample (v INTEGER)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	var count int64
	err = db.ReadTX(context.Background(), func(tx *Tx) error {
		return tx.Raw("SELECT COUNT(*) FROM sample").Scan(&count).Error
	})
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
}

func TestReaderRejectsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ro.sqlite")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.W.Exec("CREATE TABLE sample (v INTEGER)").Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	err = db.ReadTX(context.Background(), func(tx *Tx) error {
		return tx.Exec("INSERT INTO sample (v) VALUES (1)").Error
	})
	if err == nil {
		t.Fatal("expected query_only reader to reject insert")
	}
}
