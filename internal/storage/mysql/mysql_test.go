package mysql

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
)

var testDB *sql.DB

// Интеграционные тесты запускаются только при заданном TEST_MYSQL_DSN,
// например root:@tcp(mysql-8.0:3306)/broker_test?parseTime=true
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		os.Exit(m.Run())
	}

	var err error
	testDB, err = sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Errorf("не удалось подключиться к тестовой БД: %w", err))
	}

	if err := testDB.Ping(); err != nil {
		panic(fmt.Errorf("ping failed: %w", err))
	}

	if err := applySchema(testDB, "../../../schema/schema.sql"); err != nil {
		panic(fmt.Errorf("schema: %w", err))
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func applySchema(db *sql.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	for _, stmt := range strings.Split(string(data), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func testStorage(t *testing.T) *Storage {
	t.Helper()

	if testDB == nil {
		t.Skip("TEST_MYSQL_DSN не задан")
	}

	for _, table := range []string{
		"supplier_quotations", "supplier_quotation_items",
		"purchase_orders", "purchase_order_items",
		"parties", "items", "item_prices", "brokers", "users",
	} {
		if _, err := testDB.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("clean %s: %v", table, err)
		}
	}

	return NewWithDB(testDB)
}

func TestPlaceholders(t *testing.T) {
	cases := map[int]string{0: "", 1: "?", 3: "?,?,?"}
	for n, want := range cases {
		if got := placeholders(n); got != want {
			t.Errorf("placeholders(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestDocName(t *testing.T) {
	if got := docName("PUR-SQTN", 2026, 42); got != "PUR-SQTN-2026-00042" {
		t.Errorf("docName = %q", got)
	}
}
