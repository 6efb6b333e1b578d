package database

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/schema"
)

// renderDB builds a bun instance for statement rendering only; the
// underlying connection is never used.
func renderDB(t *testing.T, dialect schema.Dialect) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open("sqlite", "file:renderonly?mode=memory")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })
	db := bun.NewDB(sqldb, dialect)
	RegisterModels(db)
	return db
}

func renderCreateTables(t *testing.T, db *bun.DB) []string {
	t.Helper()
	statements := make([]string, 0)
	for _, spec := range schemaTables() {
		raw, err := createTableQuery(db, spec).AppendQuery(db.Formatter(), nil)
		require.NoError(t, err)
		statements = append(statements, string(raw))
	}
	return statements
}

func TestCreateTableForeignKeysUseMySQLQuoting(t *testing.T) {
	db := renderDB(t, mysqldialect.New())

	statements := renderCreateTables(t, db)
	for _, stmt := range statements {
		assert.NotContains(t, stmt, `"`, "mysql reads double-quoted tokens as string literals: %s", stmt)
	}

	all := strings.Join(statements, "\n")
	assert.Contains(t, all, "FOREIGN KEY (`customer_id`) REFERENCES `customers` (`id`)")
	assert.Contains(t, all, "FOREIGN KEY (`order_id`) REFERENCES `orders` (`id`)")
	assert.Contains(t, all, "FOREIGN KEY (`product_id`) REFERENCES `products` (`id`)")
}

func TestCreateTableForeignKeysUsePostgresQuoting(t *testing.T) {
	db := renderDB(t, pgdialect.New())

	var seen bool
	for _, stmt := range renderCreateTables(t, db) {
		if strings.Contains(stmt, `FOREIGN KEY ("order_id") REFERENCES "orders" ("id")`) {
			seen = true
		}
		assert.NotContains(t, stmt, "`")
	}
	assert.True(t, seen)
}
