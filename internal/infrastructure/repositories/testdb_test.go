package repositories

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// newTestDB opens an isolated in-memory sqlite database with the contract
// schema created. Column types are the sqlite equivalents of the production
// DDL; jsonb columns degrade to TEXT, which the repositories never notice.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE contract_templates (
			id TEXT PRIMARY KEY,
			sku TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			variables TEXT NOT NULL,
			body TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE UNIQUE INDEX idx_contract_templates_sku ON contract_templates(sku)`,
		`CREATE TABLE contracts (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			sku TEXT NOT NULL,
			template_id TEXT NOT NULL,
			variable_values TEXT NOT NULL,
			rendered_body TEXT NOT NULL,
			status TEXT NOT NULL,
			access_token TEXT NOT NULL,
			signed_by_name TEXT,
			signed_by_email TEXT,
			signed_at DATETIME,
			related_type TEXT,
			related_id TEXT,
			cancel_reason TEXT,
			expires_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE UNIQUE INDEX idx_contracts_code ON contracts(code)`,
		`CREATE UNIQUE INDEX idx_contracts_access_token ON contracts(access_token)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
