package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
	"charter-ops.backend/internal/infrastructure/repositories"
	"charter-ops.backend/internal/usecases"
)

var testDBSeq atomic.Int64

type testEnv struct {
	router       *gin.Engine
	templates    *usecases.TemplateUsecase
	contracts    *usecases.ContractUsecase
	contractRepo *repositories.ContractRepositoryImpl
	templateRepo *repositories.ContractTemplateRepositoryImpl
}

// newTestEnv wires the full handler stack over an in-memory sqlite store.
// Auth middleware is deliberately absent; it has its own tests.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE contract_templates (
			id TEXT PRIMARY KEY,
			sku TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			variables TEXT NOT NULL,
			body TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		)`,
		`CREATE TABLE contracts (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			sku TEXT NOT NULL,
			template_id TEXT NOT NULL,
			variable_values TEXT NOT NULL,
			rendered_body TEXT NOT NULL,
			status TEXT NOT NULL,
			access_token TEXT NOT NULL UNIQUE,
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
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	templateRepo := repositories.NewContractTemplateRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	templates := usecases.NewTemplateUsecase(templateRepo, contractRepo)
	contracts := usecases.NewContractUsecase(contractRepo, templateRepo, usecases.NewIdentifierGenerator())

	templateHandler := NewTemplateHandler(templates)
	contractHandler := NewContractHandler(contracts, nil)
	signerHandler := NewSignerHandler(contracts, nil)
	adminHandler := NewAdminHandler(contracts)

	router := gin.New()
	v1 := router.Group("/api/v1")

	tpl := v1.Group("/contract-templates")
	tpl.POST("", templateHandler.CreateTemplate)
	tpl.GET("", templateHandler.ListTemplates)
	tpl.GET("/:id", templateHandler.GetTemplate)
	tpl.PUT("/:id", templateHandler.UpdateTemplate)
	tpl.PUT("/:id/active", templateHandler.SetActive)
	tpl.DELETE("/:id", templateHandler.DeleteTemplate)

	ct := v1.Group("/contracts")
	ct.POST("", contractHandler.IssueContract)
	ct.GET("", contractHandler.ListContracts)
	ct.GET("/code/:code", contractHandler.GetContractByCode)
	ct.GET("/:id", contractHandler.GetContract)
	ct.GET("/:id/body", contractHandler.GetRenderedBody)
	ct.POST("/:id/request-signature", contractHandler.RequestSignature)
	ct.POST("/:id/sign", contractHandler.SignContract)
	ct.POST("/:id/invalidate", contractHandler.InvalidateContract)
	ct.DELETE("/:id", contractHandler.DeleteContract)

	v1.GET("/sign/:token", signerHandler.GetContractView)
	v1.POST("/sign/:token", signerHandler.Sign)

	v1.POST("/admin/contracts/expire-sweep", adminHandler.ExpireSweep)

	return &testEnv{
		router:       router,
		templates:    templates,
		contracts:    contracts,
		contractRepo: contractRepo,
		templateRepo: templateRepo,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	envelope := decodeEnvelope(t, w)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "expected object data field, got %v", envelope["data"])
	return data
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equal(t, expected, w.Code, "body: %s", w.Body.String())
}
