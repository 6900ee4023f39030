package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"vsdc.GO/api"
	_ "vsdc.GO/api/documents"
	_ "vsdc.GO/api/process"
	_ "vsdc.GO/api/realtime"
	_ "vsdc.GO/api/reference"
	_ "vsdc.GO/api/status"
	"vsdc.GO/config"
	"vsdc.GO/core/vsdc"
	_ "vsdc.GO/custom"
	"vsdc.GO/model/entity"
)

const testKey = "defaultKey123"

func apiTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("api_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
	t.Cleanup(func() { os.Remove(tmpFile) })
	db, err := gorm.Open(sqlite.Open(tmpFile), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	if err := db.AutoMigrate(entity.AllEntities()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// stubAuthority answers every endpoint with an accepted envelope.
func stubAuthority(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, "VSDC Service Time: 2025-01-01 00:00:00")
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCd":  "000",
			"resultMsg": "It is succeeded",
			"resultDt":  time.Now().Format("20060102150405"),
			"data":      map[string]interface{}{},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newBridgeServer wires the full route surface against a fresh DB and the
// stub authority, the same way main does (minus auth middleware).
func newBridgeServer(t *testing.T, db *gorm.DB, vsdcURL string) *echo.Echo {
	t.Helper()
	t.Cleanup(config.ReloadAppConfig)
	t.Setenv("VSDC_BASE_URL", vsdcURL)
	config.ReloadAppConfig()

	api.SetServices(api.NewContainer(db, vsdc.NewClient(vsdcURL)))

	e := echo.New()
	apiGroup := e.Group("/api")
	api.ApplyRoutes(e, db)
	api.ApplyModules(apiGroup, db)
	return e
}

func postJSON(e *echo.Echo, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func getPath(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedItem(t *testing.T, db *gorm.DB, itemID string, stock float64) {
	t.Helper()
	it := entity.Item{
		ItemID:           itemID,
		TPIN:             "2001179764",
		BranchID:         "Main Branch",
		ItemCode:         itemID + "-CD",
		ItemName:         "Item " + itemID,
		QuantityUnitCode: "U",
		CurrentStock:     stock,
		Submission:       entity.Submission{Confirmed: true},
	}
	if err := db.Create(&it).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
}
