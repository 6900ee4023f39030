package servicetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"vsdc.GO/api"
	"vsdc.GO/config"
	"vsdc.GO/core/vsdc"
	"vsdc.GO/model/entity"
	documentService "vsdc.GO/service/document"
)

const testKey = "defaultKey123"

func serviceDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Temp file DB so concurrent connections see the same tables
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("doc_test_%s_%d.db", t.Name(), time.Now().UnixNano()))
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

// fakeVSDC runs a stub authority. It records every path hit and answers
// every POST with the given result code.
type fakeVSDC struct {
	srv *httptest.Server

	mu   sync.Mutex
	hits []string
	code string
}

func newFakeVSDC(t *testing.T, resultCd string) *fakeVSDC {
	t.Helper()
	f := &fakeVSDC{code: resultCd}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits = append(f.hits, r.URL.Path)
		f.mu.Unlock()
		if r.Method == http.MethodGet {
			fmt.Fprint(w, "VSDC Service Time: 2025-01-01 00:00:00")
			return
		}
		resp := map[string]interface{}{
			"resultCd":  f.code,
			"resultMsg": "stub",
			"resultDt":  time.Now().Format("20060102150405"),
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeVSDC) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, h := range f.hits {
		if h == path {
			n++
		}
	}
	return n
}

// waitForHits blocks until the stub has seen path n times. The stock ledger
// forward runs off the request path, so those hits land asynchronously.
func (f *fakeVSDC) waitForHits(t *testing.T, path string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for f.count(path) < n {
		if time.Now().After(deadline) {
			t.Fatalf("%s hit %d times, want %d", path, f.count(path), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// pointAt aims the app config at the stub authority for the duration of
// the test. Cleanup order matters: env restore runs first, then reload.
func pointAt(t *testing.T, url string) {
	t.Helper()
	t.Cleanup(config.ReloadAppConfig)
	t.Setenv("VSDC_BASE_URL", url)
	config.ReloadAppConfig()
}

func newDocuments(t *testing.T, db *gorm.DB, baseURL string) (*documentService.Service, *api.Container) {
	t.Helper()
	c := api.NewContainer(db, vsdc.NewClient(baseURL))
	return c.Documents, c
}

func seedConfirmedItem(t *testing.T, db *gorm.DB, itemID string, stock float64) {
	t.Helper()
	it := entity.Item{
		ItemID:            itemID,
		TPIN:              "2001179764",
		BranchID:          "Main Branch",
		ItemCode:          itemID + "-CD",
		ItemClassCode:     "50102517",
		ItemTypeCode:      "1",
		ItemName:          "Test " + itemID,
		OriginCountryCode: "ZM",
		PackagingUnitCode: "CT",
		QuantityUnitCode:  "U",
		VATCategoryCode:   "A",
		UseYN:             "Y",
		CurrentStock:      stock,
		Submission:        entity.Submission{Confirmed: true},
	}
	if err := db.Create(&it).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func salesBody(itemID string, qty float64) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"securityKey": testKey,
		"invoiceData": map[string]interface{}{
			"tpin":    "9999999999",
			"bhfId":   "bogus",
			"custNm":  "Walk-in",
			"salesDt": "20250110",
			"itemList": []map[string]interface{}{
				{"itemSeq": 1, "itemId": itemID, "qty": qty, "prc": 100, "totAmt": 100},
			},
		},
	})
	return b
}

func TestSubmit_SalesInvoice_ConfirmedDeductsStock(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	seedConfirmedItem(t, db, "SKU-1", 10)

	res, err := docs.Submit(context.Background(), config.EndpointSalesInvoice, salesBody("SKU-1", 3), "application/json")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.OK() {
		t.Fatalf("resultCd = %s, want 000", res.ResultCd)
	}

	var inv entity.SalesInvoice
	if err := db.First(&inv).Error; err != nil {
		t.Fatalf("load invoice: %v", err)
	}
	if !inv.Confirmed {
		t.Error("invoice not marked confirmed")
	}
	if inv.TPIN != "2001179764" || inv.BranchID != "Main Branch" {
		t.Errorf("fiscal identity not enforced: tpin=%s bhfId=%s", inv.TPIN, inv.BranchID)
	}
	if len(inv.ProcessedPayload) == 0 || len(inv.Response) == 0 {
		t.Error("processed payload / response not recorded")
	}
	var processed map[string]interface{}
	if err := json.Unmarshal(inv.ProcessedPayload, &processed); err != nil {
		t.Fatalf("decode processed payload: %v", err)
	}
	if processed["regrId"] != "admin" || processed["modrId"] != "system" {
		t.Errorf("registrar/modifier missing from processed payload: %v", processed)
	}

	var it entity.Item
	if err := db.Where("item_id = ?", "SKU-1").First(&it).Error; err != nil {
		t.Fatalf("load item: %v", err)
	}
	if it.CurrentStock != 7 {
		t.Errorf("stock = %g, want 7", it.CurrentStock)
	}

	if authority.count("/trnsSales/saveSales") != 1 {
		t.Error("sales endpoint not hit exactly once")
	}
	authority.waitForHits(t, "/stock/saveStockItems", 1)
	authority.waitForHits(t, "/stockMaster/saveStockMaster", 1)
}

func TestSubmit_LedgerForwardOffRequestPath(t *testing.T) {
	db := serviceDB(t)

	// Stock endpoints park until released; the caller must not wait on them.
	release := make(chan struct{})
	var mu sync.Mutex
	forwarded := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stock/saveStockItems" || r.URL.Path == "/stockMaster/saveStockMaster" {
			<-release
			mu.Lock()
			forwarded++
			mu.Unlock()
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"resultCd": "000", "resultMsg": "stub",
			"resultDt": time.Now().Format("20060102150405"),
		})
	}))
	t.Cleanup(srv.Close)
	var once sync.Once
	releaseForward := func() { once.Do(func() { close(release) }) }
	t.Cleanup(releaseForward)

	pointAt(t, srv.URL)
	docs, _ := newDocuments(t, db, srv.URL)
	seedConfirmedItem(t, db, "SKU-1", 10)

	start := time.Now()
	res, err := docs.Submit(context.Background(), config.EndpointSalesInvoice, salesBody("SKU-1", 3), "application/json")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.OK() {
		t.Fatalf("resultCd = %s, want 000", res.ResultCd)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Submit blocked %v on the ledger forward", elapsed)
	}

	releaseForward()
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := forwarded
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ledger forward completed %d of 2 calls", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubmit_InvalidSecurityKey(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	body, _ := json.Marshal(map[string]interface{}{
		"securityKey": "wrong",
		"invoiceData": map[string]interface{}{"custNm": "X"},
	})
	_, err := docs.Submit(context.Background(), config.EndpointSalesInvoice, body, "application/json")
	if !errors.Is(err, documentService.ErrAuthentication) {
		t.Fatalf("err = %v, want ErrAuthentication", err)
	}
	var n int64
	db.Model(&entity.SalesInvoice{}).Count(&n)
	if n != 0 {
		t.Errorf("rejected document was persisted (%d rows)", n)
	}
	if authority.count("/trnsSales/saveSales") != 0 {
		t.Error("rejected document was forwarded")
	}
}

func TestSubmit_UnregisteredItem_NoPersist(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	_, err := docs.Submit(context.Background(), config.EndpointSalesInvoice, salesBody("GHOST", 1), "application/json")
	var ve *documentService.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	var n int64
	db.Model(&entity.SalesInvoice{}).Count(&n)
	if n != 0 {
		t.Errorf("invalid document was persisted (%d rows)", n)
	}
}

func TestSubmit_InsufficientStock(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	seedConfirmedItem(t, db, "SKU-LOW", 1)

	_, err := docs.Submit(context.Background(), config.EndpointSalesInvoice, salesBody("SKU-LOW", 5), "application/json")
	var ve *documentService.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	var it entity.Item
	db.Where("item_id = ?", "SKU-LOW").First(&it)
	if it.CurrentStock != 1 {
		t.Errorf("stock = %g, want 1 (untouched)", it.CurrentStock)
	}
}

func TestSubmit_RejectedByAuthority_KeepsRowUnconfirmed(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "902")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	seedConfirmedItem(t, db, "SKU-2", 10)

	res, err := docs.Submit(context.Background(), config.EndpointSalesInvoice, salesBody("SKU-2", 2), "application/json")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.OK() {
		t.Fatal("expected rejection")
	}

	var inv entity.SalesInvoice
	if err := db.First(&inv).Error; err != nil {
		t.Fatalf("row missing despite rejection: %v", err)
	}
	if inv.Confirmed {
		t.Error("rejected invoice marked confirmed")
	}

	var it entity.Item
	db.Where("item_id = ?", "SKU-2").First(&it)
	if it.CurrentStock != 10 {
		t.Errorf("stock = %g, want 10 (no deduction on rejection)", it.CurrentStock)
	}
}

func TestSubmit_XMLBody(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	seedConfirmedItem(t, db, "SKU-X", 4)

	body := []byte(`<request>
		<securityKey>defaultKey123</securityKey>
		<invoiceData>
			<custNm>XML Buyer</custNm>
			<salesDt>20250112</salesDt>
			<itemList>
				<itemSeq>1</itemSeq>
				<itemId>SKU-X</itemId>
				<qty>2</qty>
				<prc>50</prc>
			</itemList>
		</invoiceData>
	</request>`)

	res, err := docs.Submit(context.Background(), config.EndpointSalesInvoice, body, "application/xml")
	if err != nil {
		t.Fatalf("Submit xml: %v", err)
	}
	if !res.OK() {
		t.Fatalf("resultCd = %s, want 000", res.ResultCd)
	}
	var it entity.Item
	db.Where("item_id = ?", "SKU-X").First(&it)
	if it.CurrentStock != 2 {
		t.Errorf("stock = %g, want 2", it.CurrentStock)
	}
}

func TestSubmit_ItemRegistration(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	body, _ := json.Marshal(map[string]interface{}{
		"securityKey": testKey,
		"itemData": map[string]interface{}{
			"itemId":    "NEW-1",
			"itemCd":    "NEW-1-CD",
			"itemClsCd": "50102517",
			"itemNm":    "New product",
			"vatCatCd":  "A",
		},
	})
	res, err := docs.Submit(context.Background(), config.EndpointItems, body, "application/json")
	if err != nil {
		t.Fatalf("Submit items: %v", err)
	}
	if !res.OK() {
		t.Fatalf("resultCd = %s", res.ResultCd)
	}

	var it entity.Item
	if err := db.Where("item_id = ?", "NEW-1").First(&it).Error; err != nil {
		t.Fatalf("item row missing: %v", err)
	}
	if !it.Confirmed {
		t.Error("item not marked confirmed after 000")
	}
	if it.TPIN != "2001179764" {
		t.Errorf("tpin = %s, want configured identity", it.TPIN)
	}
	if authority.count("/items/saveItem") != 1 {
		t.Error("items endpoint not hit")
	}
}

func TestProcessPurchases_Approve(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	rec := entity.PurchaseRecord{
		SupplierInvoiceNo: 1001,
		SupplierName:      "ACME",
		ItemSeq:           1,
		SystemRequestDate: "20250110120000",
		Status:            entity.StatusPending,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed purchase record: %v", err)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"securityKey": testKey,
		"action":      "approve",
		"spplrInvcNo": 1001,
	})
	msg, res, err := docs.ProcessPurchases(context.Background(), body, "application/json")
	if err != nil {
		t.Fatalf("ProcessPurchases: %v", err)
	}
	if res != nil {
		t.Fatal("decision path should not forward to the authority")
	}
	want := "Purchase 1001 approved and marked as processed"
	if msg != want {
		t.Errorf("msg = %q, want %q", msg, want)
	}

	var got entity.PurchaseRecord
	db.First(&got, rec.ID)
	if got.Status != entity.StatusProcessed {
		t.Errorf("status = %s, want %s", got.Status, entity.StatusProcessed)
	}
}

func TestProcessPurchases_UnknownInvoice(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	body, _ := json.Marshal(map[string]interface{}{
		"securityKey": testKey,
		"action":      "reject",
		"spplrInvcNo": 42,
	})
	_, _, err := docs.ProcessPurchases(context.Background(), body, "application/json")
	if !errors.Is(err, documentService.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProcessImports_ApproveRegistersItem(t *testing.T) {
	db := serviceDB(t)
	authority := newFakeVSDC(t, "000")
	pointAt(t, authority.srv.URL)
	docs, _ := newDocuments(t, db, authority.srv.URL)

	pending := entity.ImportItem{
		TaskCode:          "TASK-9",
		DeclarationDate:   "20250105",
		ItemSeq:           1,
		ItemName:          "Imported widget",
		HSCode:            "8501",
		Quantity:          6,
		SystemRequestDate: "20250110120000",
		Status:            entity.StatusPending,
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("seed import item: %v", err)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"securityKey": testKey,
		"taskCd":      "TASK-9",
		"importItemList": []map[string]interface{}{
			{
				"itemSeq":        1,
				"itemId":         "IMP-1",
				"itemNm":         "Imported widget",
				"imptItemSttsCd": "3",
				"qty":            6,
				"hsCd":           "8501",
			},
		},
	})
	outcomes, err := docs.ProcessImports(context.Background(), body, "application/json")
	if err != nil {
		t.Fatalf("ProcessImports: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %d, want 1", len(outcomes))
	}

	// Approved import registers the unknown item and receives its stock.
	var it entity.Item
	if err := db.Where("item_id = ?", "IMP-1").First(&it).Error; err != nil {
		t.Fatalf("registered item missing: %v", err)
	}
	if !it.Confirmed {
		t.Error("registered item not confirmed")
	}
	if it.CurrentStock != 6 {
		t.Errorf("stock = %g, want 6", it.CurrentStock)
	}
	if it.OriginCountryCode != "ZM" || it.PackagingUnitCode != "CT" || it.QuantityUnitCode != "U" {
		t.Errorf("defaults not applied: %+v", it)
	}

	var row entity.ImportItem
	db.First(&row, pending.ID)
	if row.Status != entity.StatusProcessed {
		t.Errorf("import row status = %s, want %s", row.Status, entity.StatusProcessed)
	}
	if authority.count("/imports/updateImportItems") != 1 {
		t.Error("import decision not forwarded")
	}
	if authority.count("/items/saveItem") != 1 {
		t.Error("missing item not registered upstream")
	}
}
