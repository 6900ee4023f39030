package modeltest

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"vsdc.GO/core/vsdc"
	"vsdc.GO/model/entity"
	activityRepo "vsdc.GO/model/repository/activity"
	checkpointRepo "vsdc.GO/model/repository/checkpoint"
	documentRepo "vsdc.GO/model/repository/document"
	feedsRepo "vsdc.GO/model/repository/feeds"
	itemRepo "vsdc.GO/model/repository/item"
	referenceRepo "vsdc.GO/model/repository/reference"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(entity.AllEntities()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, itemID string, stock float64, confirmed bool) {
	t.Helper()
	it := entity.Item{
		ItemID:       itemID,
		TPIN:         "2001179764",
		BranchID:     "000",
		ItemName:     "Widget " + itemID,
		CurrentStock: stock,
	}
	it.Confirmed = confirmed
	if err := db.Create(&it).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
}

func TestItemRepository_FindConfirmedByItemID(t *testing.T) {
	db := testDB(t)
	repo := itemRepo.NewItemRepository(db)

	seedItem(t, db, "SKU-1", 10, true)
	seedItem(t, db, "SKU-2", 10, false)

	it, err := repo.FindConfirmedByItemID("SKU-1")
	if err != nil {
		t.Fatalf("FindConfirmedByItemID: %v", err)
	}
	if it.ItemID != "SKU-1" {
		t.Errorf("got item %q, want SKU-1", it.ItemID)
	}

	// Unconfirmed rows must be invisible.
	if _, err := repo.FindConfirmedByItemID("SKU-2"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("unconfirmed item lookup: got %v, want ErrRecordNotFound", err)
	}
}

func TestItemRepository_AdjustStock(t *testing.T) {
	db := testDB(t)
	repo := itemRepo.NewItemRepository(db)
	seedItem(t, db, "SKU-1", 5, true)

	if err := repo.AdjustStock("SKU-1", 7); err != nil {
		t.Fatalf("AdjustStock +7: %v", err)
	}
	if err := repo.AdjustStock("SKU-1", -2); err != nil {
		t.Fatalf("AdjustStock -2: %v", err)
	}
	it, err := repo.FindByItemID("SKU-1")
	if err != nil {
		t.Fatalf("FindByItemID: %v", err)
	}
	if it.CurrentStock != 10 {
		t.Errorf("stock = %v, want 10", it.CurrentStock)
	}

	if err := repo.AdjustStock("absent", 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("adjust on absent item: got %v, want ErrRecordNotFound", err)
	}
}

func TestItemRepository_DeductStockIfAvailable(t *testing.T) {
	db := testDB(t)
	repo := itemRepo.NewItemRepository(db)
	seedItem(t, db, "SKU-1", 3, true)

	if err := repo.DeductStockIfAvailable("SKU-1", 2); err != nil {
		t.Fatalf("deduct 2 of 3: %v", err)
	}
	// 1 left; deducting 2 must fail and leave the level untouched.
	if err := repo.DeductStockIfAvailable("SKU-1", 2); !errors.Is(err, itemRepo.ErrInsufficientStock) {
		t.Errorf("deduct 2 of 1: got %v, want ErrInsufficientStock", err)
	}
	it, _ := repo.FindByItemID("SKU-1")
	if it.CurrentStock != 1 {
		t.Errorf("stock after failed deduct = %v, want 1", it.CurrentStock)
	}
}

func TestReferenceRepository_UpsertIsIdempotent(t *testing.T) {
	db := testDB(t)
	repo := referenceRepo.NewReferenceRepository(db)

	rows := []entity.StandardCode{
		{CodeClass: "04", CodeClassName: "Taxation Type", Code: "A", CodeName: "Standard", UniqueKey: "04-A"},
		{CodeClass: "04", CodeClassName: "Taxation Type", Code: "B", CodeName: "Minimum", UniqueKey: "04-B"},
	}
	if err := repo.UpsertStandardCodes(rows); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	rows[0].CodeName = "Standard Rated"
	if err := repo.UpsertStandardCodes(rows); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	codes, _, _, err := repo.Counts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if codes != 2 {
		t.Errorf("code count = %d, want 2", codes)
	}
	got, err := repo.ListStandardCodes("04")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].CodeName != "Standard Rated" {
		t.Errorf("replayed row not updated: %q", got[0].CodeName)
	}
}

func TestReferenceRepository_DedupeAll(t *testing.T) {
	db := testDB(t)
	repo := referenceRepo.NewReferenceRepository(db)

	if err := repo.UpsertNotices([]entity.Notice{{NoticeID: "1", Title: "Maintenance"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	removed, err := repo.DedupeAll()
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed %d rows from clean tables, want 0", removed)
	}
}

func TestCheckpointRepository_DefaultAndAdvance(t *testing.T) {
	db := testDB(t)
	repo := checkpointRepo.NewCheckpointRepository(db)

	wm, err := repo.Get(checkpointRepo.FeedStandardCodes)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if wm != vsdc.DefaultWatermark {
		t.Errorf("fresh feed watermark = %q, want default %q", wm, vsdc.DefaultWatermark)
	}

	if err := repo.Set(checkpointRepo.FeedStandardCodes, "20240601000000"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(checkpointRepo.FeedStandardCodes, "20240702120000"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	wm, _ = repo.Get(checkpointRepo.FeedStandardCodes)
	if wm != "20240702120000" {
		t.Errorf("watermark = %q, want 20240702120000", wm)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("checkpoint rows = %d, want 1", len(all))
	}
}

func TestDocumentRepository_SaveOutcome(t *testing.T) {
	db := testDB(t)
	repo := documentRepo.NewDocumentRepository(db)

	inv := entity.SalesInvoice{TPIN: "2001179764", BranchID: "000"}
	inv.OriginalPayload = []byte(`{"tpin":"2001179764"}`)
	if err := repo.Create(&inv); err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.ID == 0 {
		t.Fatal("create did not assign id")
	}

	err := repo.SaveOutcome(&entity.SalesInvoice{}, inv.ID,
		[]byte(`{"sent":true}`), []byte(`{"resultCd":"000"}`), true)
	if err != nil {
		t.Fatalf("save outcome: %v", err)
	}

	var got entity.SalesInvoice
	if err := db.First(&got, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.Confirmed {
		t.Error("row not confirmed after outcome")
	}
	if len(got.Response) == 0 {
		t.Error("response not persisted")
	}
}

func TestDocumentRepository_PendingLookups(t *testing.T) {
	db := testDB(t)
	repo := documentRepo.NewDocumentRepository(db)

	db.Create(&entity.PurchaseRecord{SupplierInvoiceNo: 42, Status: entity.StatusPending, SystemRequestDate: "20240101000000"})
	db.Create(&entity.PurchaseRecord{SupplierInvoiceNo: 42, Status: entity.StatusProcessed, SystemRequestDate: "20240101000000"})
	db.Create(&entity.ImportItem{TaskCode: "T-1", ItemSeq: 1, Status: entity.StatusPending, SystemRequestDate: "20240101000000"})
	db.Create(&entity.ImportItem{TaskCode: "T-1", ItemSeq: 2, Status: entity.StatusPending, SystemRequestDate: "20240101000000"})

	rec, err := repo.FindPendingPurchase(42)
	if err != nil {
		t.Fatalf("pending purchase: %v", err)
	}
	if rec.Status != entity.StatusPending {
		t.Errorf("status = %q, want pending", rec.Status)
	}

	rows, err := repo.FindPendingImports("T-1")
	if err != nil {
		t.Fatalf("pending imports: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("pending imports = %d, want 2", len(rows))
	}

	if err := repo.MarkImportsProcessed("T-1", []byte(`{}`), []byte(`{"resultCd":"000"}`), entity.StatusApproved); err != nil {
		t.Fatalf("mark processed: %v", err)
	}
	rows, _ = repo.FindPendingImports("T-1")
	if len(rows) != 0 {
		t.Errorf("pending imports after processing = %d, want 0", len(rows))
	}
}

func TestFeedsRepository_DedupeImportItems(t *testing.T) {
	db := testDB(t)
	repo := feedsRepo.NewFeedsRepository(db)

	rows := []entity.ImportItem{
		{TaskCode: "T-1", ItemSeq: 1, SystemRequestDate: "20240101000000"},
		{TaskCode: "T-1", ItemSeq: 1, SystemRequestDate: "20240102000000"},
		{TaskCode: "T-1", ItemSeq: 2, SystemRequestDate: "20240101000000"},
	}
	if err := repo.InsertImportItems(rows); err != nil {
		t.Fatalf("insert: %v", err)
	}

	removed, err := repo.DedupeImportItems()
	if err != nil {
		t.Fatalf("dedupe: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	imports, _, err := repo.Counts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if imports != 2 {
		t.Errorf("import rows = %d, want 2", imports)
	}
}

func TestActivityRepository_AppendRecent(t *testing.T) {
	db := testDB(t)
	repo := activityRepo.NewActivityRepository(db)

	for _, kind := range []string{"call_received", "creation", "call_returned"} {
		if err := repo.Append(kind, "{}"); err != nil {
			t.Fatalf("append %s: %v", kind, err)
		}
	}
	rows, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("recent = %d rows, want 2", len(rows))
	}
	if rows[0].EventKind != "call_returned" {
		t.Errorf("newest first: got %q", rows[0].EventKind)
	}
}
