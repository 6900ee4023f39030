package apitest

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"vsdc.GO/model/entity"
)

func salesPayload(key, itemID string, qty float64) map[string]interface{} {
	return map[string]interface{}{
		"securityKey": key,
		"invoiceData": map[string]interface{}{
			"custNm":  "Counter sale",
			"salesDt": "20250110",
			"itemList": []map[string]interface{}{
				{"itemSeq": 1, "itemId": itemID, "qty": qty, "prc": 10},
			},
		},
	}
}

func TestSalesInvoiceRoute_Accepted(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)
	seedItem(t, db, "API-1", 20)

	rec := postJSON(e, "/sales-invoice", salesPayload(testKey, "API-1", 5))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["resultCd"] != "000" {
		t.Errorf("resultCd = %v, want 000", resp["resultCd"])
	}

	var n int64
	db.Model(&entity.SalesInvoice{}).Count(&n)
	if n != 1 {
		t.Errorf("persisted %d invoices, want 1", n)
	}
}

func TestSalesInvoiceRoute_BadKey(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)

	rec := postJSON(e, "/sales-invoice", salesPayload("wrong", "API-1", 1))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] != "Invalid security key" {
		t.Errorf("error = %q", resp["error"])
	}
}

func TestSalesInvoiceRoute_UnknownItem(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)

	rec := postJSON(e, "/sales-invoice", salesPayload(testKey, "NOPE", 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestPurchaseRoute_Accepted(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)
	seedItem(t, db, "API-2", 0)

	body := map[string]interface{}{
		"securityKey": testKey,
		"invoiceData": map[string]interface{}{
			"spplrNm": "ACME",
			"pchsDt":  "20250111",
			"itemList": []map[string]interface{}{
				{"itemSeq": 1, "itemId": "API-2", "qty": 4.0, "prc": 3},
			},
		},
	}
	rec := postJSON(e, "/purchase-invoice", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Confirmed purchase books incoming stock.
	var it entity.Item
	db.Where("item_id = ?", "API-2").First(&it)
	if it.CurrentStock != 4 {
		t.Errorf("stock = %g, want 4", it.CurrentStock)
	}
}

func TestProcessPurchasesRoute_Approve(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)

	rec := entity.PurchaseRecord{
		SupplierInvoiceNo: 777,
		ItemSeq:           1,
		SystemRequestDate: "20250110120000",
		Status:            entity.StatusPending,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	res := postJSON(e, "/process-purchases", map[string]interface{}{
		"securityKey": testKey,
		"action":      "approve",
		"spplrInvcNo": 777,
	})
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}
	var resp map[string]interface{}
	json.Unmarshal(res.Body.Bytes(), &resp)
	if resp["success"] != true {
		t.Errorf("success = %v", resp["success"])
	}

	var got entity.PurchaseRecord
	db.First(&got, rec.ID)
	if got.Status != entity.StatusProcessed {
		t.Errorf("status = %s, want %s", got.Status, entity.StatusProcessed)
	}
}

func TestProcessPurchasesRoute_UnknownInvoice(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)

	res := postJSON(e, "/process-purchases", map[string]interface{}{
		"securityKey": testKey,
		"action":      "reject",
		"spplrInvcNo": 1,
	})
	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", res.Code, res.Body.String())
	}
}

func TestProcessImportsRoute_MissingTask(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)

	res := postJSON(e, "/process-imports", map[string]interface{}{
		"securityKey": testKey,
	})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", res.Code, res.Body.String())
	}
}

func TestFetchImportsRoute(t *testing.T) {
	db := apiTestDB(t)
	authority := stubAuthority(t)
	e := newBridgeServer(t, db, authority.URL)

	// Start from yesterday so the stub's empty pages end the walk after
	// a single day.
	mark := time.Now().UTC().AddDate(0, 0, -1).Format("20060102") + "000000"
	if err := db.Create(&entity.SyncCheckpoint{Feed: "ImportsData", LastReqDt: mark}).Error; err != nil {
		t.Fatalf("seed checkpoint: %v", err)
	}

	res := postJSON(e, "/fetch-imports", map[string]interface{}{"securityKey": testKey})
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", res.Code, res.Body.String())
	}
	var resp map[string]interface{}
	json.Unmarshal(res.Body.Bytes(), &resp)
	if resp["success"] != true {
		t.Errorf("success = %v", resp["success"])
	}
}
