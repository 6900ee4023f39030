package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"vsdc.GO/core/relay"
	"vsdc.GO/core/vsdc"
	"vsdc.GO/model/entity"
	checkpointRepo "vsdc.GO/model/repository/checkpoint"
)

// wireSaleLine is one line of a reported sale in the purchases feed.
type wireSaleLine struct {
	ItemSeq     int             `json:"itemSeq"`
	ItemCd      string          `json:"itemCd"`
	ItemClsCd   string          `json:"itemClsCd"`
	ItemNm      string          `json:"itemNm"`
	Bcd         string          `json:"bcd"`
	PkgUnitCd   string          `json:"pkgUnitCd"`
	Pkg         int             `json:"pkg"`
	QtyUnitCd   string          `json:"qtyUnitCd"`
	Qty         float64         `json:"qty"`
	Prc         decimal.Decimal `json:"prc"`
	SplyAmt     decimal.Decimal `json:"splyAmt"`
	DcRt        float64         `json:"dcRt"`
	DcAmt       decimal.Decimal `json:"dcAmt"`
	VatCatCd    string          `json:"vatCatCd"`
	VatTaxblAmt decimal.Decimal `json:"vatTaxblAmt"`
	VatAmt      decimal.Decimal `json:"vatAmt"`
	TotAmt      decimal.Decimal `json:"totAmt"`
}

// PullImports walks the import-items feed day by day from the stored
// watermark to today, appending every line as a pending row. The whole pull
// aborts on a transport error so the watermark is only advanced after a
// clean run.
func (e *Engine) PullImports(ctx context.Context) (int, error) {
	last, err := e.checkpoints.Get(checkpointRepo.FeedImports)
	if err != nil {
		return 0, err
	}
	today := vsdc.Today()
	total := 0

	for cursor := last; cursor < today; {
		res, err := e.pull(ctx, pathImportItems, cursor)
		if err != nil {
			e.record(relay.KindSyncError, fmt.Sprintf("imports fetch error for %s: %v", cursor, err))
			return total, err
		}
		advanced := ""
		if res.OK() {
			n, err := e.persistImportPage(res, cursor)
			if err != nil {
				return total, err
			}
			total += n
			if n > 0 {
				advanced = res.ResultDt
			}
		}
		if advanced == "" {
			advanced = vsdc.NextDay(cursor)
		}
		cursor = advanced
		if err := sleep(ctx, pageDelay); err != nil {
			return total, err
		}
	}

	// An earlier walk may have aborted after inserting rows without moving
	// the watermark, so the re-run re-inserts the same lines.
	if removed, err := e.feeds.DedupeImportItems(); err != nil {
		e.record(relay.KindCleanupError, fmt.Sprintf("duplicate removal failed: %v", err))
	} else if removed > 0 {
		e.record(relay.KindCleanup, fmt.Sprintf("removed %d duplicate import rows", removed))
	}

	if err := e.checkpoints.Set(checkpointRepo.FeedImports, today); err != nil {
		return total, err
	}
	e.record(relay.KindSyncUpdate, fmt.Sprintf("fetched %d import records", total))
	return total, nil
}

func (e *Engine) persistImportPage(res *vsdc.Result, cursor string) (int, error) {
	var page struct {
		ItemList []json.RawMessage `json:"itemList"`
	}
	if err := json.Unmarshal(res.Data, &page); err != nil {
		return 0, fmt.Errorf("decode import itemList: %w", err)
	}
	request, _ := json.Marshal(map[string]string{
		"tpin": e.app().TPIN, "bhfId": e.app().BranchID, "lastReqDt": cursor,
	})
	rows := make([]entity.ImportItem, 0, len(page.ItemList))
	for _, raw := range page.ItemList {
		var row entity.ImportItem
		if err := json.Unmarshal(raw, &row); err != nil {
			e.record(relay.KindSyncError, fmt.Sprintf("skipping malformed import row: %v", err))
			continue
		}
		row.SystemRequestDate = vsdc.NowWatermark()
		row.OriginalPayload = request
		row.ProcessedPayload = datatypes.JSON(raw)
		row.Response = res.Raw
		row.Status = entity.StatusPending
		rows = append(rows, row)
	}
	return len(rows), e.feeds.InsertImportItems(rows)
}

// PullPurchases walks the purchases feed the same way, flattening each
// reported sale to one row per line item.
func (e *Engine) PullPurchases(ctx context.Context) (int, error) {
	last, err := e.checkpoints.Get(checkpointRepo.FeedPurchases)
	if err != nil {
		return 0, err
	}
	today := vsdc.Today()
	total := 0

	for cursor := last; cursor < today; {
		res, err := e.pull(ctx, pathPurchaseSales, cursor)
		if err != nil {
			e.record(relay.KindSyncError, fmt.Sprintf("purchases fetch error for %s: %v", cursor, err))
			return total, err
		}
		advanced := ""
		if res.OK() {
			n, err := e.persistPurchasePage(res, cursor)
			if err != nil {
				return total, err
			}
			total += n
			if n > 0 {
				advanced = res.ResultDt
			}
		}
		if advanced == "" {
			advanced = vsdc.NextDay(cursor)
		}
		cursor = advanced
		if err := sleep(ctx, pageDelay); err != nil {
			return total, err
		}
	}

	if removed, err := e.feeds.DedupePurchaseRecords(); err != nil {
		e.record(relay.KindCleanupError, fmt.Sprintf("duplicate removal failed: %v", err))
	} else if removed > 0 {
		e.record(relay.KindCleanup, fmt.Sprintf("removed %d duplicate purchase rows", removed))
	}

	if err := e.checkpoints.Set(checkpointRepo.FeedPurchases, today); err != nil {
		return total, err
	}
	e.record(relay.KindSyncUpdate, fmt.Sprintf("fetched %d purchase records", total))
	return total, nil
}

func (e *Engine) persistPurchasePage(res *vsdc.Result, cursor string) (int, error) {
	var page struct {
		SaleList []json.RawMessage `json:"saleList"`
	}
	if err := json.Unmarshal(res.Data, &page); err != nil {
		return 0, fmt.Errorf("decode saleList: %w", err)
	}
	request, _ := json.Marshal(map[string]string{
		"tpin": e.app().TPIN, "bhfId": e.app().BranchID, "lastReqDt": cursor,
	})

	var rows []entity.PurchaseRecord
	for _, saleRaw := range page.SaleList {
		var header entity.PurchaseRecord
		if err := json.Unmarshal(saleRaw, &header); err != nil {
			e.record(relay.KindSyncError, fmt.Sprintf("skipping malformed sale row: %v", err))
			continue
		}
		var nested struct {
			ItemList []wireSaleLine `json:"itemList"`
		}
		if err := json.Unmarshal(saleRaw, &nested); err != nil {
			e.record(relay.KindSyncError, fmt.Sprintf("skipping malformed sale lines: %v", err))
			continue
		}
		for _, line := range nested.ItemList {
			row := header
			row.ItemSeq = line.ItemSeq
			row.ItemCode = line.ItemCd
			row.ItemClassCode = line.ItemClsCd
			row.ItemName = line.ItemNm
			row.Barcode = line.Bcd
			row.PackagingUnit = line.PkgUnitCd
			row.Package = line.Pkg
			row.QuantityUnitCode = line.QtyUnitCd
			row.Quantity = line.Qty
			row.Price = line.Prc
			row.SupplyAmount = line.SplyAmt
			row.DiscountRate = line.DcRt
			row.DiscountAmount = line.DcAmt
			row.VATCategoryCode = line.VatCatCd
			row.VATTaxableAmount = line.VatTaxblAmt
			row.VATAmount = line.VatAmt
			row.TotalAmountItem = line.TotAmt
			row.SystemRequestDate = vsdc.NowWatermark()
			row.OriginalPayload = request
			row.ProcessedPayload = datatypes.JSON(saleRaw)
			row.Response = res.Raw
			row.Status = entity.StatusPending
			rows = append(rows, row)
		}
	}
	return len(rows), e.feeds.InsertPurchaseRecords(rows)
}
