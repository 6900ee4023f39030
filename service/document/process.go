package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"vsdc.GO/config"
	"vsdc.GO/core/relay"
	"vsdc.GO/core/vsdc"
	"vsdc.GO/model/entity"
	stockService "vsdc.GO/service/stock"
)

// ErrNotFound means the referenced feed row does not exist or was already
// processed.
var ErrNotFound = errors.New("not found")

// Import item decision codes.
const (
	ImportStatusApproved = "3"
	ImportStatusRejected = "4"
)

// ImportDecision is one approve/reject verdict for a line of a customs
// declaration pulled from the imports feed.
type ImportDecision struct {
	ItemID            string  `json:"itemId"`
	ItemSeq           int     `json:"itemSeq"`
	HSCode            string  `json:"hsCd"`
	ItemCode          string  `json:"itemCd"`
	ItemClassCode     string  `json:"itemClsCd"`
	ItemTypeCode      string  `json:"itemTyCd"`
	ItemName          string  `json:"itemNm"`
	ItemStandardName  string  `json:"itemStdNm"`
	OriginCountryCode string  `json:"orgnNatCd"`
	PackagingUnitCode string  `json:"pkgUnitCd"`
	QuantityUnitCode  string  `json:"qtyUnitCd"`
	VATCategoryCode   string  `json:"vatCatCd"`
	StatusCode        string  `json:"imptItemSttsCd"`
	Quantity          float64 `json:"qty"`
	Remark            string  `json:"remark"`
}

// ProcessOutcome reports the result of one import item decision.
type ProcessOutcome struct {
	ItemID  string `json:"itemId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ProcessImports forwards approve/reject decisions for a pulled customs
// declaration to the authority, registering approved items that are not in
// the master yet and receiving their stock.
func (s *Service) ProcessImports(ctx context.Context, body []byte, contentType string) ([]ProcessOutcome, error) {
	app := config.GetApp()

	payload, err := ParseBody(body, contentType)
	if err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	if err := VerifyKey(payload, app); err != nil {
		return nil, err
	}

	taskCode, _ := payload["taskCd"].(string)
	if taskCode == "" {
		return nil, &ValidationError{Problems: []string{"missing taskCd"}}
	}
	var decisions []ImportDecision
	if err := decodeInto(payload["importItemList"], &decisions); err != nil {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("decode importItemList: %v", err)}}
	}

	pending, err := s.docs.FindPendingImports(taskCode)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: import %s does not exist or has already been processed", ErrNotFound, taskCode)
	}
	declarationDate := pending[0].DeclarationDate

	var outcomes []ProcessOutcome
	var lastProcessed, lastResponse []byte
	for _, d := range decisions {
		update := map[string]interface{}{
			"tpin":   app.TPIN,
			"bhfId":  app.BranchID,
			"taskCd": taskCode,
			"dclDe":  declarationDate,
			"importItemList": []map[string]interface{}{{
				"itemSeq":        d.ItemSeq,
				"hsCd":           d.HSCode,
				"itemClsCd":      d.ItemClassCode,
				"itemCd":         d.ItemCode,
				"imptItemSttsCd": d.StatusCode,
				"remark":         d.Remark,
				"modrId":         app.ModifierID,
				"modrNm":         app.ModifierName,
			}},
		}
		res, err := s.client.Post(ctx, app.Endpoint(config.EndpointImports), update)
		if err != nil {
			outcomes = append(outcomes, ProcessOutcome{ItemID: d.ItemID, Status: "error", Message: err.Error()})
			continue
		}
		lastProcessed, _ = json.Marshal(update)
		lastResponse = res.Raw
		if !res.OK() {
			outcomes = append(outcomes, ProcessOutcome{ItemID: d.ItemID, Status: "error", Message: res.ResultMsg})
			continue
		}

		if d.StatusCode == ImportStatusApproved {
			if err := s.receiveApprovedImport(ctx, app, d); err != nil {
				outcomes = append(outcomes, ProcessOutcome{ItemID: d.ItemID, Status: "error", Message: err.Error()})
				continue
			}
		}
		outcomes = append(outcomes, ProcessOutcome{ItemID: d.ItemID, Status: "success", Message: "Processed successfully"})
	}

	if err := s.docs.MarkImportsProcessed(taskCode, lastProcessed, lastResponse, entity.StatusProcessed); err != nil {
		return outcomes, err
	}
	s.record(relay.KindSyncUpdate, fmt.Sprintf("processed import %s (%d decisions)", taskCode, len(decisions)))
	return outcomes, nil
}

// receiveApprovedImport registers the item if the master does not know it
// yet, then books the imported quantity as incoming stock.
func (s *Service) receiveApprovedImport(ctx context.Context, app *config.App, d ImportDecision) error {
	existing, err := s.items.FindConfirmedByItemID(d.ItemID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing == nil {
		registration := map[string]interface{}{
			"tpin":      app.TPIN,
			"bhfId":     app.BranchID,
			"itemCd":    d.ItemCode,
			"itemClsCd": d.ItemClassCode,
			"itemTyCd":  orDefault(d.ItemTypeCode, "1"),
			"itemNm":    d.ItemName,
			"itemStdNm": orDefault(d.ItemStandardName, d.ItemName),
			"orgnNatCd": orDefault(d.OriginCountryCode, "ZM"),
			"pkgUnitCd": orDefault(d.PackagingUnitCode, "CT"),
			"qtyUnitCd": orDefault(d.QuantityUnitCode, "U"),
			"vatCatCd":  orDefault(d.VATCategoryCode, "A"),
			"useYn":     "Y",
			"regrId":    app.RegistrarID,
			"regrNm":    app.RegistrarName,
			"modrId":    app.ModifierID,
			"modrNm":    app.ModifierName,
		}
		res, err := s.client.Post(ctx, app.Endpoint(config.EndpointItems), registration)
		if err != nil {
			return fmt.Errorf("register item %s: %w", d.ItemID, err)
		}
		if !res.OK() {
			return fmt.Errorf("register item %s: %s", d.ItemID, res.ResultMsg)
		}

		original, _ := json.Marshal(registration)
		it := entity.Item{
			ItemID:            d.ItemID,
			TPIN:              app.TPIN,
			BranchID:          app.BranchID,
			ItemCode:          d.ItemCode,
			ItemClassCode:     d.ItemClassCode,
			ItemTypeCode:      orDefault(d.ItemTypeCode, "1"),
			ItemName:          d.ItemName,
			ItemStandardName:  orDefault(d.ItemStandardName, d.ItemName),
			OriginCountryCode: orDefault(d.OriginCountryCode, "ZM"),
			PackagingUnitCode: orDefault(d.PackagingUnitCode, "CT"),
			QuantityUnitCode:  orDefault(d.QuantityUnitCode, "U"),
			VATCategoryCode:   orDefault(d.VATCategoryCode, "A"),
			UseYN:             "Y",
		}
		it.OriginalPayload = original
		it.Response = res.Raw
		it.Confirmed = true
		if err := s.items.Create(&it); err != nil {
			return fmt.Errorf("store item %s: %w", d.ItemID, err)
		}
	}

	if err := s.items.AdjustStock(d.ItemID, d.Quantity); err != nil {
		return fmt.Errorf("receive stock for %s: %w", d.ItemID, err)
	}
	line := stockService.LineItem{
		ItemID:   d.ItemID,
		ItemSeq:  d.ItemSeq,
		ItemCode: d.ItemCode,
		ItemName: d.ItemName,
		Quantity: d.Quantity,
	}
	s.stock.Forward(ctx, app, map[string]interface{}{"taskCd": d.ItemID}, []stockService.LineItem{line}, stockService.DirectionIncoming)
	return nil
}

// ProcessPurchases handles the purchase decision endpoint. With an explicit
// approve/reject action it closes out a pending purchase feed row; without
// one the body is treated as a regular purchase submission.
func (s *Service) ProcessPurchases(ctx context.Context, body []byte, contentType string) (string, *vsdc.Result, error) {
	payload, err := ParseBody(body, contentType)
	if err != nil {
		return "", nil, &ValidationError{Problems: []string{err.Error()}}
	}
	app := config.GetApp()
	if err := VerifyKey(payload, app); err != nil {
		return "", nil, err
	}

	action, _ := payload["action"].(string)
	if action != "approve" && action != "reject" {
		res, err := s.Submit(ctx, config.EndpointPurchaseInvoice, body, contentType)
		return "", res, err
	}

	invoiceNo := intField(payload, "spplrInvcNo")
	rec, err := s.docs.FindPendingPurchase(invoiceNo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("%w: purchase %d not found or already processed", ErrNotFound, invoiceNo)
	}
	if err != nil {
		return "", nil, err
	}
	if err := s.docs.MarkPurchaseProcessed(rec.ID, nil, nil, entity.StatusProcessed); err != nil {
		return "", nil, err
	}
	msg := fmt.Sprintf("Purchase %d %sd and marked as processed", invoiceNo, action)
	s.record(relay.KindSyncUpdate, msg)
	return msg, nil, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intField(payload map[string]interface{}, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		var n int
		fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}
