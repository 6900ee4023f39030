package stock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"vsdc.GO/config"
	"vsdc.GO/core/vsdc"
	itemRepo "vsdc.GO/model/repository/item"
)

// Service validates document lines against the item master and reconciles
// stock levels after the authority confirms a document.
type Service struct {
	items  *itemRepo.ItemRepository
	client *vsdc.Client
}

func NewService(items *itemRepo.ItemRepository, client *vsdc.Client) *Service {
	return &Service{items: items, client: client}
}

// Validate checks every line against the item master before anything is
// persisted or forwarded. It returns the lines enriched with master data
// (the caller's descriptive fields are overridden) and the full list of
// problems, so a rejected document reports everything wrong at once.
func (s *Service) Validate(lines []LineItem, dir Direction) ([]LineItem, []string) {
	var problems []string
	validated := make([]LineItem, 0, len(lines))

	for _, line := range lines {
		if line.ItemID == "" {
			problems = append(problems, fmt.Sprintf("line %d: missing itemId", line.ItemSeq))
			continue
		}
		it, err := s.items.FindConfirmedByItemID(line.ItemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			problems = append(problems, fmt.Sprintf("item %s is not registered", line.ItemID))
			continue
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("item %s: %v", line.ItemID, err))
			continue
		}
		if dir == DirectionOutgoing && !it.IsService && it.CurrentStock < line.Quantity {
			problems = append(problems, fmt.Sprintf(
				"item %s does not have enough stock (current %g, required %g)",
				it.ItemName, it.CurrentStock, line.Quantity))
			continue
		}

		line.ItemCode = it.ItemCode
		line.ItemClassCode = it.ItemClassCode
		line.ItemTypeCode = it.ItemTypeCode
		line.ItemName = it.ItemName
		line.ItemStandardName = it.ItemStandardName
		line.OriginCountryCode = it.OriginCountryCode
		line.PackagingUnitCode = it.PackagingUnitCode
		line.QuantityUnitCode = it.QuantityUnitCode
		line.IsService = it.IsService
		validated = append(validated, line)
	}
	return validated, problems
}

// Apply reconciles stock levels for a confirmed document. Service items are
// skipped. Outgoing lines use the conditional deduction so a race with
// another confirmed document cannot push a level negative; a line that loses
// that race is reported but the remaining lines still apply.
func (s *Service) Apply(lines []LineItem, dir Direction) error {
	if dir == DirectionNone {
		return nil
	}
	var failed []string
	for _, line := range lines {
		if line.IsService || line.ItemID == "" || line.Quantity == 0 {
			continue
		}
		var err error
		switch dir {
		case DirectionOutgoing:
			err = s.items.DeductStockIfAvailable(line.ItemID, line.Quantity)
		case DirectionIncoming:
			err = s.items.AdjustStock(line.ItemID, line.Quantity)
		}
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", line.ItemID, err))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("stock reconciliation incomplete: %s", strings.Join(failed, "; "))
	}
	return nil
}

// Forward reports the document's stock movement and the resulting stock
// levels to the authority. Both calls are best effort: a failure is logged
// and the pipeline continues, since the document itself is already confirmed.
func (s *Service) Forward(ctx context.Context, app *config.App, doc map[string]interface{}, lines []LineItem, dir Direction) {
	if dir == DirectionNone || len(lines) == 0 {
		return
	}

	occurred := str(doc["salesDt"])
	if occurred == "" {
		occurred = str(doc["pchsDt"])
	}
	if occurred == "" {
		occurred = time.Now().UTC().Format("20060102")
	}

	movementLines := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		movementLines = append(movementLines, map[string]interface{}{
			"itemSeq":     line.ItemSeq,
			"itemCd":      line.ItemCode,
			"itemClsCd":   line.ItemClassCode,
			"itemNm":      line.ItemName,
			"qty":         line.Quantity,
			"prc":         line.Price,
			"splyAmt":     line.SupplyAmount,
			"vatCatCd":    line.VATCategoryCode,
			"vatTaxblAmt": line.VATTaxableAmount,
			"vatAmt":      line.VATAmount,
			"totAmt":      line.TotalAmount,
		})
	}
	movement := map[string]interface{}{
		"tpin":        app.TPIN,
		"bhfId":       app.BranchID,
		"sarTyCd":     "01",
		"sarNo":       time.Now().Unix(),
		"orgSarNo":    0,
		"regTyCd":     "A",
		"custTpin":    doc["custTpin"],
		"custNm":      doc["custNm"],
		"custBhfId":   doc["custBhfId"],
		"ocrnDt":      occurred,
		"totItemCnt":  len(lines),
		"totTaxblAmt": doc["totTaxblAmt"],
		"totTaxAmt":   doc["totTaxAmt"],
		"totAmt":      doc["totAmt"],
		"remark":      doc["remark"],
		"regrId":      app.RegistrarID,
		"regrNm":      app.RegistrarName,
		"modrId":      app.ModifierID,
		"modrNm":      app.ModifierName,
		"itemList":    movementLines,
	}
	if _, err := s.client.Post(ctx, app.Endpoint(config.EndpointStock), movement); err != nil {
		log.Printf("stock movement forward failed: %v", err)
	}

	levels := make([]map[string]interface{}, 0, len(lines))
	for _, line := range lines {
		if line.IsService {
			continue
		}
		it, err := s.items.FindConfirmedByItemID(line.ItemID)
		if err != nil {
			continue
		}
		levels = append(levels, map[string]interface{}{
			"itemCd": line.ItemCode,
			"rsdQty": it.CurrentStock,
		})
	}
	if len(levels) == 0 {
		return
	}
	master := map[string]interface{}{
		"tpin":          app.TPIN,
		"bhfId":         app.BranchID,
		"regrId":        app.RegistrarID,
		"regrNm":        app.RegistrarName,
		"modrId":        app.ModifierID,
		"modrNm":        app.ModifierName,
		"stockItemList": levels,
	}
	if _, err := s.client.Post(ctx, app.Endpoint(config.EndpointStockMaster), master); err != nil {
		log.Printf("stock master forward failed: %v", err)
	}
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
