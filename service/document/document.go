package document

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"vsdc.GO/config"
	"vsdc.GO/core/relay"
	"vsdc.GO/core/vsdc"
	"vsdc.GO/model/entity"
	activityRepo "vsdc.GO/model/repository/activity"
	documentRepo "vsdc.GO/model/repository/document"
	itemRepo "vsdc.GO/model/repository/item"
	stockService "vsdc.GO/service/stock"
)

// Service runs the document submission pipeline: authenticate, extract,
// validate, persist, forward, confirm, reconcile stock. The document row is
// written before the authority call, so a crash or network failure never
// loses an accepted payload.
type Service struct {
	docs     *documentRepo.DocumentRepository
	items    *itemRepo.ItemRepository
	stock    *stockService.Service
	activity *activityRepo.ActivityRepository
	client   *vsdc.Client
}

func NewService(docs *documentRepo.DocumentRepository, items *itemRepo.ItemRepository,
	stock *stockService.Service, activity *activityRepo.ActivityRepository, client *vsdc.Client) *Service {
	return &Service{docs: docs, items: items, stock: stock, activity: activity, client: client}
}

// record appends to the audit trail and pushes the event to live listeners.
func (s *Service) record(kind, detail string) {
	if err := s.activity.Append(kind, detail); err != nil {
		log.Printf("activity log write failed: %v", err)
	}
	relay.Publish(kind, detail)
}

// VerifyKey checks the payload's security key against the configured one.
func VerifyKey(payload map[string]interface{}, app *config.App) error {
	key, _ := payload["securityKey"].(string)
	if key != app.SecurityKey {
		return ErrAuthentication
	}
	return nil
}

// Submit processes one inbound document of the given kind (an endpoint key
// from the route table). The returned Result is the authority's verbatim
// response envelope for passthrough to the caller.
func (s *Service) Submit(ctx context.Context, kind string, body []byte, contentType string) (*vsdc.Result, error) {
	app := config.GetApp()

	s.record(relay.KindCallReceived, fmt.Sprintf("received %s document (%d bytes)", kind, len(body)))

	payload, err := ParseBody(body, contentType)
	if err != nil {
		s.record(relay.KindValidationError, err.Error())
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	if err := VerifyKey(payload, app); err != nil {
		s.record(relay.KindCallReceived, "invalid security key attempt")
		return nil, err
	}

	data := ExtractData(payload)

	lines, err := decodeLines(data)
	if err != nil {
		s.record(relay.KindValidationError, err.Error())
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	dir := stockService.DirectionFor(kind)
	if len(lines) > 0 {
		validated, problems := s.stock.Validate(lines, dir)
		if len(problems) > 0 {
			ve := &ValidationError{Problems: problems}
			s.record(relay.KindValidationError, ve.Error())
			return nil, ve
		}
		lines = validated
		data["itemList"] = validated
	}

	// The configured fiscal identity always wins over caller-supplied values.
	data["tpin"] = app.TPIN
	data["bhfId"] = app.BranchID

	original, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal original payload: %w", err)
	}
	model, id, err := s.persist(kind, data, original)
	if err != nil {
		return nil, fmt.Errorf("persist %s: %w", kind, err)
	}
	s.record(relay.KindCreation, fmt.Sprintf("stored %s document id=%d", kind, id))

	processed := make(map[string]interface{}, len(data)+4)
	for k, v := range data {
		processed[k] = v
	}
	processed["regrId"] = app.RegistrarID
	processed["regrNm"] = app.RegistrarName
	processed["modrId"] = app.ModifierID
	processed["modrNm"] = app.ModifierName
	processedJSON, err := json.Marshal(processed)
	if err != nil {
		return nil, fmt.Errorf("marshal processed payload: %w", err)
	}

	endpoint := app.Endpoint(kind)
	if endpoint == "" {
		return nil, fmt.Errorf("no endpoint configured for %s", kind)
	}
	res, err := s.client.Post(ctx, endpoint, processed)
	if err != nil {
		s.record(relay.KindSyncError, fmt.Sprintf("failed to hit %s: %v", endpoint, err))
		return nil, fmt.Errorf("forward to authority: %w", err)
	}
	s.record(relay.KindEndpointHit, fmt.Sprintf("hit %s: resultCd=%s", endpoint, res.ResultCd))

	confirmed := res.OK()
	if err := s.docs.SaveOutcome(model, id, processedJSON, res.Raw, confirmed); err != nil {
		return nil, fmt.Errorf("save outcome for %s id=%d: %w", kind, id, err)
	}

	if confirmed && len(lines) > 0 && dir != stockService.DirectionNone {
		if err := s.stock.Apply(lines, dir); err != nil {
			s.record(relay.KindSyncError, err.Error())
		}
		// Best-effort ledger forward off the request path. Detached from the
		// request context so the caller's disconnect cannot cancel it.
		go s.stock.Forward(context.Background(), app, data, lines, dir)
	}

	s.record(relay.KindCallReturned, fmt.Sprintf("returned %s: resultCd=%s", kind, res.ResultCd))
	return res, nil
}

// persist decodes the extracted data into the entity for the document kind
// and writes the row with the inbound payload attached.
func (s *Service) persist(kind string, data map[string]interface{}, original []byte) (interface{}, uint, error) {
	switch kind {
	case config.EndpointSalesInvoice:
		var doc entity.SalesInvoice
		if err := decodeInto(data, &doc); err != nil {
			return nil, 0, err
		}
		doc.OriginalPayload = original
		if err := s.docs.Create(&doc); err != nil {
			return nil, 0, err
		}
		return &entity.SalesInvoice{}, doc.ID, nil
	case config.EndpointPurchaseInvoice:
		var doc entity.PurchaseInvoice
		if err := decodeInto(data, &doc); err != nil {
			return nil, 0, err
		}
		doc.OriginalPayload = original
		if err := s.docs.Create(&doc); err != nil {
			return nil, 0, err
		}
		return &entity.PurchaseInvoice{}, doc.ID, nil
	case config.EndpointStock:
		var doc entity.StockTransfer
		if err := decodeInto(data, &doc); err != nil {
			return nil, 0, err
		}
		doc.OriginalPayload = original
		if err := s.docs.Create(&doc); err != nil {
			return nil, 0, err
		}
		return &entity.StockTransfer{}, doc.ID, nil
	case config.EndpointImports:
		var doc entity.ImportDeclaration
		if err := decodeInto(data, &doc); err != nil {
			return nil, 0, err
		}
		doc.OriginalPayload = original
		if err := s.docs.Create(&doc); err != nil {
			return nil, 0, err
		}
		return &entity.ImportDeclaration{}, doc.ID, nil
	case config.EndpointItems:
		var it entity.Item
		if err := decodeInto(data, &it); err != nil {
			return nil, 0, err
		}
		if it.ItemID == "" {
			it.ItemID = it.ItemCode
		}
		it.OriginalPayload = original
		if err := s.items.Create(&it); err != nil {
			return nil, 0, err
		}
		return &entity.Item{}, it.ID, nil
	}
	return nil, 0, fmt.Errorf("unknown document kind %q", kind)
}
