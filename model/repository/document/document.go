package document

import (
	"gorm.io/gorm"

	"vsdc.GO/model/entity"
)

// DocumentRepository persists submitted documents. Rows are written before
// the authority call and patched with the outcome afterwards, so a crash
// mid-submission still leaves the inbound payload on disk.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc interface{}) error {
	return r.db.Create(doc).Error
}

// SaveOutcome patches a previously persisted document row with the payload
// actually sent, the authority's raw response and the confirmation flag.
func (r *DocumentRepository) SaveOutcome(model interface{}, id uint, processed, response []byte, confirmed bool) error {
	return r.db.Model(model).Where("id = ?", id).Updates(map[string]interface{}{
		"processed_payload": processed,
		"response":          response,
		"confirmed":         confirmed,
	}).Error
}

// FindPendingPurchase locates the newest pending purchase feed row for a
// supplier invoice number.
func (r *DocumentRepository) FindPendingPurchase(supplierInvoiceNo int) (*entity.PurchaseRecord, error) {
	var rec entity.PurchaseRecord
	err := r.db.Where("spplr_invc_no = ? AND status = ?", supplierInvoiceNo, entity.StatusPending).
		Order("id DESC").First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindPendingImports returns all pending import feed rows for a task code.
func (r *DocumentRepository) FindPendingImports(taskCode string) ([]entity.ImportItem, error) {
	var rows []entity.ImportItem
	err := r.db.Where("task_cd = ? AND status = ?", taskCode, entity.StatusPending).
		Order("item_seq").Find(&rows).Error
	return rows, err
}

// MarkPurchaseProcessed flips a purchase feed row out of the pending state
// and records the outgoing payload and authority response.
func (r *DocumentRepository) MarkPurchaseProcessed(id uint, processed, response []byte, status string) error {
	return r.db.Model(&entity.PurchaseRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processed_payload": processed,
		"response":          response,
		"status":            status,
	}).Error
}

// MarkImportsProcessed flips every import feed row of a task code in one UPDATE.
func (r *DocumentRepository) MarkImportsProcessed(taskCode string, processed, response []byte, status string) error {
	return r.db.Model(&entity.ImportItem{}).
		Where("task_cd = ? AND status = ?", taskCode, entity.StatusPending).
		Updates(map[string]interface{}{
			"processed_payload": processed,
			"response":          response,
			"status":            status,
		}).Error
}

func (r *DocumentRepository) CountSales() (int64, error) {
	var n int64
	err := r.db.Model(&entity.SalesInvoice{}).Count(&n).Error
	return n, err
}

func (r *DocumentRepository) CountPurchases() (int64, error) {
	var n int64
	err := r.db.Model(&entity.PurchaseInvoice{}).Count(&n).Error
	return n, err
}

func (r *DocumentRepository) CountUnconfirmed() (int64, error) {
	var n int64
	err := r.db.Model(&entity.SalesInvoice{}).Where("confirmed = ?", false).Count(&n).Error
	return n, err
}
