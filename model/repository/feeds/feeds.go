package feeds

import (
	"gorm.io/gorm"

	"vsdc.GO/model/entity"
)

// FeedsRepository stores rows pulled from the authority's foreign
// transaction feeds (imports and purchases reported against the taxpayer).
type FeedsRepository struct {
	db *gorm.DB
}

func NewFeedsRepository(db *gorm.DB) *FeedsRepository {
	return &FeedsRepository{db: db}
}

func (r *FeedsRepository) InsertImportItems(rows []entity.ImportItem) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *FeedsRepository) InsertPurchaseRecords(rows []entity.PurchaseRecord) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *FeedsRepository) ListImportItems(status string, limit, offset int) ([]entity.ImportItem, error) {
	var rows []entity.ImportItem
	q := r.db.Order("id DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *FeedsRepository) ListPurchaseRecords(status string, limit, offset int) ([]entity.PurchaseRecord, error) {
	var rows []entity.PurchaseRecord
	q := r.db.Order("id DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// DedupeImportItems removes duplicate import rows, keeping the lowest id
// per task code and item sequence.
func (r *FeedsRepository) DedupeImportItems() (int64, error) {
	res := r.db.Exec(
		"DELETE FROM import_items WHERE id NOT IN (SELECT MIN(id) FROM import_items GROUP BY task_cd, item_seq)")
	return res.RowsAffected, res.Error
}

// DedupePurchaseRecords removes duplicate purchase rows, keeping the lowest
// id per supplier, invoice number and item sequence.
func (r *FeedsRepository) DedupePurchaseRecords() (int64, error) {
	res := r.db.Exec(
		"DELETE FROM purchase_records WHERE id NOT IN (SELECT MIN(id) FROM purchase_records GROUP BY spplr_tpin, spplr_invc_no, item_seq)")
	return res.RowsAffected, res.Error
}

func (r *FeedsRepository) Counts() (imports, purchases int64, err error) {
	if err = r.db.Model(&entity.ImportItem{}).Count(&imports).Error; err != nil {
		return
	}
	err = r.db.Model(&entity.PurchaseRecord{}).Count(&purchases).Error
	return
}
