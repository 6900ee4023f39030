package reference

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vsdc.GO/model/entity"
)

// ReferenceRepository stores the authority's reference tables. All writes
// are idempotent upserts keyed on the natural key, so replaying a feed page
// never duplicates rows.
type ReferenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) UpsertStandardCodes(rows []entity.StandardCode) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unique_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"cd_cls", "cd_cls_nm", "cd", "cd_nm"}),
	}).Create(&rows).Error
}

func (r *ReferenceRepository) UpsertItemClassCodes(rows []entity.ItemClassCode) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_cls_cd"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_cls_nm", "item_cls_lvl", "tax_ty_cd", "mjr_tg_yn", "use_yn"}),
	}).Create(&rows).Error
}

func (r *ReferenceRepository) UpsertNotices(rows []entity.Notice) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "notice_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "publish_dt", "expiry_dt"}),
	}).Create(&rows).Error
}

// Dedupe removes duplicate rows from a reference table, keeping the row
// with the lowest id per natural key. Needed after a full-history re-pull,
// which can land rows that predate the unique index.
func (r *ReferenceRepository) Dedupe(table, keyColumn string) (int64, error) {
	res := r.db.Exec(
		"DELETE FROM " + table + " WHERE id NOT IN (SELECT MIN(id) FROM " + table + " GROUP BY " + keyColumn + ")")
	return res.RowsAffected, res.Error
}

// DedupeAll runs Dedupe over every reference table.
func (r *ReferenceRepository) DedupeAll() (int64, error) {
	var total int64
	for _, t := range []struct{ table, key string }{
		{"standard_codes", "unique_key"},
		{"item_class_codes", "item_cls_cd"},
		{"notices", "notice_id"},
	} {
		n, err := r.Dedupe(t.table, t.key)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *ReferenceRepository) ListStandardCodes(class string) ([]entity.StandardCode, error) {
	var rows []entity.StandardCode
	q := r.db.Order("unique_key")
	if class != "" {
		q = q.Where("cd_cls = ?", class)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *ReferenceRepository) ListItemClassCodes(limit, offset int) ([]entity.ItemClassCode, error) {
	var rows []entity.ItemClassCode
	err := r.db.Order("item_cls_cd").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *ReferenceRepository) ListNotices() ([]entity.Notice, error) {
	var rows []entity.Notice
	err := r.db.Order("notice_id").Find(&rows).Error
	return rows, err
}

func (r *ReferenceRepository) Counts() (codes, classes, notices int64, err error) {
	if err = r.db.Model(&entity.StandardCode{}).Count(&codes).Error; err != nil {
		return
	}
	if err = r.db.Model(&entity.ItemClassCode{}).Count(&classes).Error; err != nil {
		return
	}
	err = r.db.Model(&entity.Notice{}).Count(&notices).Error
	return
}
