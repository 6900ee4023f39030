package item

import (
	"errors"

	"gorm.io/gorm"

	"vsdc.GO/model/entity"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// FindConfirmedByItemID returns the confirmed master record for an item id.
// Unconfirmed rows are invisible to transaction processing.
func (r *ItemRepository) FindConfirmedByItemID(itemID string) (*entity.Item, error) {
	var it entity.Item
	err := r.db.Where("item_id = ? AND confirmed = ?", itemID, true).First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// FindByItemID returns the master record regardless of confirmation state.
func (r *ItemRepository) FindByItemID(itemID string) (*entity.Item, error) {
	var it entity.Item
	err := r.db.Where("item_id = ?", itemID).First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepository) Create(it *entity.Item) error {
	return r.db.Create(it).Error
}

func (r *ItemRepository) Save(it *entity.Item) error {
	return r.db.Save(it).Error
}

// MarkConfirmed records the authority response and flips the confirmation flag.
func (r *ItemRepository) MarkConfirmed(id uint, response []byte) error {
	return r.db.Model(&entity.Item{}).Where("id = ?", id).
		Updates(map[string]interface{}{"confirmed": true, "response": response}).Error
}

// AdjustStock applies a signed quantity delta as a single atomic UPDATE.
// No row is read back, so concurrent adjustments never lose a delta.
func (r *ItemRepository) AdjustStock(itemID string, delta float64) error {
	res := r.db.Model(&entity.Item{}).Where("item_id = ?", itemID).
		UpdateColumn("current_stock", gorm.Expr("current_stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeductStockIfAvailable decrements stock only when the current level covers
// the quantity. The guard lives in the WHERE clause, so two concurrent
// deductions can never drive the level negative.
func (r *ItemRepository) DeductStockIfAvailable(itemID string, qty float64) error {
	res := r.db.Model(&entity.Item{}).
		Where("item_id = ? AND current_stock >= ?", itemID, qty).
		UpdateColumn("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *ItemRepository) List(limit, offset int) ([]entity.Item, error) {
	var items []entity.Item
	err := r.db.Order("id").Limit(limit).Offset(offset).Find(&items).Error
	return items, err
}

func (r *ItemRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entity.Item{}).Count(&n).Error
	return n, err
}
