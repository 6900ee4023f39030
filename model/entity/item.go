package entity

// Item is the item master record. A row counts as transactable only once
// the authority has confirmed its registration. CurrentStock is mutated
// exclusively through atomic UPDATE deltas (see repository/item), never
// read-modify-write.
type Item struct {
	ID                 uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ItemID             string  `gorm:"column:item_id;uniqueIndex;not null" json:"itemId"`
	TPIN               string  `gorm:"column:tpin;not null" json:"tpin"`
	BranchID           string  `gorm:"column:bhf_id;not null" json:"bhfId"`
	ItemCode           string  `gorm:"column:item_cd" json:"itemCd"`
	ItemClassCode      string  `gorm:"column:item_cls_cd" json:"itemClsCd"`
	ItemTypeCode       string  `gorm:"column:item_ty_cd" json:"itemTyCd"`
	ItemName           string  `gorm:"column:item_nm" json:"itemNm"`
	ItemStandardName   string  `gorm:"column:item_std_nm" json:"itemStdNm"`
	OriginCountryCode  string  `gorm:"column:orgn_nat_cd" json:"orgnNatCd"`
	PackagingUnitCode  string  `gorm:"column:pkg_unit_cd" json:"pkgUnitCd"`
	QuantityUnitCode   string  `gorm:"column:qty_unit_cd" json:"qtyUnitCd"`
	VATCategoryCode    string  `gorm:"column:vat_cat_cd" json:"vatCatCd"`
	UseYN              string  `gorm:"column:use_yn" json:"useYn"`
	CurrentStock       float64 `gorm:"column:current_stock;default:0" json:"currentStock"`
	IsService          bool    `gorm:"column:is_service;default:false" json:"isService"`

	Submission `gorm:"embedded"`
}

func (Item) TableName() string {
	return "items"
}
