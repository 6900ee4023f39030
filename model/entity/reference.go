package entity

// StandardCode is one entry of the authority's flattened code tables.
// UniqueKey (cdCls-cd) is the upsert discriminant.
type StandardCode struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	CodeClass     string `gorm:"column:cd_cls;not null" json:"cdCls"`
	CodeClassName string `gorm:"column:cd_cls_nm;not null" json:"cdClsNm"`
	Code          string `gorm:"column:cd;not null" json:"cd"`
	CodeName      string `gorm:"column:cd_nm;not null" json:"cdNm"`
	UniqueKey     string `gorm:"column:unique_key;uniqueIndex" json:"uniqueKey"`
}

func (StandardCode) TableName() string {
	return "standard_codes"
}

// ItemClassCode is one UNSPSC-style item classification row.
type ItemClassCode struct {
	ID             uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ItemClassCd    string `gorm:"column:item_cls_cd;uniqueIndex;not null" json:"itemClsCd"`
	ItemClassName  string `gorm:"column:item_cls_nm;not null" json:"itemClsNm"`
	ItemClassLevel int    `gorm:"column:item_cls_lvl" json:"itemClsLvl"`
	TaxTypeCode    string `gorm:"column:tax_ty_cd" json:"taxTyCd"`
	MajorTargetYN  string `gorm:"column:mjr_tg_yn" json:"mjrTgYn"`
	UseYN          string `gorm:"column:use_yn" json:"useYn"`
}

func (ItemClassCode) TableName() string {
	return "item_class_codes"
}

// Notice is one authority bulletin pulled from the notices feed.
type Notice struct {
	ID          uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	NoticeID    string `gorm:"column:notice_id;uniqueIndex;not null" json:"noticeId"`
	Title       string `gorm:"column:title;not null" json:"title"`
	Content     string `gorm:"column:content;type:text" json:"content"`
	PublishDate string `gorm:"column:publish_dt" json:"publishDt"`
	ExpiryDate  string `gorm:"column:expiry_dt" json:"expiryDt"`
}

func (Notice) TableName() string {
	return "notices"
}
