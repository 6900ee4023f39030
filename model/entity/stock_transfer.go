package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// StockTransfer represents one submitted stock movement.
type StockTransfer struct {
	ID               uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TPIN             string          `gorm:"column:tpin;not null" json:"tpin"`
	BranchID         string          `gorm:"column:bhf_id;not null" json:"bhfId"`
	MovementTypeCode string          `gorm:"column:sar_ty_cd" json:"sarTyCd"`
	MovementNo       int             `gorm:"column:sar_no" json:"sarNo"`
	OriginMovementNo int             `gorm:"column:org_sar_no" json:"orgSarNo"`
	RegistrationType string          `gorm:"column:reg_ty_cd" json:"regTyCd"`
	CustomerTPIN     string          `gorm:"column:cust_tpin" json:"custTpin"`
	CustomerName     string          `gorm:"column:cust_nm" json:"custNm"`
	CustomerBranchID string          `gorm:"column:cust_bhf_id" json:"custBhfId"`
	OccurredDate     string          `gorm:"column:ocrn_dt" json:"ocrnDt"`
	TotalItemCount   int             `gorm:"column:tot_item_cnt" json:"totItemCnt"`
	TotalTaxable     decimal.Decimal `gorm:"column:tot_taxbl_amt;type:decimal(18,4)" json:"totTaxblAmt"`
	TotalTax         decimal.Decimal `gorm:"column:tot_tax_amt;type:decimal(18,4)" json:"totTaxAmt"`
	TotalAmount      decimal.Decimal `gorm:"column:tot_amt;type:decimal(18,4)" json:"totAmt"`
	Remark           string          `gorm:"column:remark" json:"remark"`
	ItemList         datatypes.JSON  `gorm:"column:item_list" json:"itemList,omitempty"`

	Submission `gorm:"embedded"`
}

func (StockTransfer) TableName() string {
	return "stock_transfers"
}
