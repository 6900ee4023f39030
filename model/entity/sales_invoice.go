package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SalesInvoice represents one submitted sales transaction.
type SalesInvoice struct {
	ID               uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TPIN             string          `gorm:"column:tpin;not null" json:"tpin"`
	BranchID         string          `gorm:"column:bhf_id;not null" json:"bhfId"`
	CustomerTPIN     string          `gorm:"column:cust_tpin" json:"custTpin"`
	CustomerName     string          `gorm:"column:cust_nm" json:"custNm"`
	SalesTypeCode    string          `gorm:"column:sales_ty_cd" json:"salesTyCd"`
	ReceiptTypeCode  string          `gorm:"column:rcpt_ty_cd" json:"rcptTyCd"`
	PaymentTypeCode  string          `gorm:"column:pmt_ty_cd" json:"pmtTyCd"`
	SalesStatusCode  string          `gorm:"column:sales_stts_cd" json:"salesSttsCd"`
	ConfirmDate      string          `gorm:"column:cfm_dt" json:"cfmDt"`
	SalesDate        string          `gorm:"column:sales_dt" json:"salesDt"`
	StockReleaseDate string          `gorm:"column:stock_rls_dt" json:"stockRlsDt"`
	TotalItemCount   int             `gorm:"column:tot_item_cnt" json:"totItemCnt"`
	TotalTaxable     decimal.Decimal `gorm:"column:tot_taxbl_amt;type:decimal(18,4)" json:"totTaxblAmt"`
	TotalTax         decimal.Decimal `gorm:"column:tot_tax_amt;type:decimal(18,4)" json:"totTaxAmt"`
	TotalAmount      decimal.Decimal `gorm:"column:tot_amt;type:decimal(18,4)" json:"totAmt"`
	Remark           string          `gorm:"column:remark" json:"remark"`
	ItemList         datatypes.JSON  `gorm:"column:item_list" json:"itemList,omitempty"`

	Submission `gorm:"embedded"`
}

func (SalesInvoice) TableName() string {
	return "sales_invoices"
}
