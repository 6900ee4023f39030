package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Purchase processing states.
const (
	StatusPending   = "pending"
	StatusProcessed = "Processed"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// PurchaseInvoice represents one submitted purchase transaction.
type PurchaseInvoice struct {
	ID                 uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TPIN               string          `gorm:"column:tpin;not null" json:"tpin"`
	BranchID           string          `gorm:"column:bhf_id;not null" json:"bhfId"`
	SupplierTPIN       string          `gorm:"column:spplr_tpin" json:"spplrTpin"`
	SupplierName       string          `gorm:"column:spplr_nm" json:"spplrNm"`
	SupplierBranchID   string          `gorm:"column:spplr_bhf_id" json:"spplrBhfId"`
	SupplierInvoiceNo  int             `gorm:"column:spplr_invc_no;index" json:"spplrInvcNo"`
	RegistrationType   string          `gorm:"column:reg_ty_cd" json:"regTyCd"`
	PurchaseTypeCode   string          `gorm:"column:pchs_ty_cd" json:"pchsTyCd"`
	ReceiptTypeCode    string          `gorm:"column:rcpt_ty_cd" json:"rcptTyCd"`
	PaymentTypeCode    string          `gorm:"column:pmt_ty_cd" json:"pmtTyCd"`
	PurchaseStatusCode string          `gorm:"column:pchs_stts_cd" json:"pchsSttsCd"`
	ConfirmDate        string          `gorm:"column:cfm_dt" json:"cfmDt"`
	PurchaseDate       string          `gorm:"column:pchs_dt" json:"pchsDt"`
	TotalItemCount     int             `gorm:"column:tot_item_cnt" json:"totItemCnt"`
	TotalTaxable       decimal.Decimal `gorm:"column:tot_taxbl_amt;type:decimal(18,4)" json:"totTaxblAmt"`
	TotalTax           decimal.Decimal `gorm:"column:tot_tax_amt;type:decimal(18,4)" json:"totTaxAmt"`
	TotalAmount        decimal.Decimal `gorm:"column:tot_amt;type:decimal(18,4)" json:"totAmt"`
	Remark             string          `gorm:"column:remark" json:"remark"`
	ItemList           datatypes.JSON  `gorm:"column:item_list" json:"itemList,omitempty"`
	Status             string          `gorm:"column:status;default:pending" json:"status"`

	Submission `gorm:"embedded"`
}

func (PurchaseInvoice) TableName() string {
	return "purchase_invoices"
}
