package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ImportItem is one line pulled from the authority's import-items feed,
// awaiting an approve/reject decision.
type ImportItem struct {
	ID                uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TaskCode          string          `gorm:"column:task_cd;index" json:"taskCd"`
	DeclarationDate   string          `gorm:"column:dcl_de" json:"dclDe"`
	ItemSeq           int             `gorm:"column:item_seq" json:"itemSeq"`
	DeclarationNo     string          `gorm:"column:dcl_no" json:"dclNo"`
	HSCode            string          `gorm:"column:hs_cd" json:"hsCd"`
	ItemName          string          `gorm:"column:item_nm" json:"itemNm"`
	ImportStatusCode  string          `gorm:"column:impt_item_stts_cd" json:"imptItemSttsCd"`
	OriginCountryCode string          `gorm:"column:orgn_nat_cd" json:"orgnNatCd"`
	ExportCountryCode string          `gorm:"column:expt_nat_cd" json:"exptNatCd"`
	Package           int             `gorm:"column:pkg" json:"pkg"`
	PackagingUnitCode string          `gorm:"column:pkg_unit_cd" json:"pkgUnitCd"`
	Quantity          float64         `gorm:"column:qty" json:"qty"`
	QuantityUnitCode  string          `gorm:"column:qty_unit_cd" json:"qtyUnitCd"`
	TotalWeight       float64         `gorm:"column:tot_wt" json:"totWt"`
	NetWeight         float64         `gorm:"column:net_wt" json:"netWt"`
	SupplierName      string          `gorm:"column:spplr_nm" json:"spplrNm"`
	AgentName         string          `gorm:"column:agnt_nm" json:"agntNm"`
	InvoiceFcAmount   decimal.Decimal `gorm:"column:invc_fcur_amt;type:decimal(18,4)" json:"invcFcurAmt"`
	InvoiceFcCurrency string          `gorm:"column:invc_fcur_cd" json:"invcFcurCd"`
	InvoiceFcRate     float64         `gorm:"column:invc_fcur_excrt" json:"invcFcurExcrt"`
	DeclarationRefNo  string          `gorm:"column:dcl_ref_num" json:"dclRefNum"`

	SystemRequestDate string         `gorm:"column:system_request_date;not null;index" json:"systemRequestDate"`
	OriginalPayload   datatypes.JSON `gorm:"column:original_payload" json:"originalPayload,omitempty"`
	ProcessedPayload  datatypes.JSON `gorm:"column:processed_payload" json:"processedPayload,omitempty"`
	Response          datatypes.JSON `gorm:"column:response" json:"response,omitempty"`
	Status            string         `gorm:"column:status;default:pending" json:"status"`
	ReceivedAt        time.Time      `gorm:"column:received_at;autoCreateTime;index" json:"receivedAt"`
}

func (ImportItem) TableName() string {
	return "import_items"
}

// PurchaseRecord is one flattened sale-line pulled from the authority's
// purchases feed (one row per line item of each reported sale).
type PurchaseRecord struct {
	ID                uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	SupplierTPIN      string          `gorm:"column:spplr_tpin" json:"spplrTpin"`
	SupplierName      string          `gorm:"column:spplr_nm" json:"spplrNm"`
	SupplierBranchID  string          `gorm:"column:spplr_bhf_id" json:"spplrBhfId"`
	SupplierInvoiceNo int             `gorm:"column:spplr_invc_no;index" json:"spplrInvcNo"`
	ReceiptTypeCode   string          `gorm:"column:rcpt_ty_cd" json:"rcptTyCd"`
	PaymentTypeCode   string          `gorm:"column:pmt_ty_cd" json:"pmtTyCd"`
	ConfirmDate       string          `gorm:"column:cfm_dt" json:"cfmDt"`
	SalesDate         string          `gorm:"column:sales_dt" json:"salesDt"`
	StockReleaseDate  string          `gorm:"column:stock_rls_dt" json:"stockRlsDt"`
	TotalItemCount    int             `gorm:"column:tot_item_cnt" json:"totItemCnt"`
	TotalTaxable      decimal.Decimal `gorm:"column:tot_taxbl_amt;type:decimal(18,4)" json:"totTaxblAmt"`
	TotalTax          decimal.Decimal `gorm:"column:tot_tax_amt;type:decimal(18,4)" json:"totTaxAmt"`
	TotalAmount       decimal.Decimal `gorm:"column:tot_amt;type:decimal(18,4)" json:"totAmt"`
	Remark            string          `gorm:"column:remark" json:"remark"`

	ItemSeq          int             `gorm:"column:item_seq" json:"itemSeq"`
	ItemCode         string          `gorm:"column:item_cd" json:"itemCd"`
	ItemClassCode    string          `gorm:"column:item_cls_cd" json:"itemClsCd"`
	ItemName         string          `gorm:"column:item_nm" json:"itemNm"`
	Barcode          string          `gorm:"column:bcd" json:"bcd"`
	PackagingUnit    string          `gorm:"column:pkg_unit_cd" json:"pkgUnitCd"`
	Package          int             `gorm:"column:pkg" json:"pkg"`
	QuantityUnitCode string          `gorm:"column:qty_unit_cd" json:"qtyUnitCd"`
	Quantity         float64         `gorm:"column:qty" json:"qty"`
	Price            decimal.Decimal `gorm:"column:prc;type:decimal(18,4)" json:"prc"`
	SupplyAmount     decimal.Decimal `gorm:"column:sply_amt;type:decimal(18,4)" json:"splyAmt"`
	DiscountRate     float64         `gorm:"column:dc_rt" json:"dcRt"`
	DiscountAmount   decimal.Decimal `gorm:"column:dc_amt;type:decimal(18,4)" json:"dcAmt"`
	VATCategoryCode  string          `gorm:"column:vat_cat_cd" json:"vatCatCd"`
	VATTaxableAmount decimal.Decimal `gorm:"column:vat_taxbl_amt;type:decimal(18,4)" json:"vatTaxblAmt"`
	VATAmount        decimal.Decimal `gorm:"column:vat_amt;type:decimal(18,4)" json:"vatAmt"`
	TotalAmountItem  decimal.Decimal `gorm:"column:tot_amt_item;type:decimal(18,4)" json:"totAmtItem"`

	SystemRequestDate string         `gorm:"column:system_request_date;not null;index" json:"systemRequestDate"`
	OriginalPayload   datatypes.JSON `gorm:"column:original_payload" json:"originalPayload,omitempty"`
	ProcessedPayload  datatypes.JSON `gorm:"column:processed_payload" json:"processedPayload,omitempty"`
	Response          datatypes.JSON `gorm:"column:response" json:"response,omitempty"`
	Status            string         `gorm:"column:status;default:pending" json:"status"`
	ReceivedAt        time.Time      `gorm:"column:received_at;autoCreateTime;index" json:"receivedAt"`
}

func (PurchaseRecord) TableName() string {
	return "purchase_records"
}
