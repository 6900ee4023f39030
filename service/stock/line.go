package stock

import "github.com/shopspring/decimal"

// LineItem is one line of a submitted document's itemList, in the
// authority's wire vocabulary. ItemID identifies the master record;
// the descriptive fields are filled in from the master during
// validation, overriding whatever the caller supplied.
type LineItem struct {
	ItemID            string          `json:"itemId"`
	ItemSeq           int             `json:"itemSeq"`
	ItemCode          string          `json:"itemCd"`
	ItemClassCode     string          `json:"itemClsCd"`
	ItemTypeCode      string          `json:"itemTyCd,omitempty"`
	ItemName          string          `json:"itemNm"`
	ItemStandardName  string          `json:"itemStdNm,omitempty"`
	OriginCountryCode string          `json:"orgnNatCd,omitempty"`
	Barcode           string          `json:"bcd,omitempty"`
	PackagingUnitCode string          `json:"pkgUnitCd"`
	Package           int             `json:"pkg"`
	QuantityUnitCode  string          `json:"qtyUnitCd"`
	Quantity          float64         `json:"qty"`
	Price             decimal.Decimal `json:"prc"`
	SupplyAmount      decimal.Decimal `json:"splyAmt"`
	DiscountRate      float64         `json:"dcRt"`
	DiscountAmount    decimal.Decimal `json:"dcAmt"`
	VATCategoryCode   string          `json:"vatCatCd"`
	VATTaxableAmount  decimal.Decimal `json:"vatTaxblAmt"`
	VATAmount         decimal.Decimal `json:"vatAmt"`
	TotalAmount       decimal.Decimal `json:"totAmt"`
	IsService         bool            `json:"isService"`
}

// Direction is the stock effect of a document kind.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionOutgoing
	DirectionIncoming
)

// DirectionFor maps a document kind to its stock effect. Sales and credit
// notes release stock, purchases and imports receive it; everything else
// leaves stock untouched.
func DirectionFor(kind string) Direction {
	switch kind {
	case "salesInvoice", "creditNote":
		return DirectionOutgoing
	case "purchaseInvoice", "imports":
		return DirectionIncoming
	default:
		return DirectionNone
	}
}
