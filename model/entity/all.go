package entity

// AllEntities lists every persisted type, in migration order.
func AllEntities() []interface{} {
	return []interface{}{
		&SalesInvoice{},
		&PurchaseInvoice{},
		&StockTransfer{},
		&ImportDeclaration{},
		&Item{},
		&StandardCode{},
		&ItemClassCode{},
		&Notice{},
		&SyncCheckpoint{},
		&ActivityLog{},
		&ImportItem{},
		&PurchaseRecord{},
	}
}
