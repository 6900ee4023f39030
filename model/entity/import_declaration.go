package entity

import "gorm.io/datatypes"

// ImportDeclaration represents one submitted customs import declaration.
type ImportDeclaration struct {
	ID              uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TPIN            string         `gorm:"column:tpin;not null" json:"tpin"`
	BranchID        string         `gorm:"column:bhf_id;not null" json:"bhfId"`
	TaskCode        string         `gorm:"column:task_cd;index" json:"taskCd"`
	DeclarationDate string         `gorm:"column:dcl_de" json:"dclDe"`
	ImportItemList  datatypes.JSON `gorm:"column:import_item_list" json:"importItemList,omitempty"`
	Status          string         `gorm:"column:status;default:pending" json:"status"`

	Submission `gorm:"embedded"`
}

func (ImportDeclaration) TableName() string {
	return "import_declarations"
}
