package models

type List struct {
	BaseModel

	BoardID  string `gorm:"type:varchar(36);not null;index"`
	Title    string `gorm:"not null"`
	Position int    `gorm:"not null;default:0"`
	Version  int64  `gorm:"not null;default:0"` // bumped whenever card positions are rewritten

	// Relationships
	Cards []Card `gorm:"foreignKey:ListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
