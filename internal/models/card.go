package models

// Card is owned by exactly one list. ListID and Position are written only by
// the ordering operations in the services package.
type Card struct {
	BaseModel

	ListID      string `gorm:"type:varchar(36);not null;index"`
	Title       string `gorm:"not null"`
	Description string
	Position    int `gorm:"not null;default:0"`
}
