package models

type BoardMembership struct {
	BaseModel

	UserID  string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_board"`
	BoardID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_board"`
}
