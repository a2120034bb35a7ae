package models

type Board struct {
	BaseModel

	Title       string `gorm:"not null"`
	Description string
	OwnerID     string `gorm:"type:varchar(36);not null;index"`
	Version     int64  `gorm:"not null;default:0"` // bumped whenever list positions are rewritten

	// Relationships
	Owner       User              `gorm:"foreignKey:OwnerID"`
	Memberships []BoardMembership `gorm:"foreignKey:BoardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Lists       []List            `gorm:"foreignKey:BoardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// MemberIDs returns the user ids of the loaded memberships.
func (b Board) MemberIDs() []string {
	ids := make([]string, 0, len(b.Memberships))
	for _, m := range b.Memberships {
		ids = append(ids, m.UserID)
	}
	return ids
}
