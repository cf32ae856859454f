package models

// Admin is a back-office credential. The password column holds whatever the
// configured hasher expects: the raw secret in plaintext mode, a bcrypt hash
// otherwise.
type Admin struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"`
}

func (Admin) TableName() string { return "admin" }
