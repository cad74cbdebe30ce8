package model

// User is a registered person (users table).
// UserID is the external messenger identity and is stable across group moves.
type User struct {
	UserID       int64  `gorm:"primaryKey"                              json:"user_id"`
	Username     string `gorm:"type:varchar(64)"                        json:"username,omitempty"`
	FirstName    string `gorm:"type:varchar(100)"                       json:"first_name,omitempty"`
	LastName     string `gorm:"type:varchar(100)"                       json:"last_name,omitempty"`
	PasswordHash string `gorm:"type:varchar(255)"                       json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'member'" json:"role"` // member | admin
	BaseModel
}

// TableName maps the struct to its table.
func (User) TableName() string { return "users" }

// DisplayName returns the best human label for the user.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return ""
}
