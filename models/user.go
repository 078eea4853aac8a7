package models

// User is the owner of a portfolio. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        int     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Username  string  `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Password  string  `json:"-" db:"password" gorm:"type:text;not null"`
	Name      string  `json:"name" db:"name" gorm:"type:text;not null"`
	AvatarURL *string `json:"avatarUrl" db:"avatar_url" gorm:"type:text"`
}

// ProjectOwner is the public slice of a User embedded in read models.
type ProjectOwner struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// UnknownOwner stands in for a project whose owner no longer resolves.
var UnknownOwner = ProjectOwner{ID: 0, Name: "Unknown"}

func (u User) Owner() ProjectOwner {
	return ProjectOwner{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}
