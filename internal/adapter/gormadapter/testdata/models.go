package models

import "time"

// Some User Model
type User struct {
	ID        int       `gorm:"primaryKey;comment:UserId"`
	Level     int       `gorm:"uniqueIndex:idx_level_coeff;comment:User level"`
	Nickname  string    `gorm:"size:32;unique;comment:Nickname"`
	IsActive  bool      `gorm:"default:true"`
	Coeff     float64   `gorm:"precision:8;default:1.1;uniqueIndex:idx_level_coeff"`
	RegTime   time.Time `gorm:"autoCreateTime"`
	Birthday  time.Time `gorm:"type:date;autoUpdateTime"`
	Signature []byte    `gorm:"size:4;not null;default:'1010'"`
	Balance   float64   `gorm:"type:decimal(2,10)"`
}

func (User) TableName() string { return "user" }

// Some Payment
type Payment struct {
	ID      int     `gorm:"primaryKey;comment:UserId"`
	Payment float64 `gorm:"type:decimal"`
	UserID  int     `gorm:"not null;comment:UserId"`
	User    User
}

func (Payment) TableName() string { return "payment" }
