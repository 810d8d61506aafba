package db

import (
	"time"
)

// Role discriminates account behavior in the matching flow.
// An empty role means the account is still registering.
type Role string

const (
	RoleUnset   Role = ""
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
)

// Account represents a registered bot user, keyed by Telegram chat id.
//
// Role branches matching: students browse all active mentors, mentors
// browse active students that liked them. IsActive flips to false when
// the user blocks the bot and back to true on return; rows are never
// hard-deleted.
type Account struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	ChatID      int64  `gorm:"uniqueIndex;not null"`
	Handle      string `gorm:"size:64"`
	Role        Role   `gorm:"size:16;not null;default:''"`
	IsActive    bool   `gorm:"not null;default:true"`
	FullName    string `gorm:"size:128;not null"`
	Description string
	Image       []byte
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Tags    []Tag  `gorm:"many2many:account_tags;"`
	Likes   []Like `gorm:"foreignKey:LikerID"`
	LikedBy []Like `gorm:"foreignKey:LikedID"`
}

// Tag is an interest category. Titles are not unique; identity is the id.
// Tags are seeded administratively, never created through the bot flow.
type Tag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"size:128;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// AccountTag is the account-tag join row. The composite unique index backs
// the application-level "one row per (account, tag)" invariant.
type AccountTag struct {
	AccountID uint `gorm:"primaryKey;uniqueIndex:uidx_account_tag,priority:1"`
	TagID     uint `gorm:"primaryKey;uniqueIndex:uidx_account_tag,priority:2"`
}

// Like is a directed "interest" edge from liker to liked. A reciprocal pair
// of rows denotes a match; no separate match entity is stored.
//
// The composite unique index guards against a concurrent double toggle
// inserting the same ordered pair twice.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	LikerID   uint      `gorm:"not null;uniqueIndex:uidx_liker_liked,priority:1;index:idx_liked_liker,priority:2"`
	LikedID   uint      `gorm:"not null;uniqueIndex:uidx_liker_liked,priority:2;index:idx_liked_liker,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
