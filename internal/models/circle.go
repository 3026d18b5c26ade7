package models

import (
	"time"
)

type CircleRole string

const (
	CircleRoleOwner  CircleRole = "OWNER"
	CircleRoleMember CircleRole = "MEMBER"
)

type CircleStatus string

const (
	CircleStatusActive  CircleStatus = "ACTIVE"
	CircleStatusInvited CircleStatus = "INVITED"
)

// Circle is a private group curating a shared spotlight feed.
type Circle struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerUserID string    `gorm:"size:64;not null;index" json:"owner_user_id"`
	Name        string    `gorm:"size:80;not null" json:"name"`
	Description string    `gorm:"size:300" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CircleMember struct {
	ID              uint         `gorm:"primaryKey" json:"-"`
	CircleID        string       `gorm:"size:36;not null;uniqueIndex:idx_circle_member" json:"circle_id"`
	Circle          *Circle      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID          string       `gorm:"size:64;not null;uniqueIndex:idx_circle_member;index" json:"user_id"`
	Role            CircleRole   `gorm:"type:varchar(16);not null" json:"role"`
	Status          CircleStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	InvitedByUserID string       `gorm:"size:64" json:"invited_by_user_id"`
	InvitedAt       time.Time    `gorm:"autoCreateTime" json:"invited_at"`
	JoinedAt        *time.Time   `json:"joined_at,omitempty"`
}

// SpotlightEntry pins a post into a circle's curated feed.
// idx_spotlight_pair keeps at most one entry per (circle_id, post_id).
type SpotlightEntry struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CircleID      string    `gorm:"size:36;not null;uniqueIndex:idx_spotlight_pair;index" json:"circle_id"`
	Circle        *Circle   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID        string    `gorm:"size:36;not null;uniqueIndex:idx_spotlight_pair;index" json:"post_id"`
	Post          *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AddedByUserID string    `gorm:"size:64;not null" json:"added_by_user_id"`
	AddedAt       time.Time `gorm:"not null;index" json:"added_at"`
}
