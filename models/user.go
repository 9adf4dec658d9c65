package models

import (
	"time"
)

// Account is a login identity. Every account in this system belongs to a
// mentor; students book without signing up.
type Account struct {
	UserID    string    `json:"userid" bson:"userid"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      string    `json:"role" bson:"role"`
	MentorID  string    `json:"mentorid,omitempty" bson:"mentorid,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	LastLogin time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

const RoleMentor = "mentor"
