package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserEntity = "user"

	// MinPasswordLength is enforced at registration only; existing
	// hashes are never re-checked.
	MinPasswordLength = 6
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"userId"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	CreateDate time.Time          `bson:"date" json:"createDate"`
}
