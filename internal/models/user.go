package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	PasswordHash    string             `json:"-" bson:"password_hash"`
	IsEmailVerified bool               `json:"is_email_verified" bson:"is_email_verified"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}
