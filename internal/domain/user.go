package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id" bson:"_id"`
	Email        string    `json:"email" dynamodbav:"email" bson:"email"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash" bson:"passwordHash"`
	CreatedAt    time.Time `json:"-" dynamodbav:"created_at" bson:"createdAt"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
