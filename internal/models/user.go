// Package models содержит доменные модели системы StockFlow:
// пользователей, поставщиков и связанные с ними перечисления.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Статусы учётной записи пользователя.
const (
	UserStatusActive  = "active"
	UserStatusPending = "pending"
)

// User представляет зарегистрированного пользователя системы.
//
// Хэш пароля никогда не сериализуется в HTTP-ответ.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"` // Имя пользователя (уникальное)
	Email        string             `bson:"email" json:"email"`       // Электронная почта (уникальная)
	PasswordHash string             `bson:"hashed_password" json:"-"` // bcrypt-хэш пароля
	FullName     string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	FirstName    string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar       string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role         string             `bson:"role" json:"role"`               // Роль: admin, manager, staff или viewer
	Permissions  []string           `bson:"permissions" json:"permissions"` // Набор привилегий пользователя
	IsActive     bool               `bson:"is_active" json:"is_active"`
	Status       string             `bson:"status" json:"status"` // active или pending
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserUpdate описывает частичное обновление собственного профиля.
//
// Пустое значение поля означает "поле не передано" и оставляет
// сохранённое значение без изменений.
type UserUpdate struct {
	Password  string
	FullName  string
	FirstName string
	LastName  string
	Phone     string
	Avatar    string
}

// IsEmpty сообщает, что ни одно поле обновления не задано.
func (u UserUpdate) IsEmpty() bool {
	return u == UserUpdate{}
}
