package repository

import "errors"

// Ошибки хранилища. Сервисный слой сопоставляет их
// с ошибками бизнес-уровня через errors.Is.
var (
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrSupplierNotFound — поставщик не найден.
	ErrSupplierNotFound = errors.New("supplier not found")
	// ErrDuplicateUsername — нарушение уникального индекса username.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateEmail — нарушение уникального индекса email.
	ErrDuplicateEmail = errors.New("email already exists")
)
