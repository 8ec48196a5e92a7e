// Package jwt реализует выпуск и проверку JWT токенов доступа.
//
// Токен подписывается секретным ключом сервера (HMAC) и содержит
// идентификатор пользователя в качестве subject, роль и срок действия.
// Единственный механизм отзыва — истечение срока действия.
package jwt

import "github.com/golang-jwt/jwt/v5"

// Claims описывает полезную нагрузку токена доступа.
//
// Идентификатор пользователя хранится в стандартном поле Subject.
type Claims struct {
	Role                 string `json:"role"` // Роль пользователя
	jwt.RegisteredClaims        // Стандартные claims (sub, exp, iat)
}
