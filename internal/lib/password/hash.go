// Package password реализует bcrypt-хеширование и проверку секретов.
//
// Используется для ключа шлюза идентификации: в конфиге хранится только
// bcrypt-хеш, а присланный ключ сравнивается с ним через CompareHash.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash принимает секрет и возвращает его bcrypt‑хэш.
func GetHash(secret string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt‑хэш с присланным секретом.
//
// Возвращает nil, если секрет соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalSecret string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalSecret)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
