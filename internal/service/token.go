package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PosterClaims описывает клеймы токена управления заданием.
type PosterClaims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// PosterTokenManager выпускает токены, которые заказчик получает при создании
// задания. Токен даёт право редактировать задание и подписываться на его панель.
type PosterTokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewPosterTokenManager(secret string, ttl time.Duration) *PosterTokenManager {
	return &PosterTokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue выпускает токен для задания.
func (m *PosterTokenManager) Issue(jobID uuid.UUID, phone string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)

	claims := PosterClaims{
		Phone: phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   jobID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse проверяет подпись и срок и возвращает ID задания.
func (m *PosterTokenManager) Parse(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &PosterClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный алгоритм подписи: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := parsed.Claims.(*PosterClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	jobID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, jwt.ErrTokenInvalidSubject
	}
	return jobID, nil
}
