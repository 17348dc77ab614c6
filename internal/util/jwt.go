package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 自定义 JWT 负载；RegisteredClaims.ID 保存会话 ID
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionID 返回 token 绑定的会话
func (c *Claims) SessionID() string {
	return c.ID
}

// TokenParams 生成 token 所需的参数
type TokenParams struct {
	Secret    string
	Issuer    string
	UserID    uint
	Email     string
	SessionID string
	TTL       time.Duration
	Now       time.Time
}

// GenerateToken 生成用户的 JWT，可指定有效期
func GenerateToken(p TokenParams) (string, error) {
	if p.Secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	if p.TTL <= 0 {
		p.TTL = 24 * time.Hour
	}
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	claims := &Claims{
		UserID: p.UserID,
		Email:  p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.SessionID,
			Issuer:    p.Issuer,
			Subject:   p.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(p.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.Secret))
}

// ParseToken 解析并验证 JWT，返回 Claims
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
