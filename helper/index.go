package helper

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"venue_pos/model"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var ErrTokenExpired = errors.New("token expired")

// JWT signs and verifies access tokens with HS256.
type JWT struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	return &JWT{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

func (j *JWT) GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = strconv.FormatUint(uint64(tokenClaim.AccountId), 10)
	claims["username"] = tokenClaim.Username
	claims["accountId"] = tokenClaim.AccountId
	claims["role"] = string(tokenClaim.Role)
	if tokenClaim.TableNumber != nil {
		claims["tableNumber"] = *tokenClaim.TableNumber
	}
	claims["exp"] = j.Now().Add(j.TTL).Unix()

	return token.SignedString(j.Secret)
}

// ParseToken verifies the signature and expiry and returns the embedded claim.
func (j *JWT) ParseToken(tokenString string) (model.TokenClaim, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenClaim{}, ErrTokenExpired
		}
		return model.TokenClaim{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, errors.New("invalid token claims")
	}
	accountID, ok := claims["accountId"].(float64)
	if !ok || accountID <= 0 {
		return model.TokenClaim{}, errors.New("token has no account")
	}
	role, err := model.ParseRole(fmt.Sprint(claims["role"]))
	if err != nil {
		return model.TokenClaim{}, err
	}
	out := model.TokenClaim{
		AccountId: uint(accountID),
		Role:      role,
	}
	out.Username, _ = claims["username"].(string)
	if n, ok := claims["tableNumber"].(float64); ok {
		table := int(n)
		out.TableNumber = &table
	}
	return out, nil
}
