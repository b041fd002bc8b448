package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and amounts go over the wire as JSON numbers, like the clients expect.
	decimal.MarshalJSONWithoutQuotes = true
}

type DTO struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TokenClaim struct {
	AccountId   uint   `json:"accountId"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	TableNumber *int   `json:"tableNumber"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type QRAuthInput struct {
	TableNumber FlexInt `json:"tableNumber"`
	Token       string  `json:"token" validate:"required"`
}

// FlexInt accepts a JSON number or a numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var num json.Number
		if jerr := json.Unmarshal(b, &num); jerr == nil {
			if i, ierr := num.Int64(); ierr == nil {
				*f = FlexInt(i)
				return nil
			}
		}
		return fmt.Errorf("not an integer: %s", s)
	}
	*f = FlexInt(n)
	return nil
}
