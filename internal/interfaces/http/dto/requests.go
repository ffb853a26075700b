package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/shared"
)

// RegisterRequest is the sign-up form
type RegisterRequest struct {
	FirstName string `json:"first_name" form:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" form:"last_name" binding:"required,max=150"`
	Email     string `json:"email" form:"email" binding:"required,email,max=254"`
	Password  string `json:"password" form:"password" binding:"required"`
	Company   string `json:"company" form:"company" binding:"required,max=40"`
	Position  string `json:"position" form:"position" binding:"required,max=40"`
	Type      string `json:"type" form:"type" binding:"omitempty,oneof=shop buyer"`
}

// ConfirmEmailRequest activates an account
type ConfirmEmailRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
	Token string `json:"token" form:"token" binding:"required"`
}

// LoginRequest holds credentials
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// UpdateDetailsRequest is a partial account update
type UpdateDetailsRequest struct {
	FirstName *string `json:"first_name" form:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" form:"last_name" binding:"omitempty,max=150"`
	Email     *string `json:"email" form:"email" binding:"omitempty,email,max=254"`
	Company   *string `json:"company" form:"company" binding:"omitempty,max=40"`
	Position  *string `json:"position" form:"position" binding:"omitempty,max=40"`
	Password  *string `json:"password" form:"password"`
}

// PasswordResetRequest starts a password reset
type PasswordResetRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

// PasswordResetConfirmRequest completes a password reset
type PasswordResetConfirmRequest struct {
	Token    string `json:"token" form:"token" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// ContactCreateRequest adds a delivery contact
type ContactCreateRequest struct {
	City      *string `json:"city" form:"city" binding:"required,max=50"`
	Street    *string `json:"street" form:"street" binding:"required,max=100"`
	House     *string `json:"house" form:"house" binding:"omitempty,max=15"`
	Structure *string `json:"structure" form:"structure" binding:"omitempty,max=15"`
	Building  *string `json:"building" form:"building" binding:"omitempty,max=15"`
	Apartment *string `json:"apartment" form:"apartment" binding:"omitempty,max=15"`
	Phone     *string `json:"phone" form:"phone" binding:"required,max=20"`
}

// ContactUpdateRequest changes the given fields of one contact
type ContactUpdateRequest struct {
	ID        FlexID  `json:"id" form:"id" binding:"required"`
	City      *string `json:"city" form:"city" binding:"omitempty,max=50"`
	Street    *string `json:"street" form:"street" binding:"omitempty,max=100"`
	House     *string `json:"house" form:"house" binding:"omitempty,max=15"`
	Structure *string `json:"structure" form:"structure" binding:"omitempty,max=15"`
	Building  *string `json:"building" form:"building" binding:"omitempty,max=15"`
	Apartment *string `json:"apartment" form:"apartment" binding:"omitempty,max=15"`
	Phone     *string `json:"phone" form:"phone" binding:"omitempty,max=20"`
}

// PartnerUpdateRequest points at the partner's price list
type PartnerUpdateRequest struct {
	URL string `json:"url" form:"url" binding:"required,http_url"`
}

// PartnerStateRequest switches order intake
type PartnerStateRequest struct {
	State string `json:"state" form:"state" binding:"required"`
}

// BasketAddRequest adds listings to the basket
type BasketAddRequest struct {
	Items ItemList[trade.BasketItemInput] `json:"items" form:"items"`
}

// BasketUpdateRequest changes basket quantities
type BasketUpdateRequest struct {
	Items ItemList[trade.BasketItemUpdate] `json:"items" form:"items"`
}

// DeleteRequest carries comma-joined ids
type DeleteRequest struct {
	Items string `json:"items" form:"items"`
}

// OrderRequest checks out a basket
type OrderRequest struct {
	ID      FlexID `json:"id" form:"id" binding:"required"`
	Contact FlexID `json:"contact" form:"contact" binding:"required"`
}

// ListQuery holds pagination parameters
type ListQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=0"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Page converts the query into repository pagination
func (q ListQuery) Page() shared.Page {
	return shared.Page{Limit: q.Limit, Offset: q.Offset}.Normalize()
}

// ItemList decodes a JSON array given either inline or as a JSON-encoded
// string, which is how form clients send it
type ItemList[T any] struct {
	Values []T
}

// UnmarshalJSON implements json.Unmarshaler
func (l *ItemList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			l.Values = nil
			return nil
		}
		data = []byte(s)
	}
	return json.Unmarshal(data, &l.Values)
}

// UnmarshalParam lets gin bind the field from form values
func (l *ItemList[T]) UnmarshalParam(param string) error {
	if strings.TrimSpace(param) == "" {
		l.Values = nil
		return nil
	}
	return json.Unmarshal([]byte(param), &l.Values)
}

// FlexID is an id sent as a JSON number or a string of digits. Zero means
// absent.
type FlexID shared.ID

// UnmarshalJSON implements json.Unmarshaler
func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return id.UnmarshalParam(s)
	}
	var n shared.ID
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexID(n)
	return nil
}

// UnmarshalParam lets gin bind the field from form values
func (id *FlexID) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return err
	}
	*id = FlexID(n)
	return nil
}

// ParseIDList splits comma-joined ids. Entries that are not plain digits
// are skipped.
func ParseIDList(raw string) []shared.ID {
	parts := strings.Split(raw, ",")
	ids := make([]shared.ID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
