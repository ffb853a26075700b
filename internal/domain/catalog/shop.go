package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/marketplace/backend/internal/domain/shared"
)

// MaxShopNameLength is the column width of shops.name
const MaxShopNameLength = 50

// Shop is a seller storefront. A shop is optionally bound to the user
// account that uploads its price lists.
type Shop struct {
	shared.BaseAggregateRoot
	Name   string
	URL    string
	UserID *shared.ID
	State  bool
}

// NewShop creates a shop that accepts orders
func NewShop(name string, userID *shared.ID) (*Shop, error) {
	name = strings.TrimSpace(name)
	if err := validateShopName(name); err != nil {
		return nil, err
	}
	return &Shop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		UserID:            userID,
		State:             true,
	}, nil
}

// SetURL records where the shop's latest price list came from
func (s *Shop) SetURL(url string) {
	s.URL = url
	s.UpdatedAt = time.Now()
}

// SetState toggles whether the shop accepts orders
func (s *Shop) SetState(state bool) {
	if s.State == state {
		return
	}
	s.State = state
	s.UpdatedAt = time.Now()
	s.AddDomainEvent(NewShopStateChangedEvent(s))
}

// IsOwnedBy reports whether the shop belongs to the given user
func (s *Shop) IsOwnedBy(userID shared.ID) bool {
	return s.UserID != nil && *s.UserID == userID
}

func validateShopName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxShopNameLength {
		return shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot exceed 50 characters")
	}
	return nil
}

// ParseStateFlag interprets a boolean-like string the way partner clients
// send it: y/yes/t/true/on/1 and n/no/f/false/off/0, case-insensitively.
func ParseStateFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	}
	return false, shared.NewDomainError(shared.CodeInvalidInput, "invalid truth value "+`"`+raw+`"`)
}
