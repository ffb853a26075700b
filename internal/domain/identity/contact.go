package identity

import (
	"strings"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Contact is a delivery address and phone owned by a user
type Contact struct {
	shared.BaseEntity
	UserID    shared.ID
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
	Phone     string
}

// ContactFields carries contact values from a request. Nil pointers leave
// the corresponding field unchanged on update.
type ContactFields struct {
	City      *string
	Street    *string
	House     *string
	Structure *string
	Building  *string
	Apartment *string
	Phone     *string
}

// NewContact creates a contact; city, street and phone are required
func NewContact(userID shared.ID, f ContactFields) (*Contact, error) {
	c := &Contact{BaseEntity: shared.NewBaseEntity(), UserID: userID}
	if err := c.Apply(f); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply merges the non-nil fields and validates the result
func (c *Contact) Apply(f ContactFields) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	next := *c
	set(&next.City, f.City)
	set(&next.Street, f.Street)
	set(&next.House, f.House)
	set(&next.Structure, f.Structure)
	set(&next.Building, f.Building)
	set(&next.Apartment, f.Apartment)
	set(&next.Phone, f.Phone)
	if err := next.validate(); err != nil {
		return err
	}
	*c = next
	c.Touch()
	return nil
}

func (c *Contact) validate() error {
	verr := &shared.ValidationError{}
	required := map[string]string{"city": c.City, "street": c.Street, "phone": c.Phone}
	for field, v := range required {
		if v == "" {
			verr.Add(field, "Обязательное поле.")
		}
	}
	checkLength(verr, "city", c.City, 50)
	checkLength(verr, "street", c.Street, 100)
	checkLength(verr, "house", c.House, 15)
	checkLength(verr, "structure", c.Structure, 15)
	checkLength(verr, "building", c.Building, 15)
	checkLength(verr, "apartment", c.Apartment, 15)
	checkLength(verr, "phone", c.Phone, 20)
	if verr.HasErrors() {
		return verr
	}
	return nil
}
