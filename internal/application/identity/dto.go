package identity

import (
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
)

// RegisterRequest carries the sign-up form
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Company   string
	Position  string
	Type      string
}

// UpdateDetailsRequest carries a partial account update. Nil fields are
// left unchanged.
type UpdateDetailsRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Company   *string
	Position  *string
	Password  *string
}

// LoginResult holds the issued access token
type LoginResult struct {
	Token string
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID        shared.ID `json:"id"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house"`
	Structure string    `json:"structure"`
	Building  string    `json:"building"`
	Apartment string    `json:"apartment"`
	Phone     string    `json:"phone"`
}

// UserResponse represents an account in API responses
type UserResponse struct {
	ID        shared.ID         `json:"id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Email     string            `json:"email"`
	Company   string            `json:"company"`
	Position  string            `json:"position"`
	Type      string            `json:"type"`
	Contacts  []ContactResponse `json:"contacts"`
}

// ToContactResponse converts a domain Contact to a response
func ToContactResponse(c *identity.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Structure: c.Structure,
		Building:  c.Building,
		Apartment: c.Apartment,
		Phone:     c.Phone,
	}
}

// ToUserResponse converts a domain User and its contacts to a response
func ToUserResponse(u *identity.User, contacts []identity.Contact) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Company:   u.Company,
		Position:  u.Position,
		Type:      u.Type.String(),
		Contacts:  make([]ContactResponse, 0, len(contacts)),
	}
	for i := range contacts {
		resp.Contacts = append(resp.Contacts, ToContactResponse(&contacts[i]))
	}
	return resp
}
