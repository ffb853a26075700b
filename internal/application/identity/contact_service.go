package identity

import (
	"context"
	"errors"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ContactService manages the caller's delivery contacts
type ContactService struct {
	contactRepo identity.ContactRepository
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo identity.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// List lists the caller's contacts
func (s *ContactService) List(ctx context.Context, userID shared.ID) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, ToContactResponse(&contacts[i]))
	}
	return out, nil
}

// Create adds a contact; city, street and phone are required
func (s *ContactService) Create(ctx context.Context, userID shared.ID, fields identity.ContactFields) (*ContactResponse, error) {
	contact, err := identity.NewContact(userID, fields)
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// Update applies a partial update to one of the caller's contacts. A
// contact of another user is reported as a missing argument.
func (s *ContactService) Update(ctx context.Context, userID, id shared.ID, fields identity.ContactFields) error {
	contact, err := s.contactRepo.FindByIDForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrMissingArguments
		}
		return err
	}
	if err := contact.Apply(fields); err != nil {
		return err
	}
	return s.contactRepo.Update(ctx, contact)
}

// Delete deletes the caller's contacts with the given ids
func (s *ContactService) Delete(ctx context.Context, userID shared.ID, ids []shared.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, shared.ErrMissingArguments
	}
	return s.contactRepo.DeleteByIDsForUser(ctx, userID, ids)
}
