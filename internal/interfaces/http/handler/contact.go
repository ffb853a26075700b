package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// ContactHandler handles /user/contact
type ContactHandler struct {
	BaseHandler
	contacts ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// List returns the caller's contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, contacts)
}

// Create adds a contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.ContactCreateRequest
	if !h.Bind(c, &req) {
		return
	}
	fields := identity.ContactFields{
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	}
	if _, err := h.contacts.Create(c.Request.Context(), userID(c), fields); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// Update changes one of the caller's contacts; id is required
func (h *ContactHandler) Update(c *gin.Context) {
	var req dto.ContactUpdateRequest
	if !h.Bind(c, &req) {
		return
	}
	fields := identity.ContactFields{
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	}
	if err := h.contacts.Update(c.Request.Context(), userID(c), shared.ID(req.ID), fields); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// Delete removes the caller's contacts listed in items
func (h *ContactHandler) Delete(c *gin.Context) {
	deleted, err := h.contacts.Delete(c.Request.Context(), userID(c), deleteIDs(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Respond(c, dto.DeletedCount(deleted))
}
