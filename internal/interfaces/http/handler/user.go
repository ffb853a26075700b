package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// UserHandler handles account endpoints
type UserHandler struct {
	BaseHandler
	accounts AccountService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(accounts AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Register godoc
// @Summary      Register an account
// @Description  Creates an inactive account and emails a confirmation token
// @Tags         user
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body dto.RegisterRequest true "Sign-up form"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.Bind(c, &req) {
		return
	}

	_, err := h.accounts.Register(c.Request.Context(), identityapp.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Company:   req.Company,
		Position:  req.Position,
		Type:      req.Type,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// ConfirmEmail godoc
// @Summary      Confirm an email address
// @Tags         user
// @Param        request body dto.ConfirmEmailRequest true "Email and token"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /user/register/confirm [post]
func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	var req dto.ConfirmEmailRequest
	if !h.Bind(c, &req) {
		return
	}
	if err := h.accounts.ConfirmEmail(c.Request.Context(), req.Email, req.Token); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges credentials of an active account for an access token
// @Tags         user
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.Bind(c, &req) {
		return
	}
	result, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Respond(c, dto.WithToken(result.Token))
}

// GetDetails returns the caller's account with contacts
func (h *UserHandler) GetDetails(c *gin.Context) {
	user, err := h.accounts.GetDetails(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateDetails applies a partial account update
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	var req dto.UpdateDetailsRequest
	if !h.Bind(c, &req) {
		return
	}
	err := h.accounts.UpdateDetails(c.Request.Context(), userID(c), identityapp.UpdateDetailsRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Company:   req.Company,
		Position:  req.Position,
		Password:  req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// RequestPasswordReset emails a reset token. The answer does not reveal
// whether the address is registered.
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if !h.Bind(c, &req) {
		return
	}
	if err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// ConfirmPasswordReset sets a new password using a reset token
func (h *UserHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if !h.Bind(c, &req) {
		return
	}
	if err := h.accounts.ConfirmPasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}
