package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/server/http/dto"
)

// AddressHandler manages the shopper address book.
type AddressHandler struct {
	facade AddressFacade
}

// NewAddressHandler constructs AddressHandler.
func NewAddressHandler(facade AddressFacade) *AddressHandler {
	return &AddressHandler{facade: facade}
}

// Add handles POST /api/address/add.
func (h *AddressHandler) Add(c *gin.Context) {
	var req dto.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	address := &model.Address{
		UserID:    CurrentUserID(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		Phone:     req.Phone,
	}

	saved, err := h.facade.AddAddress(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	view := addressView(*saved)
	c.JSON(http.StatusCreated, dto.AddressResponse{Success: true, Address: &view})
}

// List handles GET /api/address/list.
func (h *AddressHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)

	addresses, err := h.facade.Addresses(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	views := make([]dto.AddressView, 0, len(addresses))
	for _, a := range addresses {
		views = append(views, addressView(a))
	}

	c.JSON(http.StatusOK, dto.AddressesResponse{Success: true, Addresses: views})
}
