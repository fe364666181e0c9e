package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/server/http/dto"
)

// CartHandler mirrors the client-side cart on the server.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Update handles POST /api/cart/update. The client copy replaces the stored
// mirror wholesale; last write wins.
func (h *CartHandler) Update(c *gin.Context) {
	var req dto.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	userID := CurrentUserID(c)
	if err := h.facade.UpdateCart(c.Request.Context(), userID, req.CartItems); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)

	items, err := h.facade.Cart(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.CartResponse{Success: true, CartItems: items})
}
