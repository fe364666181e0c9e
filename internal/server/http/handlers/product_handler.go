package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshbasket/storefront/internal/server/http/dto"
)

// ProductHandler serves the read-only catalog.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// List handles GET /api/product/list.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.facade.Products(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	views := make([]dto.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}

	c.JSON(http.StatusOK, dto.ProductsResponse{Success: true, Products: views})
}
