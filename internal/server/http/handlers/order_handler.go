package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/freshbasket/storefront/internal/domain/errors"
	"github.com/freshbasket/storefront/internal/domain/model"
	"github.com/freshbasket/storefront/internal/server/http/dto"
)

// OrderHandler manages checkout and order lifecycle endpoints.
type OrderHandler struct {
	facade       OrderFacade
	payments     PaymentFacade
	publicOrigin string
}

// NewOrderHandler constructs OrderHandler. publicOrigin is the fallback base
// URL for payment redirect targets when the request carries no Origin header.
func NewOrderHandler(facade OrderFacade, payments PaymentFacade, publicOrigin string) *OrderHandler {
	return &OrderHandler{facade: facade, payments: payments, publicOrigin: publicOrigin}
}

// PlaceCOD handles POST /api/order/cod.
func (h *OrderHandler) PlaceCOD(c *gin.Context) {
	userID := CurrentUserID(c)

	items, addressID, ok := bindPlaceOrder(c)
	if !ok {
		return
	}

	order, err := h.facade.PlaceCODOrder(c.Request.Context(), userID, items, addressID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OrderResponse{
		Success: true,
		Message: "order placed",
		Order:   orderViewFromOrder(order),
	})
}

// PlaceOnline handles POST /api/order/online.
func (h *OrderHandler) PlaceOnline(c *gin.Context) {
	userID := CurrentUserID(c)

	items, addressID, ok := bindPlaceOrder(c)
	if !ok {
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = h.publicOrigin
	}

	url, _, err := h.facade.PlaceOnlineOrder(c.Request.Context(), userID, items, addressID, origin)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{Success: true, URL: url})
}

// ListUser handles GET /api/order/user.
func (h *OrderHandler) ListUser(c *gin.Context) {
	userID := CurrentUserID(c)

	orders, err := h.facade.UserOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.OrdersResponse{Success: true, Orders: orderViews(orders)})
}

// ListAll handles GET /api/order/all. Seller only.
func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.facade.AllOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.OrdersResponse{Success: true, Orders: orderViews(orders)})
}

// UpdateStatus handles PATCH /api/order/status/:orderId. Seller only.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderResponse{
		Success: true,
		Message: "status updated",
		Order:   orderViewFromOrder(order),
	})
}

// CancelUser handles POST /api/order/cancel/user/:orderId.
func (h *OrderHandler) CancelUser(c *gin.Context) {
	userID := CurrentUserID(c)

	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.facade.CancelOrderByUser(c.Request.Context(), orderID, userID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderResponse{
		Success: true,
		Message: "order cancelled",
		Order:   orderViewFromOrder(order),
	})
}

// CancelAdmin handles POST /api/order/cancel/admin/:orderId. Seller only.
func (h *OrderHandler) CancelAdmin(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.facade.CancelOrderBySeller(c.Request.Context(), orderID)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderResponse{
		Success: true,
		Message: "order cancelled",
		Order:   orderViewFromOrder(order),
	})
}

// VerifySession handles GET /api/order/verify-session. Clients poll it after
// returning from the payment page; a successful answer means the order is
// marked paid even if the webhook has not arrived yet.
func (h *OrderHandler) VerifySession(c *gin.Context) {
	sessionID := c.Query("session_id")

	orderID, err := h.payments.VerifyCheckoutSession(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "session_id is required"})
		case errors.Is(err, domainErrors.ErrPaymentNotCompleted):
			c.JSON(http.StatusOK, dto.VerifySessionResponse{Success: false, Message: "payment not completed"})
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "order not found"})
		default:
			var gatewayErr *domainErrors.GatewayError
			if errors.As(err, &gatewayErr) {
				c.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "payment provider unavailable"})
				return
			}
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.VerifySessionResponse{
		Success: true,
		Message: "payment confirmed",
		OrderID: orderID,
	})
}

func bindPlaceOrder(c *gin.Context) ([]model.OrderItem, int64, bool) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
		return nil, 0, false
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{ProductID: item.Product, Quantity: item.Quantity})
	}
	return items, req.Address, true
}

func orderIDParam(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid order id"})
		return 0, false
	}
	return orderID, true
}

func writeOrderError(c *gin.Context, err error) {
	var gatewayErr *domainErrors.GatewayError

	switch {
	case errors.Is(err, domainErrors.ErrBelowMinimum):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "order amount is below the online payment minimum"})
	case errors.Is(err, domainErrors.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidState):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "not found"})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "payment provider unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
	}
}

func orderViews(orders []model.OrderDetail) []dto.OrderDetailView {
	views := make([]dto.OrderDetailView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderViewFromDetail(o))
	}
	return views
}

func orderViewFromDetail(detail model.OrderDetail) dto.OrderDetailView {
	view := dto.OrderDetailView{OrderSummary: orderSummary(detail.Order)}
	view.Items = make([]dto.OrderItemView, 0, len(detail.ItemDetails))
	for _, item := range detail.ItemDetails {
		view.Items = append(view.Items, dto.OrderItemView{
			Product:  productView(item.Product),
			Quantity: item.Quantity,
		})
	}
	if detail.Address.ID != 0 {
		addr := addressView(detail.Address)
		view.Address = &addr
	}
	return view
}

func orderViewFromOrder(order *model.Order) *dto.OrderView {
	if order == nil {
		return nil
	}
	view := dto.OrderView{OrderSummary: orderSummary(*order)}
	view.Items = make([]dto.OrderItemRefView, 0, len(order.Items))
	for _, item := range order.Items {
		view.Items = append(view.Items, dto.OrderItemRefView{
			Product:  item.ProductID,
			Quantity: item.Quantity,
		})
	}
	return &view
}

func orderSummary(order model.Order) dto.OrderSummary {
	return dto.OrderSummary{
		ID:          order.ID,
		UserID:      order.UserID,
		Amount:      order.Amount,
		PaymentType: string(order.PaymentType),
		IsPaid:      order.IsPaid,
		PaymentID:   order.PaymentID,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func productView(product model.Product) dto.ProductView {
	return dto.ProductView{
		ID:         product.ID,
		Name:       product.Name,
		Category:   product.Category,
		Price:      product.Price,
		OfferPrice: product.OfferPrice,
		ImageURL:   product.ImageURL,
	}
}

func addressView(address model.Address) dto.AddressView {
	return dto.AddressView{
		ID:        address.ID,
		FirstName: address.FirstName,
		LastName:  address.LastName,
		Email:     address.Email,
		Street:    address.Street,
		City:      address.City,
		State:     address.State,
		ZipCode:   address.ZipCode,
		Country:   address.Country,
		Phone:     address.Phone,
	}
}
