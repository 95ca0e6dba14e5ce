package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/campusmarket/internal/domain/model"
	"github.com/polkiloo/campusmarket/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders/create.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), model.CreateOrderInput{
		ListingID:      req.ListingID,
		BuyerUID:       req.BuyerUID,
		DeliveryMethod: model.DeliveryMethod(req.DeliveryMethod),
		DeliveryNote:   req.DeliveryNote,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OrderCreatedResponse{
		Envelope:     dto.OK("Order created successfully. The item has been reserved for you."),
		OrderID:      order.ID,
		OrderDetails: dto.NewOrderResponse(*order),
	})
}

// BuyerOrders handles GET /api/orders/buyer/:uid.
func (h *OrderHandler) BuyerOrders(c *gin.Context) {
	h.list(c, h.facade.BuyerOrders)
}

// SellerOrders handles GET /api/orders/seller/:uid.
func (h *OrderHandler) SellerOrders(c *gin.Context) {
	h.list(c, h.facade.SellerOrders)
}

func (h *OrderHandler) list(c *gin.Context, fetch func(context.Context, int64) ([]model.Order, error)) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	orders, err := fetch(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{
		Envelope: dto.OK(""),
		Orders:   dto.NewOrderResponses(orders),
		Count:    len(orders),
	})
}

// Get handles GET /api/orders/:id?user_uid=.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := h.facade.Order(c.Request.Context(), orderID, q.UserUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderDetailResponse{Envelope: dto.OK(""), Order: dto.NewOrderResponse(*order)})
}

type orderAction func(ctx context.Context, orderID, userUID int64) (*model.Order, error)

// Complete handles POST /api/orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	h.act(c, h.facade.CompleteOrder, func(*model.Order, int64) string {
		return "Order marked as completed. The item has been sold successfully!"
	})
}

// RequestCancel handles POST /api/orders/:id/cancel/request.
func (h *OrderHandler) RequestCancel(c *gin.Context) {
	h.act(c, h.facade.RequestCancelOrder, func(o *model.Order, uid int64) string {
		party, _ := o.PartyOf(uid)
		return fmt.Sprintf("Cancellation request submitted. Waiting for %s approval.", party.Counterparty())
	})
}

// AcceptCancel handles POST /api/orders/:id/cancel/accept.
func (h *OrderHandler) AcceptCancel(c *gin.Context) {
	h.act(c, h.facade.AcceptCancelOrder, func(*model.Order, int64) string {
		return "Order has been cancelled. The item is now available for purchase again."
	})
}

// RejectCancel handles POST /api/orders/:id/cancel/reject.
func (h *OrderHandler) RejectCancel(c *gin.Context) {
	h.act(c, h.facade.RejectCancelOrder, func(*model.Order, int64) string {
		return "Cancellation request has been rejected. The order remains active."
	})
}

func (h *OrderHandler) act(c *gin.Context, action orderAction, message func(*model.Order, int64) string) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.OrderActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := action(c.Request.Context(), orderID, req.UserUID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderDetailResponse{
		Envelope: dto.OK(message(order, req.UserUID)),
		Order:    dto.NewOrderResponse(*order),
	})
}
