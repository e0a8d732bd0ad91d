package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/commerce"
	"storefront/internal/domain"
)

type addLineRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

type updateLineRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, toCartView(s.Engine.State()))
}

func (h *handlers) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	s := currentSession(c)
	h.respond(c, s.Engine, s.Engine.AddToCart(c.Request.Context(), req.VariantID, qty))
}

func (h *handlers) updateLine(c *gin.Context) {
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	s := currentSession(c)
	h.respond(c, s.Engine, s.Engine.UpdateCartItem(c.Request.Context(), c.Param("lineId"), *req.Quantity))
}

func (h *handlers) removeLine(c *gin.Context) {
	s := currentSession(c)
	h.respond(c, s.Engine, s.Engine.RemoveFromCart(c.Request.Context(), c.Param("lineId")))
}

func (h *handlers) refreshCart(c *gin.Context) {
	s := currentSession(c)
	h.respond(c, s.Engine, s.Engine.RefreshCart(c.Request.Context()))
}

func (h *handlers) clearCart(c *gin.Context) {
	s := currentSession(c)
	s.Engine.ClearCart(c.Request.Context())
	c.JSON(http.StatusOK, toCartView(s.Engine.State()))
}

func (h *handlers) notifications(c *gin.Context) {
	s := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"notifications": s.Notices.Drain()})
}

// respond writes the cart state, with a status matching err.
func (h *handlers) respond(c *gin.Context, engine *cart.Engine, err error) {
	view := toCartView(engine.State())
	if err == nil {
		c.JSON(http.StatusOK, view)
		return
	}
	_ = c.Error(err)

	status := http.StatusBadGateway
	var userErrs commerce.UserErrors
	switch {
	case errors.Is(err, cart.ErrInvalidLine):
		status = http.StatusBadRequest
	case errors.As(err, &userErrs):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	message := err.Error()
	var opErr *cart.OpError
	if errors.As(err, &opErr) {
		message = opErr.Kind.Message()
	}
	c.JSON(status, gin.H{"error": message, "cart": view})
}
