package controllers

import (
	"net/http"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	sessions *services.SessionService
}

func NewCartController(sessions *services.SessionService) *CartController {
	return &CartController{sessions: sessions}
}

// @Summary Get cart
// @Description Cart items in insertion order with the formatted total
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=models.CartSummary}
// @Router /session/cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved",
		Data:    sess.Store.CartSummary(),
	})
}

// @Summary Add to cart
// @Description Add a local or remote item by id. Adding an id already in the cart changes nothing.
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddToCartRequest true "Item"
// @Success 201 {object} models.Response{data=models.CartSummary}
// @Success 200 {object} models.Response{data=models.CartSummary}
// @Failure 404 {object} models.ErrorResponse
// @Router /session/cart [post]
func (ctrl *CartController) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid request", Error: err.Error()})
		return
	}

	sess := middleware.CurrentSession(c)
	_, added, err := ctrl.sessions.AddToCart(c.Request.Context(), sess, req.ID, req.Source)
	if err != nil {
		respondError(c, err)
		return
	}

	status, message := http.StatusCreated, "Item added to cart"
	if !added {
		status, message = http.StatusOK, "Item already in cart"
	}
	c.JSON(status, models.Response{Success: true, Message: message, Data: sess.Store.CartSummary()})
}
