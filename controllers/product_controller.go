package controllers

import (
	"net/http"
	"strconv"

	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	catalog  *services.CatalogService
	currency string
}

func NewProductController(catalog *services.CatalogService, currency string) *ProductController {
	return &ProductController{catalog: catalog, currency: currency}
}

func itemViews(items []models.Item, currency string) []models.ItemView {
	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, models.ItemView{Item: item, PriceDisplay: utils.FormatPrice(currency, item.Price)})
	}
	return views
}

// @Summary Get local catalog
// @Description List the local catalog items
// @Tags Products
// @Produce json
// @Success 200 {object} models.ListResponse{data=[]models.ItemView}
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	items, err := ctrl.catalog.ListItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Message: "Products retrieved",
		Data:    itemViews(items, ctrl.currency),
		Total:   len(items),
	})
}

// @Summary Get product by ID
// @Description Get one local catalog item
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response{data=models.ItemView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Success: false, Message: "Invalid product ID"})
		return
	}

	item, err := ctrl.catalog.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Product retrieved",
		Data:    itemViews([]models.Item{*item}, ctrl.currency)[0],
	})
}
