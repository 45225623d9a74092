package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yashrajoria/shopping-backend/services/common/errors"

	"github.com/yashrajoria/shopping-backend/services/product-service/models"
	"github.com/yashrajoria/shopping-backend/services/product-service/services"
)

const defaultPageSize = 10

type ProductController struct {
	products    services.ProductService
	maxPageSize int
}

func NewProductController(products services.ProductService, maxPageSize int) *ProductController {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &ProductController{products: products, maxPageSize: maxPageSize}
}

// CreateProduct handles POST /products
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}
	product, err := pc.products.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListProducts handles GET /products?page=&page_size=
func (pc *ProductController) ListProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		apperrors.Respond(c, apperrors.BadRequest("page must be a positive integer"))
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(min(defaultPageSize, pc.maxPageSize))))
	if err != nil || pageSize < 1 || pageSize > pc.maxPageSize {
		apperrors.Respond(c, apperrors.BadRequest(fmt.Sprintf("page_size must be between 1 and %d", pc.maxPageSize)))
		return
	}

	list, err := pc.products.ListProducts(c.Request.Context(), page, pageSize)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetProduct handles GET /products/:product_id
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	product, err := pc.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:product_id
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.BadRequest(err.Error()))
		return
	}
	product, err := pc.products.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:product_id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	if err := pc.products.DeleteProduct(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil || id == 0 {
		apperrors.Respond(c, apperrors.BadRequest("product_id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
