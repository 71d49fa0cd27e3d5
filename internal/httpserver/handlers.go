package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopcart/internal/domain"
	"shopcart/internal/importer"
	"shopcart/internal/service/shop"
)

type handlers struct {
	svc    ShopService
	logger *zap.Logger
}

func (h *handlers) snapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context(), shopKeyFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, snap)
}

// listProducts filters by ?search=, falling back to the stored search term.
func (h *handlers) listProducts(c *gin.Context) {
	ctx := c.Request.Context()
	shopKey := shopKeyFrom(c)
	term, ok := c.GetQuery("search")
	if !ok {
		prefs, err := h.svc.Preferences(ctx, shopKey)
		if err != nil {
			fail(c, h.logger, err)
			return
		}
		term = prefs.SearchTerm
	}
	products, err := h.svc.Products(ctx, shopKey, term)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.svc.Product(c.Request.Context(), shopKeyFrom(c), c.Param("productID"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, p)
}

func (h *handlers) createProduct(c *gin.Context) {
	var in domain.Product
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product body")
		return
	}
	created, err := h.svc.AddProduct(c.Request.Context(), shopKeyFrom(c), in)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusCreated, created)
}

func (h *handlers) updateProduct(c *gin.Context) {
	var in domain.ProductUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product update body")
		return
	}
	updated, err := h.svc.UpdateProduct(c.Request.Context(), shopKeyFrom(c), c.Param("productID"), in)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, updated)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), shopKeyFrom(c), c.Param("productID")); err != nil {
		fail(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) stockStatus(c *gin.Context) {
	status, err := h.svc.StockStatus(c.Request.Context(), shopKeyFrom(c), c.Param("productID"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, status)
}

// importProducts accepts a CSV body.
func (h *handlers) importProducts(c *gin.Context) {
	imp := importer.NewCSVImporter(c.Request.Body, h.svc, shopKeyFrom(c), h.svc.Limits())
	res, err := imp.Run(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, res)
}

func (h *handlers) getCart(c *gin.Context) {
	v, err := h.svc.Cart(c.Request.Context(), shopKeyFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, v)
}

func (h *handlers) updateCart(c *gin.Context) {
	var in shop.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid cart update body")
		return
	}
	v, err := h.svc.UpdateCart(c.Request.Context(), shopKeyFrom(c), in)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, v)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var in addItemRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.ProductID == "" {
		badRequest(c, "productId required")
		return
	}
	ctx := c.Request.Context()
	shopKey := shopKeyFrom(c)
	var (
		v   shop.CartView
		err error
	)
	if in.Quantity > 1 {
		v, err = h.svc.UpdateCart(ctx, shopKey, shop.UpdateInput{Actions: []shop.UpdateAction{
			{Action: "addLineItem", ProductID: in.ProductID, Quantity: in.Quantity},
		}})
	} else {
		v, err = h.svc.AddToCart(ctx, shopKey, in.ProductID)
	}
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, v)
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *handlers) updateCartItem(c *gin.Context) {
	var in quantityRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Quantity == nil {
		badRequest(c, "quantity required")
		return
	}
	v, err := h.svc.UpdateQuantity(c.Request.Context(), shopKeyFrom(c), c.Param("productID"), *in.Quantity)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, v)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	v, err := h.svc.RemoveFromCart(c.Request.Context(), shopKeyFrom(c), c.Param("productID"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, v)
}

type couponCodeRequest struct {
	Code string `json:"code"`
}

func (h *handlers) applyCoupon(c *gin.Context) {
	var in couponCodeRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Code == "" {
		badRequest(c, "code required")
		return
	}
	v, err := h.svc.ApplyCoupon(c.Request.Context(), shopKeyFrom(c), in.Code)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, v)
}

func (h *handlers) clearCoupon(c *gin.Context) {
	v, err := h.svc.ClearCoupon(c.Request.Context(), shopKeyFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, v)
}

func (h *handlers) listCoupons(c *gin.Context) {
	coupons, err := h.svc.Coupons(c.Request.Context(), shopKeyFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, coupons)
}

func (h *handlers) createCoupon(c *gin.Context) {
	var in domain.Coupon
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid coupon body")
		return
	}
	if in.DiscountType != domain.DiscountAmount && in.DiscountType != domain.DiscountPercentage {
		badRequest(c, "discountType must be amount or percentage")
		return
	}
	created, err := h.svc.AddCoupon(c.Request.Context(), shopKeyFrom(c), in)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusCreated, created)
}

func (h *handlers) updateCoupon(c *gin.Context) {
	var in domain.CouponUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid coupon update")
		return
	}
	if in.DiscountType != nil && *in.DiscountType != domain.DiscountAmount && *in.DiscountType != domain.DiscountPercentage {
		badRequest(c, "discountType must be amount or percentage")
		return
	}
	updated, err := h.svc.UpdateCoupon(c.Request.Context(), shopKeyFrom(c), c.Param("code"), in)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, updated)
}

func (h *handlers) deleteCoupon(c *gin.Context) {
	if err := h.svc.DeleteCoupon(c.Request.Context(), shopKeyFrom(c), c.Param("code")); err != nil {
		fail(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) completeOrder(c *gin.Context) {
	conf, err := h.svc.CompleteOrder(c.Request.Context(), shopKeyFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusCreated, conf)
}

func (h *handlers) getPreferences(c *gin.Context) {
	prefs, err := h.svc.Preferences(c.Request.Context(), shopKeyFrom(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, prefs)
}

func (h *handlers) setPreferences(c *gin.Context) {
	var in domain.Preferences
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid preferences body")
		return
	}
	if err := h.svc.SetPreferences(c.Request.Context(), shopKeyFrom(c), in); err != nil {
		fail(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, in)
}
