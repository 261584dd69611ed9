package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront-purchase/internal/domain"
	cartsvc "storefront-purchase/internal/service/cart"
)

type cartHandlers struct {
	carts  *cartsvc.Repository
	logger *log.Logger
}

type cartResponse struct {
	Cart *domain.Cart `json:"cart"`
}

type searchResponse struct {
	Results    []*domain.Cart `json:"results"`
	TotalCount int            `json:"totalCount"`
}

type addItemRequest struct {
	ProductID         string            `json:"productId" binding:"required"`
	Quantity          int               `json:"quantity" binding:"required"`
	Price             *decimal.Decimal  `json:"price"`
	Comment           string            `json:"comment"`
	DynamicProperties map[string]string `json:"dynamicProperties"`
}

type updateItemRequest struct {
	Quantity *int             `json:"quantity"`
	Price    *decimal.Decimal `json:"price"`
	Comment  *string          `json:"comment"`
}

type couponRequest struct {
	Code string `json:"code" binding:"required"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (h *cartHandlers) getByID(c *gin.Context) {
	aggregate, err := h.carts.GetCartByID(c.Request.Context(), c.Param("id"), c.Query("language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse{Cart: aggregate.Cart()})
}

func (h *cartHandlers) getOrCreate(c *gin.Context) {
	aggregate, err := h.carts.GetOrCreate(c.Request.Context(),
		c.Query("name"), c.Query("storeId"), c.Query("userId"),
		c.Query("language"), c.Query("currency"), c.Query("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse{Cart: aggregate.Cart()})
}

func (h *cartHandlers) search(c *gin.Context) {
	criteria := cartsvc.CartSearchCriteria{
		StoreID:    c.Query("storeId"),
		CustomerID: c.Query("customerId"),
		Name:       c.Query("name"),
		Type:       c.Query("type"),
		Currency:   c.Query("currency"),
		Skip:       intQuery(c, "skip", 0),
		Take:       intQuery(c, "take", 20),
	}
	result, err := h.carts.Search(c.Request.Context(), criteria, c.Query("language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response := searchResponse{TotalCount: result.TotalCount, Results: make([]*domain.Cart, 0, len(result.Results))}
	for _, aggregate := range result.Results {
		response.Results = append(response.Results, aggregate.Cart())
	}
	c.JSON(http.StatusOK, response)
}

func (h *cartHandlers) remove(c *gin.Context) {
	if err := h.carts.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *cartHandlers) updateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.UpdateComment(c.Request.Context(), req.Comment)
		return err
	})
}

func (h *cartHandlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.AddItem(c.Request.Context(), cartsvc.NewItem{
			ProductID:         req.ProductID,
			Quantity:          req.Quantity,
			Price:             req.Price,
			Comment:           req.Comment,
			DynamicProperties: req.DynamicProperties,
		})
		return err
	})
}

func (h *cartHandlers) updateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	itemID := c.Param("itemId")
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		ctx := c.Request.Context()
		if req.Price != nil {
			if _, err := aggregate.ChangeItemPrice(ctx, itemID, *req.Price); err != nil {
				return err
			}
		}
		if req.Quantity != nil {
			if _, err := aggregate.ChangeItemQuantity(ctx, itemID, *req.Quantity); err != nil {
				return err
			}
		}
		if req.Comment != nil {
			if _, err := aggregate.ChangeItemComment(ctx, itemID, *req.Comment); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *cartHandlers) removeItem(c *gin.Context) {
	itemID := c.Param("itemId")
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.RemoveItem(c.Request.Context(), itemID)
		return err
	})
}

func (h *cartHandlers) clearItems(c *gin.Context) {
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.Clear(c.Request.Context())
		return err
	})
}

func (h *cartHandlers) addCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.AddCoupon(c.Request.Context(), req.Code)
		return err
	})
}

// removeCoupon drops the coupon named by the code query parameter, or all
// coupons when the parameter is absent.
func (h *cartHandlers) removeCoupon(c *gin.Context) {
	code := c.Query("code")
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.RemoveCoupon(c.Request.Context(), code)
		return err
	})
}

func (h *cartHandlers) addOrUpdateShipment(c *gin.Context) {
	var shipment domain.Shipment
	if err := c.ShouldBindJSON(&shipment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.AddOrUpdateShipment(c.Request.Context(), shipment)
		return err
	})
}

func (h *cartHandlers) removeShipment(c *gin.Context) {
	shipmentID := c.Param("shipmentId")
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.RemoveShipment(c.Request.Context(), shipmentID)
		return err
	})
}

func (h *cartHandlers) addOrUpdatePayment(c *gin.Context) {
	var payment domain.Payment
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.AddOrUpdatePayment(c.Request.Context(), payment)
		return err
	})
}

func (h *cartHandlers) removePayment(c *gin.Context) {
	paymentID := c.Param("paymentId")
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.RemovePayment(c.Request.Context(), paymentID)
		return err
	})
}

func (h *cartHandlers) merge(c *gin.Context) {
	var other domain.Cart
	if err := c.ShouldBindJSON(&other); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutate(c, func(aggregate *cartsvc.Aggregate) error {
		_, err := aggregate.MergeWithCart(c.Request.Context(), &other)
		return err
	})
}

func (h *cartHandlers) availableShippingRates(c *gin.Context) {
	aggregate, err := h.carts.GetCartByID(c.Request.Context(), c.Param("id"), c.Query("language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	rates, err := aggregate.GetAvailableShippingRates(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shippingRates": rates})
}

func (h *cartHandlers) availablePaymentMethods(c *gin.Context) {
	aggregate, err := h.carts.GetCartByID(c.Request.Context(), c.Param("id"), c.Query("language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	methods, err := aggregate.GetAvailablePaymentMethods(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}

// mutate is the shared load-apply-save sequence behind every cart
// mutation route.
func (h *cartHandlers) mutate(c *gin.Context, apply func(*cartsvc.Aggregate) error) {
	ctx := c.Request.Context()
	aggregate, err := h.carts.GetCartByID(ctx, c.Param("id"), c.Query("language"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := apply(aggregate); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.carts.Save(ctx, aggregate); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse{Cart: aggregate.Cart()})
}

func (h *cartHandlers) respondError(c *gin.Context, err error) {
	var refErr *domain.InvalidReferenceError
	var vErr *cartsvc.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCartNotLoaded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrStoreNotFound), errors.Is(err, domain.ErrCurrencyNotRegistered):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &refErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": refErr.Error()})
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error(), "validationFailures": vErr.Failures})
	default:
		h.logger.Printf("cart handler: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	value := c.Query(key)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
