package server

import (
	"net/http"
	"strings"
	"time"

	ordersdomain "github.com/beanbook/beanbook/internal/orders/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListOrders(c *gin.Context) {
	resp, err := s.ordersSvc.Reconcile(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createOrderRequest struct {
	// Reference resolves via the order resolver; the identity fields
	// record directly. Exactly one of the two shapes is expected.
	Reference string  `json:"reference"`
	ProductID int64   `json:"product_id"`
	VariantID int64   `json:"variant_id"`
	Quantity  int     `json:"quantity"`
	PricePaid float64 `json:"price_paid"`
	OrderDate string  `json:"order_date"`
	Notes     string  `json:"notes"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orderDate, err := parseOrderDate(req.OrderDate)
	if err != nil {
		AbortWithError(c, newValidationError("order_date", "invalid_order_date", "expected YYYY-MM-DD or RFC3339"))
		return
	}

	ctx := c.Request.Context()
	var record ordersdomain.OrderRecord

	if strings.TrimSpace(req.Reference) != "" {
		record, err = s.ordersSvc.ResolveAndRecord(ctx, ordersdomain.ResolvePurchaseRequest{
			Reference: req.Reference,
			Quantity:  req.Quantity,
			OrderDate: orderDate,
			Notes:     req.Notes,
		})
	} else {
		if req.ProductID == 0 || req.VariantID == 0 {
			AbortWithError(c, newValidationError("reference", "missing_reference", "either reference or product_id/variant_id is required"))
			return
		}
		record, err = s.ordersSvc.RecordPurchase(ctx, ordersdomain.RecordPurchaseRequest{
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
			PricePaid: req.PricePaid,
			OrderDate: orderDate,
			Notes:     req.Notes,
		})
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.PurchasesRecorded.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"data": record})
}

func parseOrderDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
