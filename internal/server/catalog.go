package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) RefreshCatalog(c *gin.Context) {
	summary, err := s.catalogSvc.Refresh(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.CatalogRefreshes.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

type enhanceRequest struct {
	Force     bool  `json:"force"`
	ProductID int64 `json:"product_id"`
}

func (s *Server) EnhanceCatalog(c *gin.Context) {
	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}

	if req.ProductID != 0 {
		if err := s.extractionSvc.EnhanceProduct(c.Request.Context(), req.ProductID); err != nil {
			AbortWithError(c, err)
			return
		}
		if s.metrics != nil {
			s.metrics.AttributeExtracts.Inc()
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"product_id": req.ProductID}})
		return
	}

	summary, err := s.extractionSvc.EnhanceAll(c.Request.Context(), req.Force)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if s.metrics != nil {
		s.metrics.AttributeExtracts.Add(float64(summary.Extracted))
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
