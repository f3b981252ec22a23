package server

import (
	"errors"
	"net/http"

	recommenddomain "github.com/beanbook/beanbook/internal/recommend/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetSpending(c *gin.Context) {
	resp, err := s.recommendSvc.Spending(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateRecommendation(c *gin.Context) {
	resp, err := s.recommendSvc.Recommend(c.Request.Context())
	if err != nil {
		var violation *recommenddomain.ContractViolationError
		if s.metrics != nil && errors.As(err, &violation) {
			s.metrics.ContractViolations.Inc()
		}
		AbortWithError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.Recommendations.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
