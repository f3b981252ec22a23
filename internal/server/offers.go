package server

import (
	"net/http"
	"strings"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	offersdomain "github.com/beanbook/beanbook/internal/offers/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListOffers(c *gin.Context) {
	var query struct {
		Type      string `form:"type"`
		Unordered bool   `form:"unordered"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	typeFilter, err := parseTypeFilter(query.Type)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	if query.Unordered || typeFilter != offersdomain.TypeFilterAny {
		resp, err := s.offersSvc.UnorderedOffers(ctx, typeFilter)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	resp, err := s.offersSvc.CanonicalOffers(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseTypeFilter(raw string) (catalogdomain.CoffeeType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return offersdomain.TypeFilterAny, nil
	case "single_origin", "single origin":
		return catalogdomain.CoffeeTypeSingleOrigin, nil
	case "blend":
		return catalogdomain.CoffeeTypeBlend, nil
	case "unknown":
		return catalogdomain.CoffeeTypeUnknown, nil
	default:
		return offersdomain.TypeFilterAny, newValidationError("type", "invalid_type", "unknown coffee type filter")
	}
}
