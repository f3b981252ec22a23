package domain

import (
	"strings"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
)

// Classify derives the tri-state coffee type for an offer or a ledger
// snapshot. Precedence, first match wins: explicit "blend" in the title,
// then the extracted tri-state flag, then a conjunction pattern in the
// title, else unknown.
func Classify(parentTitle string, attrs *catalogdomain.AttributeRecord) catalogdomain.CoffeeType {
	lower := strings.ToLower(parentTitle)
	if strings.Contains(lower, "blend") {
		return catalogdomain.CoffeeTypeBlend
	}
	if attrs != nil && attrs.SingleOrigin != catalogdomain.CoffeeTypeUnknown && attrs.SingleOrigin != "" {
		return attrs.SingleOrigin
	}
	if strings.Contains(lower, " and ") || strings.Contains(lower, " & ") {
		return catalogdomain.CoffeeTypeBlend
	}
	return catalogdomain.CoffeeTypeUnknown
}
