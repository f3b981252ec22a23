package domain

import (
	"testing"

	catalogdomain "github.com/beanbook/beanbook/internal/catalog/domain"
	"github.com/stretchr/testify/require"
)

func TestClassifyPrecedence(t *testing.T) {
	singleOrigin := &catalogdomain.AttributeRecord{SingleOrigin: catalogdomain.CoffeeTypeSingleOrigin}
	unknown := &catalogdomain.AttributeRecord{SingleOrigin: catalogdomain.CoffeeTypeUnknown}

	tests := []struct {
		name  string
		title string
		attrs *catalogdomain.AttributeRecord
		want  catalogdomain.CoffeeType
	}{
		{"title blend beats extracted flag", "Breakfast Blend", singleOrigin, catalogdomain.CoffeeTypeBlend},
		{"extracted flag used when set", "Ethiopia Guji", singleOrigin, catalogdomain.CoffeeTypeSingleOrigin},
		{"conjunction and implies blend", "Brazil and Colombia", unknown, catalogdomain.CoffeeTypeBlend},
		{"conjunction ampersand implies blend", "Brazil & Colombia", nil, catalogdomain.CoffeeTypeBlend},
		{"no signal stays unknown", "Ethiopia Guji", unknown, catalogdomain.CoffeeTypeUnknown},
		{"no attributes stays unknown", "Ethiopia Guji", nil, catalogdomain.CoffeeTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.title, tt.attrs))
		})
	}
}
