package htmltext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "   ", ""},
		{"plain text", "just text", "just text"},
		{"strips tags", "<p>Floral and <strong>sweet</strong>.</p>", "Floral and sweet ."},
		{"block elements break lines", "<p>First.</p><p>Second.</p>", "First.\nSecond."},
		{"drops script and style", "<p>Keep</p><script>alert(1)</script><style>p{}</style>", "Keep"},
		{"list items", "<ul><li>blueberry</li><li>jasmine</li></ul>", "blueberry\njasmine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Clean(tt.in))
		})
	}
}
