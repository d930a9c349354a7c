package shopify

import (
	"testing"

	"github.com/navadeepnaidu7/xeno-fde-backend/pkg/config"
)

func TestNewClientClampsPageSize(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero defaults", 0, 250},
		{"negative defaults", -5, 250},
		{"over cap defaults", 500, 250},
		{"in range kept", 100, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := NewClient(config.ShopifyConfig{PageSize: tc.in})
			if got := client.PageSize(); got != tc.want {
				t.Fatalf("PageSize() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestListOptionsCarryPaginationWindow(t *testing.T) {
	client := NewClient(config.ShopifyConfig{PageSize: 50})

	opts := client.listOptions(1234)
	if opts.SinceId == nil || *opts.SinceId != 1234 {
		t.Fatalf("expected since id 1234, got %v", opts.SinceId)
	}
	if opts.Limit != 50 {
		t.Fatalf("expected limit 50, got %d", opts.Limit)
	}

	opts = client.listOptions(0)
	if opts.SinceId == nil || *opts.SinceId != 0 {
		t.Fatalf("expected explicit zero since id, got %v", opts.SinceId)
	}
}
