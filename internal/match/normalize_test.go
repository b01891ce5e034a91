package match

import (
	"slices"
	"testing"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OrderID", "orderid"},
		{"order_id", "orderid"},
		{"order-id", "orderid"},
		{"orderId", "orderid"},
		{"ORDERID", "orderid"},
		{"XMLParser", "xmlparser"},
		{"getHTTPResponse", "gethttpresponse"},
		{"string.min.length", "stringminlength"},
		{"", ""},
		{"A", "a"},
		{"order_item-ID", "orderitemid"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := NormalizeIdent(tt.input); result != tt.expected {
				t.Errorf("NormalizeIdent(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeAccessor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"GetName", "name"},
		{"getName", "name"},
		{"SetHTTPClient", "httpclient"},
		{"IsEnabled", "enabled"},
		{"Get", "get"},
		{"Is", "is"},
		{"Issue", "issue"},
		{"Settings", "settings"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := NormalizeAccessor(tt.input); result != tt.expected {
				t.Errorf("NormalizeAccessor(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"OrderID", []string{"order", "id"}},
		{"customerName", []string{"customer", "name"}},
		{"XMLParser", []string{"xml", "parser"}},
		{"map.keys.nullable", []string{"map", "keys", "nullable"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := TokenizeIdent(tt.input); !slices.Equal(result, tt.expected) {
				t.Errorf("TokenizeIdent(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}
