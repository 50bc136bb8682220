package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"OrderID", []string{"Order", "ID"}},
		{"customer_name", []string{"customer", "name"}},
		{"XMLParser", []string{"XML", "Parser"}},
		{"getHTTPResponse", []string{"get", "HTTP", "Response"}},
		{"order-item_ID", []string{"order", "item", "ID"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"UserID", "user_id"},
		{"ID", "id"},
		{"CreatedAt", "created_at"},
		{"IsActive", "is_active"},
		{"HTTPServer", "http_server"},
		{"Coeff", "coeff"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Snake(tt.input))
		})
	}
}

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user_id", "UserID"},
		{"id", "ID"},
		{"is_active", "IsActive"},
		{"reg_time", "RegTime"},
		{"user", "User"},
		{"api_url", "APIURL"},
		{"payment", "Payment"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pascal(tt.input))
		})
	}
}

func TestPascalSnakeRoundTrip(t *testing.T) {
	for _, column := range []string{"id", "level", "nickname", "is_active", "coeff", "reg_time", "birthday", "signature", "balance", "user_id"} {
		assert.Equal(t, column, Snake(Pascal(column)), column)
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "users", Plural("User"))
	assert.Equal(t, "user_accounts", Plural("UserAccount"))
	assert.Equal(t, "categories", Plural("Category"))
}

func TestTypeName(t *testing.T) {
	tests := map[string]string{
		"user":          "User",
		"users":         "User",
		"User":          "User",
		"user_accounts": "UserAccount",
		"UserAccount":   "UserAccount",
		"payment":       "Payment",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, TypeName(input), input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "orderid", Normalize("OrderID"))
	assert.Equal(t, "orderid", Normalize("order_id"))
	assert.Equal(t, "orderid", Normalize("orderId"))
}
