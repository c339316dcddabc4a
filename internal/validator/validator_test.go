package validator

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type moneyPayload struct {
	Amount float64 `json:"amount" binding:"money"`
}

func TestValidateMoney(t *testing.T) {
	gin.SetMode(gin.TestMode)
	Register()

	cases := []struct {
		name   string
		amount float64
		valid  bool
	}{
		{"whole_number", 100, true},
		{"zero", 0, true},
		{"two_decimals", 19.99, true},
		{"one_decimal", 5.5, true},
		{"three_decimals", 1.999, false},
		{"negative", -1, false},
		{"negative_cents", -0.01, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(moneyPayload{Amount: tc.amount})
			if tc.valid && err != nil {
				t.Errorf("expected %v to be valid, got %v", tc.amount, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("expected %v to be rejected", tc.amount)
			}
		})
	}
}
