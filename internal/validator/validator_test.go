package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tekup-dev/coupon-service/internal/model"
)

// TestNew verifies that New() returns a properly configured validator
func TestNew(t *testing.T) {
	v := New()
	require.NotNil(t, v, "New() should return a non-nil validator")
}

// TestNotblankValidator tests the custom notblank validation
func TestNotblankValidator(t *testing.T) {
	v := New()

	type TestStruct struct {
		Code string `validate:"notblank"`
	}

	testCases := []struct {
		name        string
		input       string
		expectError bool
		description string
	}{
		{
			name:        "valid_string",
			input:       "valid",
			expectError: false,
			description: "Normal string should pass",
		},
		{
			name:        "valid_with_spaces",
			input:       "  valid  ",
			expectError: false,
			description: "String with leading/trailing spaces should pass (has content)",
		},
		{
			name:        "whitespace_only_spaces",
			input:       "   ",
			expectError: true,
			description: "Whitespace-only (spaces) should fail",
		},
		{
			name:        "whitespace_only_tabs",
			input:       "\t\t",
			expectError: true,
			description: "Whitespace-only (tabs) should fail",
		},
		{
			name:        "whitespace_mixed",
			input:       " \t\n ",
			expectError: true,
			description: "Mixed whitespace-only should fail",
		},
		{
			name:        "empty_string",
			input:       "",
			expectError: true,
			description: "Empty string should fail (TrimSpace returns empty)",
		},
		{
			name:        "single_char",
			input:       "a",
			expectError: false,
			description: "Single character should pass",
		},
		{
			name:        "unicode_content",
			input:       "日本語",
			expectError: false,
			description: "Unicode content should pass",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := TestStruct{Code: tc.input}
			err := v.Struct(ts)

			if tc.expectError {
				assert.Error(t, err, tc.description)
			} else {
				assert.NoError(t, err, tc.description)
			}
		})
	}
}

// TestCouponRequestValidation exercises the actual request DTO tags.
func TestCouponRequestValidation(t *testing.T) {
	v := New()

	discount := 10.0
	tooHigh := 150.0
	zero := 0.0
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		req         model.CouponRequest
		expectError bool
	}{
		{
			name: "valid",
			req: model.CouponRequest{
				Code: "SAVE10", Discount: &discount, ValidFrom: &from, ValidTo: &to,
			},
			expectError: false,
		},
		{
			name: "missing_code",
			req: model.CouponRequest{
				Discount: &discount, ValidFrom: &from, ValidTo: &to,
			},
			expectError: true,
		},
		{
			name: "whitespace_code",
			req: model.CouponRequest{
				Code: "   ", Discount: &discount, ValidFrom: &from, ValidTo: &to,
			},
			expectError: true,
		},
		{
			name: "missing_discount",
			req: model.CouponRequest{
				Code: "SAVE10", ValidFrom: &from, ValidTo: &to,
			},
			expectError: true,
		},
		{
			name: "zero_discount",
			req: model.CouponRequest{
				Code: "SAVE10", Discount: &zero, ValidFrom: &from, ValidTo: &to,
			},
			expectError: true,
		},
		{
			name: "discount_above_100",
			req: model.CouponRequest{
				Code: "SAVE10", Discount: &tooHigh, ValidFrom: &from, ValidTo: &to,
			},
			expectError: true,
		},
		{
			name: "missing_validity",
			req: model.CouponRequest{
				Code: "SAVE10", Discount: &discount,
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.req)

			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestNotblankOnNonStringField tests that notblank handles non-string fields gracefully
func TestNotblankOnNonStringField(t *testing.T) {
	v := New()

	// notblank on int should pass (returns true for non-string types)
	type TestStructInt struct {
		Value int `validate:"notblank"`
	}

	ts := TestStructInt{Value: 0}
	err := v.Struct(ts)
	assert.NoError(t, err, "notblank should pass for non-string types")
}
