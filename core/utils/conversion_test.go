package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blindermanupwork/property-management-automation-sub007/core/utils"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string passthrough", "hello", "hello"},
		{"bytes", []byte("raw"), "raw"},
		{"integral float", float64(2), "2"},
		{"fractional float", 2.5, "2.5"},
		{"bool", true, "true"},
		{"int", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToString(tt.in))
		})
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 7, utils.ToInt(7))
	assert.Equal(t, 7, utils.ToInt(int64(7)))
	assert.Equal(t, 7, utils.ToInt(7.9))
	assert.Equal(t, 7, utils.ToInt(" 7 "))
	assert.Equal(t, 0, utils.ToInt("not a number"))
}

func TestToBool(t *testing.T) {
	truthy := []any{true, 1, int64(1), float64(1), "1", "true", "YES", " yes "}
	for _, v := range truthy {
		assert.True(t, utils.ToBool(v), "%v", v)
	}

	falsy := []any{false, 0, 2, "0", "no", "", nil}
	for _, v := range falsy {
		assert.False(t, utils.ToBool(v), "%v", v)
	}
}
