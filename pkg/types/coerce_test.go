package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Type
		wantErr  bool
	}{
		{"boolean", "boolean", BoolType, false},
		{"date", "date", DateType, false},
		{"string", "string", StringType, false},
		{"number", "number", NumberType, false},
		{"unknown name", "integer", 0, true},
		{"empty name", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTypeString_RoundTrip(t *testing.T) {
	for _, typ := range []Type{BoolType, DateType, StringType, NumberType} {
		parsed, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected any
	}{
		{"native true", true, true},
		{"native false", false, false},
		{"int one", 1, true},
		{"int zero", 0, false},
		{"int64 one", int64(1), true},
		{"int64 zero", int64(0), false},
		{"string one", "1", true},
		{"string zero", "0", false},
		{"float one", 1.0, true},
		{"other number", 2, nil},
		{"other string", "yes", nil},
		{"word true", "true", nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceBool(tt.raw))
		})
	}
}

func TestCoerceDate(t *testing.T) {
	now := time.Now()

	t.Run("native date passes through", func(t *testing.T) {
		assert.Equal(t, now, CoerceDate(now))
	})

	t.Run("canonical wire form parses", func(t *testing.T) {
		got := CoerceDate("2024-06-01T12:30:00.000Z")
		require.IsType(t, time.Time{}, got)
		parsed := got.(time.Time)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.June, parsed.Month())
		assert.Equal(t, 12, parsed.Hour())
	})

	t.Run("plain date string parses", func(t *testing.T) {
		got := CoerceDate("2024-06-01")
		require.IsType(t, time.Time{}, got)
	})

	t.Run("epoch milliseconds parse", func(t *testing.T) {
		ms := now.UnixMilli()
		got := CoerceDate(ms)
		require.IsType(t, time.Time{}, got)
		assert.Equal(t, ms, got.(time.Time).UnixMilli())
	})

	t.Run("garbage yields nil", func(t *testing.T) {
		assert.Nil(t, CoerceDate("not a date"))
	})

	t.Run("nil yields nil", func(t *testing.T) {
		assert.Nil(t, CoerceDate(nil))
	})
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected any
	}{
		{"native string", "hello", "hello"},
		{"empty string", "", ""},
		{"nil", nil, nil},
		{"number stringified", 42, "42"},
		{"float stringified", 1.5, "1.5"},
		{"bool stringified", true, "true"},
		{"bytes", []byte("raw"), "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceString(tt.raw))
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected any
	}{
		{"float passes", 10.5, 10.5},
		{"int widens", 10, 10.0},
		{"int64 widens", int64(7), 7.0},
		{"numeric string parses", "3.25", 3.25},
		{"bad string yields nil", "ten", nil},
		{"bool yields nil", true, nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceNumber(tt.raw))
		})
	}
}

func TestCoerce_Dispatch(t *testing.T) {
	assert.Equal(t, true, Coerce(BoolType, "1"))
	assert.Equal(t, "5", Coerce(StringType, 5))
	assert.Equal(t, 5.0, Coerce(NumberType, "5"))
	assert.Nil(t, Coerce(DateType, "nope"))
}
