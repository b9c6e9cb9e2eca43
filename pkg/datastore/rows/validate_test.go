package rows

import (
	"testing"
	"time"

	"gridstore/pkg/apperr"
	"gridstore/pkg/datastore/schema"
	"gridstore/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ordersSchema() *schema.Schema {
	return schema.New([]schema.Column{
		{Name: "paid", Type: types.BoolType, Position: 0},
		{Name: "total", Type: types.NumberType, Position: 1},
	})
}

func fullSchema() *schema.Schema {
	return schema.New([]schema.Column{
		{Name: "active", Type: types.BoolType, Position: 0},
		{Name: "created", Type: types.DateType, Position: 1},
		{Name: "label", Type: types.StringType, Position: 2},
		{Name: "score", Type: types.NumberType, Position: 3},
	})
}

func TestValidate_EmptySchema(t *testing.T) {
	err := Validate(schema.New(nil), []Row{{"any": 1}})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeEmptySchema))
	assert.Contains(t, err.Error(), "no columns found")
}

func TestValidate_AcceptsTypedBatch(t *testing.T) {
	batch := []Row{
		{"paid": true, "total": 10},
		{"paid": false, "total": 99.5},
		{"paid": nil, "total": nil},
	}

	require.NoError(t, Validate(ordersSchema(), batch))

	// Non-date cells are returned unchanged.
	assert.Equal(t, true, batch[0]["paid"])
	assert.Equal(t, 10, batch[0]["total"])
	assert.Nil(t, batch[2]["paid"])
}

func TestValidate_RewritesDatesToWireForm(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	batch := []Row{
		{"active": true, "created": created, "label": "a", "score": 1},
	}

	require.NoError(t, Validate(fullSchema(), batch))

	assert.Equal(t, "2024-06-01T10:30:00.000Z", batch[0]["created"])
}

func TestValidate_KeyCountMismatch(t *testing.T) {
	tests := []struct {
		name string
		row  Row
	}{
		{"missing key", Row{"paid": true}},
		{"extra key", Row{"paid": true, "total": 1, "ghost": "x"}},
		{"empty row", Row{}},
	}

	s := ordersSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(s, []Row{tt.row})
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeKeyCountMismatch))
			assert.Contains(t, err.Error(), "mismatched key count")
		})
	}
}

func TestValidate_UnknownColumnName(t *testing.T) {
	// Same key count as the schema, but one key is not declared.
	err := Validate(ordersSchema(), []Row{{"paid": true, "ghost": 1}})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnknownColumnKey))
	assert.Contains(t, err.Error(), `"ghost"`)
}

func TestValidate_NilAcceptedForEveryType(t *testing.T) {
	batch := []Row{
		{"active": nil, "created": nil, "label": nil, "score": nil},
	}

	require.NoError(t, Validate(fullSchema(), batch))
}

func TestValidate_StrictTypeChecks(t *testing.T) {
	tests := []struct {
		name string
		row  Row
	}{
		{"string for boolean", Row{"active": "yes", "created": nil, "label": nil, "score": nil}},
		{"one for boolean is rejected on write", Row{"active": 1, "created": nil, "label": nil, "score": nil}},
		{"string for date", Row{"active": nil, "created": "2024-06-01", "label": nil, "score": nil}},
		{"number for string", Row{"active": nil, "created": nil, "label": 42, "score": nil}},
		{"string for number", Row{"active": nil, "created": nil, "label": nil, "score": "10"}},
		{"bool for number", Row{"active": nil, "created": nil, "label": nil, "score": true}},
	}

	s := fullSchema()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(s, []Row{tt.row})
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeTypeMismatch))
		})
	}
}

func TestValidate_MismatchNamesValueAndType(t *testing.T) {
	err := Validate(ordersSchema(), []Row{{"paid": "yes", "total": 10}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "yes")
	assert.Contains(t, err.Error(), "boolean")
}

func TestValidate_FailsFastOnFirstBadRow(t *testing.T) {
	batch := []Row{
		{"paid": true, "total": 1},
		{"paid": "nope", "total": 2},
		{"paid": true, "total": 3},
	}

	err := Validate(ordersSchema(), batch)
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeTypeMismatch))
}

func TestValidate_NumericKinds(t *testing.T) {
	s := ordersSchema()
	for _, v := range []any{1, int32(1), int64(1), uint(1), float32(1.5), 1.5} {
		require.NoError(t, Validate(s, []Row{{"paid": true, "total": v}}))
	}
}
