package validation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fakturi-api/internal/application/validation"
)

type line struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type doc struct {
	Company struct {
		EIK string `json:"eik" validate:"required,eik"`
	} `json:"company"`
	Items []line `json:"items" validate:"required,min=1,dive"`
}

func TestValidator_ClavesConNombresJSON(t *testing.T) {
	v := validation.New()
	var d doc
	d.Company.EIK = "12AB"
	d.Items = []line{{Quantity: decimal.NewFromInt(1)}, {Quantity: decimal.Zero}}

	err := v.Struct(d)
	var ve *validation.Error
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "company.eik")
	assert.Contains(t, ve.Fields, "items[1].quantity")
	assert.NotContains(t, ve.Fields, "items[0].quantity")
}

func TestValidator_EIKDe9y13Digitos(t *testing.T) {
	v := validation.New()
	for _, eik := range []string{"123456789", "1234567890123"} {
		var d doc
		d.Company.EIK = eik
		d.Items = []line{{Quantity: decimal.NewFromInt(1)}}
		assert.NoError(t, v.Struct(d), eik)
	}
}

func TestError_FirstYField(t *testing.T) {
	e := validation.Field("client_id", "uno")
	e.Add("client_id", "dos")
	assert.False(t, e.Empty())
	assert.Equal(t, map[string]string{"client_id": "uno"}, e.First())
	assert.Contains(t, e.Error(), "client_id: uno, dos")
}
