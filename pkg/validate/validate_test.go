package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/validate"
)

type orderInput struct {
	ProductID string  `json:"product_id"       validate:"required,integer,gt=0"`
	Name      string  `json:"customer_name"    validate:"required,max=10"`
	Quantity  string  `json:"quantity"         validate:"required,integer,gt=0"`
	Price     string  `json:"price"            validate:"nullable,numeric,gte=0"`
	Status    string  `json:"status"           validate:"nullable,in=pending|confirmed"`
	Notes     *string `json:"customer_notes"   validate:"nullable,max=5"`
	Internal  string
}

func valid() orderInput {
	return orderInput{ProductID: "7", Name: "Sara", Quantity: "3"}
}

func TestStruct_Valid(t *testing.T) {
	assert.Nil(t, validate.Struct(valid()))
	assert.NoError(t, validate.Check(valid()))
	assert.NoError(t, validate.Check(&orderInput{ProductID: "1", Name: "x", Quantity: "1", Price: "0", Status: "confirmed"}))
}

func TestStruct_Required(t *testing.T) {
	errs := validate.Struct(orderInput{Name: "   "})
	require.Len(t, errs, 3)
	assert.Equal(t, "The customer_name field is required.", errs["customer_name"])
	assert.Contains(t, errs, "product_id")
	assert.Contains(t, errs, "quantity")
}

func TestStruct_IntegerAndBounds(t *testing.T) {
	cases := map[string]string{
		"abc": "The quantity field must be an integer.",
		"1.5": "The quantity field must be an integer.",
		"0":   "The quantity must be greater than 0.",
		"-2":  "The quantity must be greater than 0.",
	}
	for qty, want := range cases {
		in := valid()
		in.Quantity = qty
		assert.Equal(t, want, validate.Struct(in)["quantity"], qty)
	}
}

func TestStruct_Nullable(t *testing.T) {
	in := valid()
	in.Price = "free"
	assert.Equal(t, "The price field must be a number.", validate.Struct(in)["price"])

	in.Price = ""
	assert.Nil(t, validate.Struct(in))
}

func TestStruct_InAndMax(t *testing.T) {
	in := valid()
	in.Status = "shipped"
	in.Name = "a very long name"
	long := "abcdefgh"
	in.Notes = &long

	errs := validate.Struct(in)
	assert.Equal(t, "The selected status is invalid.", errs["status"])
	assert.Equal(t, "The customer_name must not exceed 10 characters.", errs["customer_name"])
	assert.Equal(t, "The customer_notes must not exceed 5 characters.", errs["customer_notes"])
}

func TestErrors_FirstIsStable(t *testing.T) {
	errs := validate.Errors{"quantity": "q", "customer_name": "n", "product_id": "p"}
	assert.Equal(t, "n", errs.First())
	assert.Equal(t, "n", errs.Error())

	var err error = validate.Field("name", "The name field is required.")
	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "The name field is required.", verrs["name"])
}

func TestStruct_NonStruct(t *testing.T) {
	assert.Nil(t, validate.Struct(42))
}

func TestStruct_NumericRejectsNonFinite(t *testing.T) {
	for _, price := range []string{"Infinity", "-Inf", "inf", "NaN", "1e400"} {
		in := valid()
		in.Price = price
		assert.Equal(t, "The price field must be a number.", validate.Struct(in)["price"], price)
	}
}
