package bind_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

type productReq struct {
	Name       bind.Text `json:"name"        validate:"required"`
	Price      bind.Text `json:"price"       validate:"required,numeric"`
	CategoryID bind.Text `json:"category_id"`
	Colors     bind.Text `json:"colors"`
}

func jsonRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestBody_JSONAcceptsNumbersAndNull(t *testing.T) {
	var req productReq
	err := bind.Body(jsonRequest(`{"name":"Scarf","price":12.50,"category_id":null,"colors":"red"}`), &req)
	require.NoError(t, err)

	assert.Equal(t, bind.Text("Scarf"), req.Name)
	assert.Equal(t, bind.Text("12.50"), req.Price)
	assert.True(t, req.CategoryID.Blank())
	assert.Nil(t, req.CategoryID.Ptr())
	require.NotNil(t, req.Colors.Ptr())
	assert.Equal(t, "red", *req.Colors.Ptr())
}

func TestBody_JSONValidation(t *testing.T) {
	var req productReq
	err := bind.Body(jsonRequest(`{"price":"cheap"}`), &req)

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "name")
	assert.Equal(t, "The price field must be a number.", errs["price"])
}

func TestBody_JSONMalformed(t *testing.T) {
	var req productReq
	err := bind.Body(jsonRequest(`{"name":`), &req)

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "body")
}

func TestBody_JSONObjectWhereScalarExpected(t *testing.T) {
	var req productReq
	err := bind.Body(jsonRequest(`{"name":{"en":"Scarf"},"price":1}`), &req)

	var errs validate.Errors
	require.ErrorAs(t, err, &errs)
}

func TestBody_URLEncoded(t *testing.T) {
	form := url.Values{"name": {"Scarf"}, "price": {"9"}}
	r := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var req productReq
	require.NoError(t, bind.Body(r, &req))
	assert.Equal(t, bind.Text("9"), req.Price)
}

func TestBody_MultipartWithFiles(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Scarf"))
	require.NoError(t, mw.WriteField("price", "20"))
	for _, n := range []string{"a.png", "b.png"} {
		fw, err := mw.CreateFormFile("images", n)
		require.NoError(t, err)
		_, _ = fw.Write([]byte(n))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/products", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	var req productReq
	require.NoError(t, bind.Body(r, &req))
	assert.Equal(t, bind.Text("Scarf"), req.Name)

	files := bind.Files(r, "images")
	require.Len(t, files, 2)
	assert.Equal(t, "a.png", files[0].Filename)
	assert.Empty(t, bind.Files(r, "other"))
}

func TestText_UnmarshalAndParse(t *testing.T) {
	var v struct {
		A bind.Text `json:"a"`
		B bind.Text `json:"b"`
		C bind.Text `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":" 3 ","b":true,"c":7}`), &v))

	n, err := v.A.Int()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, bind.Text("true"), v.B)

	f, err := v.C.Float()
	require.NoError(t, err)
	assert.InDelta(t, 7.0, f, 1e-9)
}

func TestText_FloatRejectsNonFinite(t *testing.T) {
	for _, s := range []string{"Infinity", "inf", "NaN", "-Inf"} {
		_, err := bind.Text(s).Float()
		assert.Error(t, err, s)
	}
	f, err := bind.Text(" 12.5 ").Float()
	require.NoError(t, err)
	assert.InDelta(t, 12.5, f, 1e-9)
}
