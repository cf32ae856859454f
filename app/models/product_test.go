package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestDecodeImages(t *testing.T) {
	cases := []struct {
		name    string
		raw     *string
		primary *string
		want    []string
	}{
		{"list", strp(`["/uploads/a.png","/uploads/b.png"]`), strp("/uploads/a.png"), []string{"/uploads/a.png", "/uploads/b.png"}},
		{"empty list", strp(`[]`), nil, []string{}},
		{"nil blob falls back to primary", nil, strp("/uploads/a.png"), []string{"/uploads/a.png"}},
		{"empty blob falls back to primary", strp(""), strp("/uploads/a.png"), []string{"/uploads/a.png"}},
		{"nothing at all", nil, nil, []string{}},
		{"garbage", strp(`{not json`), strp("/uploads/a.png"), []string{}},
		{"wrong shape", strp(`{"a":1}`), nil, []string{}},
		{"json null", strp(`null`), nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeImages(tc.raw, tc.primary))
		})
	}
}

func TestEncodeImages_NilIsEmptyList(t *testing.T) {
	assert.Equal(t, "[]", EncodeImages(nil))
	assert.Equal(t, `["/uploads/x.jpg"]`, EncodeImages([]string{"/uploads/x.jpg"}))
}

func TestProductRow_JSONShape(t *testing.T) {
	p := ProductRow{
		Product: Product{
			ID:        3,
			Name:      "Scarf",
			Price:     12.5,
			Image:     strp("/uploads/1.png"),
			ImagesRaw: strp(`["/uploads/1.png"]`),
		},
		CategoryName: strp("Knits"),
	}
	p.Expand()

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Knits", out["category_name"])
	assert.Equal(t, []any{"/uploads/1.png"}, out["images"])
	assert.NotContains(t, out, "ImagesRaw")
	assert.Nil(t, out["description"])
}

func TestOrderRow_DisplayName(t *testing.T) {
	assert.Equal(t, DeletedProductName, OrderRow{}.DisplayName())
	assert.Equal(t, "Scarf", OrderRow{ProductName: strp("Scarf")}.DisplayName())
}
