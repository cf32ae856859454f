package testkit_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

func TestDB_IsMigrated(t *testing.T) {
	db := testkit.DB(t)
	for _, table := range []string{"admin", "categories", "products", "orders"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	require.NoError(t, db.Create(&models.Category{Name: "Knits"}).Error)
}

func TestDB_Isolated(t *testing.T) {
	a, b := testkit.DB(t), testkit.DB(t)
	require.NoError(t, a.Create(&models.Category{Name: "Knits"}).Error)

	var n int64
	require.NoError(t, b.Model(&models.Category{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClient_KeepsCookies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
	})
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("sid")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"sid":"` + c.Value + `"}`))
	})

	c := testkit.NewClient(t, mux)
	c.JSON(http.MethodGet, "/set", nil)
	res := c.JSON(http.MethodGet, "/get", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "abc", res.Map(t)["sid"])
}
