package routes_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/pkg/app"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

type env struct {
	*testkit.Client
	handler http.Handler
	db      *gorm.DB
	disk    *storage.LocalDisk
	hub     *ws.Hub
}

func writeFile(t *testing.T, root, name, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func setup(t *testing.T) *env {
	t.Helper()
	gw, db := testkit.Gateway(t)
	disk := testkit.Disk(t)
	require.NoError(t, db.Create(&models.Admin{Username: "admin", Password: "s3cret"}).Error)

	content := t.TempDir()
	writeFile(t, content, "Intro-Html/intro.html", "<h1>intro</h1>")
	writeFile(t, content, "Admin-Html/admin.html", "<h1>admin</h1>")
	writeFile(t, content, "shop.html", "<h1>shop</h1>")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go hub.Run(ctx)

	api, err := routes.New(routes.Deps{
		Gateway:     gw,
		Disk:        disk,
		Feed:        hub,
		ContentRoot: content,
		UploadRoot:  disk.Root(),
	})
	require.NoError(t, err)

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	h := app.New().
		Sessions(store, session.Options{CookieName: "sid", TTL: time.Hour, Path: "/"}).
		Routes(api.Register).
		Handler()

	return &env{Client: testkit.NewClient(t, h), handler: h, db: db, disk: disk, hub: hub}
}

func (e *env) login(t *testing.T) {
	t.Helper()
	res := e.JSON(http.MethodPost, "/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	assert.Equal(t, "admin", res.Map(t)["username"])
}

func (e *env) product(t *testing.T, name string, price float64) uint {
	t.Helper()
	res := e.Multipart(http.MethodPost, "/products", map[string]string{
		"name": name, "price": fmt.Sprint(price),
	})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var p models.Product
	res.Decode(t, &p)
	return p.ID
}

func order(productID uint, qty int) map[string]any {
	return map[string]any{
		"product_id":       productID,
		"customer_name":    "Sara",
		"customer_phone":   "0100",
		"customer_address": "1 Main St",
		"quantity":         qty,
		"color":            "red",
	}
}

func TestLogin_WrongPasswordKeepsGateClosed(t *testing.T) {
	e := setup(t)

	res := e.JSON(http.MethodPost, "/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "wrong password", res.Map(t)["error"])

	res = e.JSON(http.MethodPost, "/login", map[string]string{"username": "ghost", "password": "s3cret"})
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "user not found", res.Map(t)["error"])

	res = e.JSON(http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Status)

	res = e.Page("/orders")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.True(t, strings.HasPrefix(string(res.Body), "<h2>"))
}

func TestLogin_BrowserFormGetsAdminPage(t *testing.T) {
	e := setup(t)

	res := e.Form("/login", url.Values{"username": {"admin"}, "password": {"bad"}})
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "<h2>wrong password</h2>", string(res.Body))

	res = e.Form("/login", url.Values{"username": {"admin"}, "password": {"s3cret"}})
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "<h1>admin</h1>", string(res.Body))

	assert.Equal(t, http.StatusOK, e.JSON(http.MethodGet, "/orders", nil).Status)
}

func TestLogout(t *testing.T) {
	e := setup(t)
	e.login(t)
	require.Equal(t, http.StatusOK, e.JSON(http.MethodGet, "/orders", nil).Status)

	res := e.JSON(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, http.StatusUnauthorized, e.JSON(http.MethodGet, "/orders", nil).Status)
}

func TestCategories(t *testing.T) {
	e := setup(t)

	res := e.JSON(http.MethodPost, "/categories", map[string]string{"name": "Hats"})
	assert.Equal(t, http.StatusUnauthorized, res.Status)

	e.login(t)
	res = e.JSON(http.MethodPost, "/categories", map[string]string{})
	require.Equal(t, http.StatusBadRequest, res.Status)
	body := res.Map(t)
	assert.Equal(t, "The name field is required.", body["error"])
	assert.Contains(t, body["errors"], "name")

	ids := map[string]float64{}
	for _, n := range []string{"Scarves", "Bags", "Hats"} {
		res = e.JSON(http.MethodPost, "/categories", map[string]string{"name": n})
		require.Equal(t, http.StatusOK, res.Status)
		ids[n] = res.Map(t)["id"].(float64)
	}

	res = e.JSON(http.MethodPut, fmt.Sprintf("/categories/%d", int(ids["Hats"])), map[string]string{"name": "Caps"})
	assert.Equal(t, http.StatusOK, res.Status)
	res = e.JSON(http.MethodDelete, fmt.Sprintf("/categories/%d", int(ids["Scarves"])), nil)
	assert.Equal(t, http.StatusOK, res.Status)

	var list []models.Category
	e.JSON(http.MethodGet, "/categories", nil).Decode(t, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Bags", list[0].Name)
	assert.Equal(t, "Caps", list[1].Name)

	res = e.JSON(http.MethodPut, "/categories/abc", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestProducts_UploadsAndListing(t *testing.T) {
	e := setup(t)
	e.login(t)

	res := e.JSON(http.MethodPost, "/categories", map[string]string{"name": "Knits"})
	catID := int(res.Map(t)["id"].(float64))

	res = e.Multipart(http.MethodPost, "/products",
		map[string]string{"name": "Scarf", "price": "12.5", "category_id": fmt.Sprint(catID), "colors": "red", "sizes": ""},
		testkit.File{Field: "images", Name: "front.png", Data: []byte("front")},
		testkit.File{Field: "images", Name: "back.jpg", Data: []byte("back")},
		testkit.File{Field: "images", Name: "side.gif", Data: []byte("side")},
	)
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	var created models.Product
	res.Decode(t, &created)
	require.Len(t, created.Images, 3)
	assert.Equal(t, created.Images[0], *created.Image)
	assert.Equal(t, ".png", path.Ext(created.Images[0]))
	assert.Equal(t, ".gif", path.Ext(created.Images[2]))
	assert.Nil(t, created.Sizes)
	assert.Len(t, testkit.Files(t, e.disk), 3)

	served := e.Page(created.Images[1])
	assert.Equal(t, http.StatusOK, served.Status)
	assert.Equal(t, "back", string(served.Body))

	var rows []map[string]any
	e.JSON(http.MethodGet, "/products", nil).Decode(t, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Knits", rows[0]["category_name"])
	assert.Len(t, rows[0]["images"], 3)

	res = e.JSON(http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Scarf", res.Map(t)["name"])

	res = e.JSON(http.MethodGet, "/products/999", nil)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "product not found", res.Map(t)["error"])
}

func TestProducts_Validation(t *testing.T) {
	e := setup(t)
	e.login(t)

	res := e.Multipart(http.MethodPost, "/products", map[string]string{"name": "Scarf", "price": "cheap"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Contains(t, res.Map(t)["errors"], "price")

	res = e.JSON(http.MethodPost, "/products", map[string]any{"price": 3})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Contains(t, res.Map(t)["errors"], "name")

	files := make([]testkit.File, storage.MaxUploads+1)
	for i := range files {
		files[i] = testkit.File{Field: "images", Name: fmt.Sprintf("%d.png", i), Data: []byte("x")}
	}
	res = e.Multipart(http.MethodPost, "/products", map[string]string{"name": "Scarf", "price": "1"}, files...)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Empty(t, testkit.Files(t, e.disk))

	res = e.JSON(http.MethodPost, "/products", map[string]any{"name": "Scarf", "price": 3, "category_id": "none"})
	require.Equal(t, http.StatusOK, res.Status)
	assert.Nil(t, res.Map(t)["category_id"])
}

func TestProducts_UpdateKeepsImagesWithoutUploads(t *testing.T) {
	e := setup(t)
	e.login(t)

	res := e.Multipart(http.MethodPost, "/products", map[string]string{"name": "Bag", "price": "20"},
		testkit.File{Field: "images", Name: "a.png", Data: []byte("a")})
	var created models.Product
	res.Decode(t, &created)

	res = e.JSON(http.MethodPut, fmt.Sprintf("/products/%d", created.ID), map[string]any{"description": "roomy"})
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))

	var got models.Product
	e.JSON(http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil).Decode(t, &got)
	assert.Equal(t, "Bag", got.Name)
	assert.InDelta(t, 20.0, got.Price, 1e-9)
	assert.Equal(t, created.Images, got.Images)
	require.NotNil(t, got.Description)
	assert.Equal(t, "roomy", *got.Description)

	res = e.JSON(http.MethodPut, "/products/999", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, res.Status)
}

func TestCategoryDeleteKeepsProducts(t *testing.T) {
	e := setup(t)
	e.login(t)

	res := e.JSON(http.MethodPost, "/categories", map[string]string{"name": "Knits"})
	catID := int(res.Map(t)["id"].(float64))
	res = e.JSON(http.MethodPost, "/products", map[string]any{"name": "Scarf", "price": 5, "category_id": catID})
	prodID := int(res.Map(t)["id"].(float64))

	require.Equal(t, http.StatusOK, e.JSON(http.MethodDelete, fmt.Sprintf("/categories/%d", catID), nil).Status)

	body := e.JSON(http.MethodGet, fmt.Sprintf("/products/%d", prodID), nil).Map(t)
	assert.EqualValues(t, catID, body["category_id"])
}

func TestOrders_Flow(t *testing.T) {
	e := setup(t)
	e.login(t)
	scarf := e.product(t, "Scarf", 50)
	hat := e.product(t, "Hat", 10)

	res := e.JSON(http.MethodPost, "/orders", order(scarf, 3))
	require.Equal(t, http.StatusOK, res.Status, string(res.Body))
	placed := res.Map(t)
	assert.InDelta(t, 150.0, placed["total_price"], 1e-9)
	assert.InDelta(t, 50.0, placed["product_price"], 1e-9)
	assert.Equal(t, "pending", placed["status"])
	assert.Equal(t, "Scarf", placed["product_name"])
	scarfOrder := int(placed["order_id"].(float64))

	res = e.JSON(http.MethodPost, "/orders", order(hat, 1))
	require.Equal(t, http.StatusOK, res.Status)
	hatOrder := int(res.Map(t)["order_id"].(float64))

	res = e.JSON(http.MethodPost, "/orders", order(999, 1))
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "product not found", res.Map(t)["error"])

	res = e.JSON(http.MethodPost, "/orders", order(scarf, 0))
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Contains(t, res.Map(t)["errors"], "quantity")

	require.Equal(t, http.StatusOK, e.JSON(http.MethodDelete, fmt.Sprintf("/products/%d", hat), nil).Status)

	var rows []map[string]any
	e.JSON(http.MethodGet, "/orders", nil).Decode(t, &rows)
	require.Len(t, rows, 2)
	assert.EqualValues(t, hatOrder, rows[0]["id"])
	assert.Equal(t, models.DeletedProductName, rows[0]["product_name"])
	assert.Equal(t, "Scarf", rows[1]["product_name"])
	assert.Equal(t, "red", rows[1]["customer_color"])

	for range 2 {
		res = e.JSON(http.MethodPut, fmt.Sprintf("/orders/%d/confirm", scarfOrder), nil)
		assert.Equal(t, http.StatusOK, res.Status)
	}
	e.JSON(http.MethodGet, "/orders", nil).Decode(t, &rows)
	assert.Equal(t, "confirmed", rows[1]["status"])

	require.Equal(t, http.StatusOK, e.JSON(http.MethodDelete, fmt.Sprintf("/orders/%d", hatOrder), nil).Status)
	e.JSON(http.MethodGet, "/orders", nil).Decode(t, &rows)
	assert.Len(t, rows, 1)
}

func TestOrders_PublicCheckout(t *testing.T) {
	e := setup(t)
	e.login(t)
	scarf := e.product(t, "Scarf", 50)

	shopper := testkit.NewClient(t, e.handler)
	res := shopper.JSON(http.MethodPost, "/orders", order(scarf, 2))
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, http.StatusUnauthorized, shopper.JSON(http.MethodGet, "/orders", nil).Status)
	assert.Equal(t, http.StatusOK, e.JSON(http.MethodGet, "/orders", nil).Status)
}

func TestOrderFeed(t *testing.T) {
	e := setup(t)

	wsURL := "ws" + strings.TrimPrefix(e.URL(), "http") + "/orders/feed"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	e.login(t)
	scarf := e.product(t, "Scarf", 50)

	dialer := websocket.Dialer{Jar: e.Jar(), HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return e.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusOK, e.JSON(http.MethodPost, "/orders", order(scarf, 3)).Status)

	var msg map[string]any
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "order.created", msg["event"])
	assert.InDelta(t, 150.0, msg["total_price"], 1e-9)
}

func TestStaticSurface(t *testing.T) {
	e := setup(t)

	res := e.Page("/")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "<h1>intro</h1>", string(res.Body))

	assert.Equal(t, "<h1>shop</h1>", string(e.Page("/shop.html").Body))
	assert.Equal(t, http.StatusNotFound, e.Page("/missing.html").Status)

	res = e.Page("/Admin-Html/admin.html")
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, http.StatusUnauthorized, e.Page("/admin-html/admin.html").Status)

	e.login(t)
	res = e.Page("/Admin-Html/admin.html")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "<h1>admin</h1>", string(res.Body))
}

func TestGraphQLCatalogue(t *testing.T) {
	e := setup(t)
	e.login(t)
	e.JSON(http.MethodPost, "/categories", map[string]string{"name": "Knits"})
	scarf := e.product(t, "Scarf", 12.5)

	res := e.JSON(http.MethodPost, "/graphql", map[string]string{
		"query": fmt.Sprintf(`{ categories { name } products { name price images } product(id: %d) { name } }`, scarf),
	})
	require.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"data":{
		"categories":[{"name":"Knits"}],
		"products":[{"name":"Scarf","price":12.5,"images":[]}],
		"product":{"name":"Scarf"}
	}}`, string(res.Body))
}

func TestProducts_NonFinitePriceRejected(t *testing.T) {
	e := setup(t)
	e.login(t)
	scarf := e.product(t, "Scarf", 10)

	for _, price := range []string{"Infinity", "NaN", "inf", "-Inf"} {
		res := e.Multipart(http.MethodPost, "/products", map[string]string{"name": "Bad", "price": price})
		assert.Equal(t, http.StatusBadRequest, res.Status, price)
		assert.Equal(t, "The price field must be a number.", res.Map(t)["error"], price)

		res = e.JSON(http.MethodPut, fmt.Sprintf("/products/%d", scarf), map[string]string{"price": price})
		assert.Equal(t, http.StatusBadRequest, res.Status, price)
	}

	var rows []models.ProductRow
	res := e.JSON(http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, res.Status)
	res.Decode(t, &rows)
	require.Len(t, rows, 1)
	assert.InDelta(t, 10.0, rows[0].Price, 1e-9)

	var one models.Product
	e.JSON(http.MethodGet, fmt.Sprintf("/products/%d", scarf), nil).Decode(t, &one)
	assert.Equal(t, "Scarf", one.Name)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// linesSince decodes the JSON log lines written after offset.
func (b *lockedBuffer) linesSince(t *testing.T, offset int) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()[offset:]))
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

// logs captures everything the package's tests log.
var logs lockedBuffer

func TestMain(m *testing.M) {
	logger.L = slog.New(slog.NewJSONHandler(&logs, nil))
	os.Exit(m.Run())
}

func TestAdminActionsLogUsername(t *testing.T) {
	start := logs.Len()
	e := setup(t)
	e.login(t)
	scarf := e.product(t, "Scarf", 50)
	res := e.JSON(http.MethodPost, "/orders", order(scarf, 1))
	orderID := int(res.Map(t)["order_id"].(float64))

	require.Equal(t, http.StatusOK, e.JSON(http.MethodPut, fmt.Sprintf("/orders/%d/confirm", orderID), nil).Status)
	require.Equal(t, http.StatusOK, e.JSON(http.MethodDelete, fmt.Sprintf("/products/%d", scarf), nil).Status)

	byMsg := map[string]map[string]any{}
	for _, l := range logs.linesSince(t, start) {
		byMsg[l["msg"].(string)] = l
	}
	for _, msg := range []string{"product created", "order confirmed", "product deleted"} {
		entry, ok := byMsg[msg]
		require.True(t, ok, msg)
		assert.Equal(t, "admin", entry["username"], msg)
		assert.NotEmpty(t, entry["request_id"], msg)
	}
	assert.EqualValues(t, orderID, byMsg["order confirmed"]["order_id"])
}
