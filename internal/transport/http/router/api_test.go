package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookstore-api/internal/core/auth"
	"bookstore-api/internal/core/config"
	"bookstore-api/internal/core/database/dbtest"
	"bookstore-api/internal/repo"
	"bookstore-api/internal/service"
	resp "bookstore-api/internal/transport/http/response"
)

const seedPassword = "P@ssw0rd-for-tests"

type memDenylist map[string]time.Time

func (m memDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	m[jti] = until
	return nil
}

func (m memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m[jti]
	return ok, nil
}

type harness struct {
	t *testing.T
	r *gin.Engine
}

func newHarness(t *testing.T, dl auth.Denylist) *harness {
	t.Helper()
	db := dbtest.Open(t)
	require.NoError(t, service.Seed(context.Background(), repo.NewUserRepo(db), seedPassword, zap.NewNop()))

	r := NewAPIEngine(Deps{
		Log:      zap.NewNop(),
		DB:       db,
		JWT:      &auth.JWTer{Secret: []byte("router-test-secret-0123456789abcdef"), Issuer: "bookstore-test", TTL: 5 * time.Minute},
		Denylist: dl,
		HTTP:     config.HTTP{},
		Mode:     gin.TestMode,
	})
	return &harness{t: t, r: r}
}

func (h *harness) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.r.ServeHTTP(w, req)
	return w
}

func (h *harness) login(username string) string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/users", `{"username":"`+username+`","password":"`+seedPassword+`"}`, "")
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		Token     string `json:"token"`
		ExpiresAt int64  `json:"expiresAt"`
	}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &tok))
	require.NotEmpty(h.t, tok.Token)
	assert.Greater(h.t, tok.ExpiresAt, time.Now().Unix())
	return tok.Token
}

func (h *harness) createAuthor(token, body string) int {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/authors", body, token)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID int `json:"id"`
	}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.ID
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = h.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookstore_http_requests_total")
}

func TestAuthors_CreateThenGet(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login("admin")

	w := h.do(http.MethodPost, "/api/authors", `{"name":"Jane Doe"}`, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := strconv.Itoa(created.ID)
	assert.Equal(t, "/api/authors/"+id, w.Header().Get("Location"))

	w = h.do(http.MethodGet, "/api/authors/"+id, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":`+id+`,"name":"Jane Doe"}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/authors", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":`+id+`,"name":"Jane Doe"}]`, w.Body.String())
}

func TestAuthors_EmptyListIsArray(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(http.MethodGet, "/api/authors", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAuthors_Authorization(t *testing.T) {
	h := newHarness(t, nil)
	customer := h.login("customer1")

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/authors", `{"name":"x"}`, "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/api/authors", `{"name":"x"}`, customer).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodDelete, "/api/authors/1", "", "").Code)
}

func TestAuthors_DeleteMissingIsNotFound(t *testing.T) {
	h := newHarness(t, nil)
	customer := h.login("customer1")

	w := h.do(http.MethodDelete, "/api/authors/999999", "", customer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthors_UpdateAndDelete(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login("admin")
	customer := h.login("customer2")
	id := strconv.Itoa(h.createAuthor(admin, `{"name":"Ursula Le Guin"}`))

	w := h.do(http.MethodPut, "/api/authors/"+id, `{"id":`+id+`,"name":"Ursula K. Le Guin","bio":"Earthsea"}`, customer)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Empty(t, w.Body.String())

	// 同样内容再更新一次仍是 204
	w = h.do(http.MethodPut, "/api/authors/"+id, `{"id":`+id+`,"name":"Ursula K. Le Guin","bio":"Earthsea"}`, admin)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = h.do(http.MethodGet, "/api/authors/"+id, "", "")
	assert.JSONEq(t, `{"id":`+id+`,"name":"Ursula K. Le Guin","bio":"Earthsea"}`, w.Body.String())

	w = h.do(http.MethodPut, "/api/authors/"+id, `{"id":999,"name":"x"}`, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPut, "/api/authors/424242", `{"id":424242,"name":"x"}`, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodDelete, "/api/authors/"+id, "", customer)
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// 删除不是幂等的：第二次 404
	w = h.do(http.MethodDelete, "/api/authors/"+id, "", customer)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/api/authors/"+id, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthors_Validation(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login("admin")

	w := h.do(http.MethodPost, "/api/authors", `{"name":"`+strings.Repeat("a", 101)+`"}`, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"name"`)

	w = h.do(http.MethodPost, "/api/authors", `{"bio":"no name"}`, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/authors/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooks_Lifecycle(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login("admin")
	customer := h.login("customer1")
	authorID := strconv.Itoa(h.createAuthor(admin, `{"name":"Frank Herbert"}`))

	body := `{"title":"Dune","year":1965,"isbn":"978-0441013593","price":9.99,"authorId":` + authorID + `}`
	w := h.do(http.MethodPost, "/api/books", body, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := strconv.Itoa(created.ID)
	assert.Equal(t, "/api/books/"+id, w.Header().Get("Location"))

	// 列表匿名可读，单本需管理员
	w = h.do(http.MethodGet, "/api/books", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Dune"`)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/books/"+id, "", "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/books/"+id, "", customer).Code)

	w = h.do(http.MethodGet, "/api/books/"+id, "", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dune", got["title"])
	assert.Equal(t, "Frank Herbert", got["author"].(map[string]any)["name"])

	update := `{"id":` + id + `,"title":"Dune","year":1965,"isbn":"978-0441013593","price":12.5,"authorId":` + authorID + `}`
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodPut, "/api/books/"+id, update, admin).Code)

	missing := `{"id":987654,"title":"Ghost","isbn":"0","authorId":` + authorID + `}`
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/api/books/987654", missing, admin).Code)

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/api/books/"+id, "", admin).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/books/"+id, "", admin).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/api/books/"+id, "", admin).Code)
}

func TestBooks_UnknownAuthorIsServerError(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login("admin")

	w := h.do(http.MethodPost, "/api/books", `{"title":"Orphan","isbn":"1","authorId":777}`, admin)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body resp.Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, resp.MsgContactAdmin, body.Msg)
}

func TestUsers_LoginRejected(t *testing.T) {
	h := newHarness(t, nil)

	w := h.do(http.MethodPost, "/api/users", `{"username":"admin","password":"wrong-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)
	assert.NotContains(t, w.Body.String(), "wrong-password")
	assert.NotContains(t, w.Body.String(), "token")

	w = h.do(http.MethodPost, "/api/users", `{"username":"nobody","password":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/api/users", `{"username":"admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsers_LogoutWithoutRevocationIsNotMounted(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login("admin")
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPost, "/api/users/logout", "", admin).Code)
}

func TestUsers_Logout(t *testing.T) {
	dl := memDenylist{}
	h := newHarness(t, dl)
	admin := h.login("admin")

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/users/logout", "", "").Code)
	assert.Equal(t, http.StatusNoContent, h.do(http.MethodPost, "/api/users/logout", "", admin).Code)
	assert.Len(t, dl, 1)

	// 已吊销令牌按匿名处理
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/authors", `{"name":"x"}`, admin).Code)
}

func TestAdmin_ListUsers(t *testing.T) {
	h := newHarness(t, nil)
	admin := h.login("admin")
	customer := h.login("customer1")

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/admin/users", "", "").Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/admin/users", "", customer).Code)

	w := h.do(http.MethodGet, "/api/admin/users?limit=2", "", admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Total int64            `json:"total"`
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.EqualValues(t, 3, out.Total)
	assert.Len(t, out.Items, 2)
	assert.NotContains(t, w.Body.String(), "passwordHash")
}

func TestRegistry_Priority(t *testing.T) {
	var order []string
	reg := &Registry{}
	reg.Register(
		prioModule{fakeModule{name: "b", order: &order}, 20},
		fakeModule{name: "z", order: &order},
		prioModule{fakeModule{name: "a", order: &order}, 10},
	)

	gin.SetMode(gin.TestMode)
	reg.MountAllAPI(gin.New().Group("/api"))
	assert.Equal(t, []string{"a", "b", "z"}, order)
}

type fakeModule struct {
	name  string
	order *[]string
}

func (m fakeModule) MountAPI(*gin.RouterGroup) { *m.order = append(*m.order, m.name) }

type prioModule struct {
	fakeModule
	prio int
}

func (m prioModule) Priority() int { return m.prio }
