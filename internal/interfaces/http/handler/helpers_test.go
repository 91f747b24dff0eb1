package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/loro/backend/internal/domain/identity"
	"github.com/loro/backend/internal/interfaces/http/dto"
	"github.com/loro/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var (
	testTenant = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testUser   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testBranch = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func principal(role identity.Role) middleware.Principal {
	branch := testBranch
	return middleware.Principal{TenantID: testTenant, UserID: testUser, BranchID: &branch, Role: role}
}

// newEngine returns an engine that authenticates every request as p
func newEngine(p *middleware.Principal) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.RequestIDKey, "req-test")
		if p != nil {
			c.Set(middleware.PrincipalKey, *p)
		}
		c.Next()
	})
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode(t, w)
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}
