package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/facility-booking-backend/internal/user"
)

// fakeUsers records what the admin handlers pass to the service.
type fakeUsers struct {
	user.Service

	users      map[string]*user.User
	lastFilter user.Filter
	updateID   string
	updateReq  user.UpdateRequest
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) List(_ context.Context, filter user.Filter) ([]*user.User, int, error) {
	f.lastFilter = filter
	var out []*user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (f *fakeUsers) Update(_ context.Context, id string, req user.UpdateRequest) (*user.User, error) {
	f.updateID, f.updateReq = id, req
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	if req.IsAdmin != nil {
		u.IsAdmin = *req.IsAdmin
	}
	return u, nil
}

type adminServer struct {
	router  *gin.Engine
	users   *fakeUsers
	jwt     *auth.JWTManager
	adminID string
	plainID string
}

func newAdminServer(t *testing.T) *adminServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	adminID, plainID := uuid.NewString(), uuid.NewString()
	users := &fakeUsers{users: map[string]*user.User{
		adminID: {ID: adminID, Email: "admin@x.id", FullName: "Admin", IsActive: true, IsAdmin: true},
		plainID: {ID: plainID, Email: "budi@x.id", FullName: "Budi", IsActive: true},
	}}

	onlyAdmin := func(c *gin.Context) {
		if u, ok := users.users[auth.GetUserID(c)]; !ok || !u.IsAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	router := gin.New()
	RegisterRoutes(router.Group("/v1"), NewHandler(users, jwtManager), auth.AuthRequired(jwtManager), onlyAdmin)

	return &adminServer{router: router, users: users, jwt: jwtManager, adminID: adminID, plainID: plainID}
}

func (s *adminServer) do(t *testing.T, callerID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	token, err := s.jwt.GenerateAccessToken(callerID)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newAdminServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/users"},
		{http.MethodGet, "/v1/users/" + s.adminID},
		{http.MethodPatch, "/v1/users/" + s.adminID},
	} {
		w := s.do(t, s.plainID, tc.method, tc.path, map[string]any{})
		assert.Equal(t, http.StatusForbidden, w.Code, tc.method+" "+tc.path)
	}
}

func TestListUsers(t *testing.T) {
	s := newAdminServer(t)

	w := s.do(t, s.adminID, http.MethodGet, "/v1/users?name=budi&is_active=true&page_size=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page response.PageResponse[UserResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 5, page.PageSize)

	assert.Equal(t, "budi", s.users.lastFilter.Name)
	require.NotNil(t, s.users.lastFilter.IsActive)
	assert.True(t, *s.users.lastFilter.IsActive)

	w = s.do(t, s.adminID, http.MethodGet, "/v1/users?phone=0812", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "phone must be E.164")
}

func TestGetUser(t *testing.T) {
	s := newAdminServer(t)

	w := s.do(t, s.adminID, http.MethodGet, "/v1/users/"+s.plainID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "budi@x.id", resp.User.Email)

	w = s.do(t, s.adminID, http.MethodGet, "/v1/users/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, s.adminID, http.MethodGet, "/v1/users/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUser(t *testing.T) {
	s := newAdminServer(t)

	w := s.do(t, s.adminID, http.MethodPatch, "/v1/users/"+s.plainID, map[string]any{"is_admin": true})
	require.Equal(t, http.StatusOK, w.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.User.IsAdmin)

	assert.Equal(t, s.plainID, s.users.updateID)
	require.NotNil(t, s.users.updateReq.IsAdmin)
	assert.Nil(t, s.users.updateReq.FullName, "fields not sent stay nil")
	assert.Nil(t, s.users.updateReq.IsActive)

	w = s.do(t, s.adminID, http.MethodPatch, "/v1/users/"+s.plainID, map[string]any{"phone": "0812"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
