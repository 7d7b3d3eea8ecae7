package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/clients-service/internal/handler"
	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/service"
	"github.com/maxviazov/clients-service/pkg/response"
)

// fakeInvalid replicates aggregated validation error semantics.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

// stubClientService lets each test control the outcome and inspect what reached it.
type stubClientService struct {
	client    model.Client
	clients   []model.Client
	page      service.PageResult
	err       error
	gotID     int64
	gotCreate model.CreateClientInput
	gotUpdate model.UpdateClientInput
	gotQuery  service.ListQuery
	called    bool
}

func (s *stubClientService) Create(_ context.Context, in model.CreateClientInput) (model.Client, error) {
	s.called, s.gotCreate = true, in
	return s.client, s.err
}
func (s *stubClientService) List(context.Context) ([]model.Client, error) {
	s.called = true
	return s.clients, s.err
}
func (s *stubClientService) FindOne(_ context.Context, id int64) (model.Client, error) {
	s.called, s.gotID = true, id
	return s.client, s.err
}
func (s *stubClientService) Update(_ context.Context, id int64, in model.UpdateClientInput) (model.Client, error) {
	s.called, s.gotID, s.gotUpdate = true, id, in
	return s.client, s.err
}
func (s *stubClientService) Remove(_ context.Context, id int64) error {
	s.called, s.gotID = true, id
	return s.err
}
func (s *stubClientService) FindAllPaginated(_ context.Context, q service.ListQuery) (service.PageResult, error) {
	s.called, s.gotQuery = true, q
	return s.page, s.err
}

var _ service.ClientService = (*stubClientService)(nil)

func newRouter(svc service.ClientService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.Register(r, stubPinger{}, svc, zerolog.New(io.Discard))
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorPayload {
	t.Helper()
	var p response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

func TestClientHandler_Create_OK(t *testing.T) {
	stub := &stubClientService{client: model.Client{ID: 1, Name: "Eduardo", Salary: 3500, CompanyValue: 120000}}
	w := do(newRouter(stub), http.MethodPost, "/clients", map[string]any{"name": "Eduardo", "salary": 3500, "companyValue": 120000})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(1), got["id"])
	assert.Equal(t, float64(120000), got["companyValue"])
	assert.Contains(t, got, "createdAt")
	require.NotNil(t, stub.gotCreate.CompanyValue)
	assert.Equal(t, 120000.0, *stub.gotCreate.CompanyValue)
}

func TestClientHandler_Create_ValidationFailure(t *testing.T) {
	stub := &stubClientService{err: &fakeInvalid{fe: []service.FieldError{{Field: "name", Message: "must not be empty"}, {Field: "salary", Message: "must be >= 0"}}}}
	w := do(newRouter(stub), http.MethodPost, "/clients", map[string]any{"name": "", "salary": -1, "companyValue": 1})

	require.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeError(t, w)
	assert.Equal(t, "invalid_input", p.Error)
	assert.Len(t, p.FieldErrors, 2)
}

func TestClientHandler_Create_BadBody(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		wantField string
	}{
		{"wrong type", `{"name":"A","salary":"lots","companyValue":1}`, "salary"},
		{"malformed", `{"name":`, "body"},
		{"empty", ``, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubClientService{}
			w := do(newRouter(stub), http.MethodPost, "/clients", tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			p := decodeError(t, w)
			require.NotEmpty(t, p.FieldErrors)
			assert.Equal(t, tc.wantField, p.FieldErrors[0].Field)
			assert.False(t, stub.called)
		})
	}
}

func TestClientHandler_List(t *testing.T) {
	stub := &stubClientService{clients: []model.Client{{ID: 1, Name: "Eduardo"}, {ID: 2, Name: "Maria"}}}
	w := do(newRouter(stub), http.MethodGet, "/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []model.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestClientHandler_Paginated_ParsesQuery(t *testing.T) {
	stub := &stubClientService{page: service.PageResult{Data: []model.Client{{ID: 3, Name: "Eduardo"}}, Total: 11}}
	w := do(newRouter(stub), http.MethodGet, "/clients/paginated?page=2&limit=5&sort=salary&order=ASC&filterName=edu", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, service.ListQuery{Page: 2, Limit: 5, Sort: "salary", Order: "ASC", NameFilter: "edu"}, stub.gotQuery)
	assert.JSONEq(t, `{"data":[{"id":3,"name":"Eduardo","salary":0,"companyValue":0,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}],"total":11}`, w.Body.String())
}

func TestClientHandler_Paginated_NonNumericFallsBack(t *testing.T) {
	stub := &stubClientService{page: service.PageResult{Data: []model.Client{}}}
	w := do(newRouter(stub), http.MethodGet, "/clients/paginated?page=abc&limit=", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, stub.gotQuery.Page)
	assert.Zero(t, stub.gotQuery.Limit)
}

func TestClientHandler_Paginated_BadSort(t *testing.T) {
	stub := &stubClientService{err: service.ErrInvalidRequest}
	w := do(newRouter(stub), http.MethodGet, "/clients/paginated?sort=password", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", decodeError(t, w).Error)
}

func TestClientHandler_GetByID(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		stub := &stubClientService{client: model.Client{ID: 7, Name: "Ana"}}
		w := do(newRouter(stub), http.MethodGet, "/clients/7", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), stub.gotID)
	})
	t.Run("not found", func(t *testing.T) {
		stub := &stubClientService{err: &service.NotFoundError{ID: 99}}
		w := do(newRouter(stub), http.MethodGet, "/clients/99", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "99")
	})
	t.Run("non numeric id", func(t *testing.T) {
		stub := &stubClientService{}
		w := do(newRouter(stub), http.MethodGet, "/clients/abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "id", decodeError(t, w).FieldErrors[0].Field)
		assert.False(t, stub.called)
	})
}

func TestClientHandler_Update(t *testing.T) {
	stub := &stubClientService{client: model.Client{ID: 1, Name: "Eduardo Atualizado", Salary: 4000}}
	w := do(newRouter(stub), http.MethodPatch, "/clients/1", map[string]any{"salary": 4000})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, stub.gotUpdate.Salary)
	assert.Equal(t, 4000.0, *stub.gotUpdate.Salary)
	assert.Nil(t, stub.gotUpdate.Name)
	assert.Nil(t, stub.gotUpdate.CompanyValue)
}

func TestClientHandler_Update_NotFound(t *testing.T) {
	stub := &stubClientService{err: &service.NotFoundError{ID: 5}}
	w := do(newRouter(stub), http.MethodPatch, "/clients/5", map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClientHandler_Delete(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		stub := &stubClientService{}
		w := do(newRouter(stub), http.MethodDelete, "/clients/3", nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Equal(t, int64(3), stub.gotID)
	})
	t.Run("not found", func(t *testing.T) {
		stub := &stubClientService{err: &service.NotFoundError{ID: 3}}
		w := do(newRouter(stub), http.MethodDelete, "/clients/3", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("store failure", func(t *testing.T) {
		stub := &stubClientService{err: service.ErrInvalidRequest}
		w := do(newRouter(stub), http.MethodDelete, "/clients/3", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
