package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"order-manager/internal/domain"
	"order-manager/internal/orders/service"
)

type fakeService struct {
	createRes service.CreateBulkResult
	createErr error
	pageRes   service.OrderPage
	pageErr   error
	order     domain.Order
	found     bool
	getErr    error

	gotInputs   []domain.OrderInput
	gotStatusID *int
	gotPage     int
	gotLimit    int
}

func (f *fakeService) CreateBulkOrders(_ context.Context, inputs []domain.OrderInput) (service.CreateBulkResult, error) {
	f.gotInputs = inputs
	return f.createRes, f.createErr
}

func (f *fakeService) ListOrders(_ context.Context, statusID *int, page, limit int) (service.OrderPage, error) {
	f.gotStatusID = statusID
	f.gotPage = page
	f.gotLimit = limit
	return f.pageRes, f.pageErr
}

func (f *fakeService) GetOrderByID(context.Context, string) (domain.Order, bool, error) {
	return f.order, f.found, f.getErr
}

func (f *fakeService) HandleStatusChangeBatch(context.Context, []domain.StatusUpdateCommand) (service.BatchResult, error) {
	panic("not used")
}

func newTestRouter(svc service.OrderServiceInterface) http.Handler {
	r := chi.NewRouter()
	New(svc, zap.NewNop()).Register(r)
	return r
}

func TestCreateBulkOrders_Created(t *testing.T) {
	svc := &fakeService{createRes: service.CreateBulkResult{
		Message: "Order dispatched successfully",
		Orders:  []domain.Order{{ID: "a", Name: "pizza", StatusID: domain.StatusReceived}},
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`[{"name":"pizza"},{"name":"soda","recipeName":"lemon"}]`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.gotInputs, 2)
	assert.Equal(t, "pizza", svc.gotInputs[0].Name)
	require.NotNil(t, svc.gotInputs[1].RecipeName)
	assert.Equal(t, "lemon", *svc.gotInputs[1].RecipeName)

	var res service.CreateBulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Order dispatched successfully", res.Message)
}

func TestCreateBulkOrders_InvalidBody(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"name":"pizza"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBulkOrders_MissingName(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`[{"name":""}]`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBulkOrders_InternalFailureIsGeneric(t *testing.T) {
	svc := &fakeService{createErr: errors.New("pq: connection refused")}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`[{"name":"pizza"}]`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The underlying cause must not leak to the caller.
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestListOrders_DefaultsAndFilter(t *testing.T) {
	svc := &fakeService{pageRes: service.OrderPage{Data: []domain.Order{}, Page: 1, Limit: 10}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders?statusId=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.gotPage)
	assert.Equal(t, 10, svc.gotLimit)
	require.NotNil(t, svc.gotStatusID)
	assert.Equal(t, domain.StatusCooking, *svc.gotStatusID)
}

func TestListOrders_RejectsNonPositivePage(t *testing.T) {
	router := newTestRouter(&fakeService{})

	for _, q := range []string{"page=0", "page=-1", "page=abc", "limit=0", "limit=x"} {
		req := httptest.NewRequest(http.MethodGet, "/orders?"+q, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestListOrders_RejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(&fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/orders?statusId=99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderByID_Found(t *testing.T) {
	svc := &fakeService{
		order: domain.Order{ID: "a", Name: "pizza", StatusID: domain.StatusReady, CreatedAt: time.Now()},
		found: true,
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "a", got.ID)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	router := newTestRouter(&fakeService{found: false})

	req := httptest.NewRequest(http.MethodGet, "/orders/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
