package api

import (
    "context"
    "errors"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"

    "wmsplan/internal/store"
)

// checkedStore is a memory store whose health check is scripted.
type checkedStore struct {
    *store.Memory
    mock.Mock
}

func (c *checkedStore) HealthCheck(ctx context.Context) error {
    return c.Called(ctx).Error(0)
}

func TestReadyReflectsStoreHealth(t *testing.T) {
    s := newTestServer(t)
    cs := &checkedStore{Memory: store.NewMemory()}
    cs.On("HealthCheck", mock.Anything).Return(nil).Once()
    cs.On("HealthCheck", mock.Anything).Return(errors.New("connection refused")).Once()
    s.Store = cs
    h := s.Routes()

    assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/readyz", "", nil).Code)
    rr := do(t, h, http.MethodGet, "/readyz", "", nil)
    assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
    assert.Contains(t, rr.Body.String(), "connection refused")
    cs.AssertExpectations(t)
}
