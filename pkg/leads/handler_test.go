package leads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLeadService struct {
	mock.Mock
}

func (m *mockLeadService) SubmitLead(ctx context.Context, req LeadRequest) (Lead, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(Lead)
	return r, args.Error(1)
}

func (m *mockLeadService) BookDemo(ctx context.Context, req DemoRequest) (Lead, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(Lead)
	return r, args.Error(1)
}

func post(r *gin.Engine, path, body string) int {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestLeadHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(mockLeadService)
	r := gin.New()
	NewLeadHandler(svc).RegisterRoutes(r)
	svc.On("SubmitLead", mock.Anything, LeadRequest{Name: "Rui", Email: "rui@x.pt"}).Return(Lead{ID: "l1"}, nil)
	svc.On("BookDemo", mock.Anything, mock.Anything).Return(Lead{ID: "l2"}, nil)

	require.Equal(t, http.StatusCreated, post(r, "/leads", `{"name":"Rui","email":"rui@x.pt"}`))
	require.Equal(t, http.StatusBadRequest, post(r, "/leads", `{"name":"Rui","email":"not-an-email"}`))

	demo := `{"firstName":"Ana","lastName":"Silva","email":"ana@x.pt","companyName":"Gestão","unitsManaged":"50-100","propertyTypes":["commercial"],"aiFeature":"alerts"}`
	require.Equal(t, http.StatusCreated, post(r, "/leads/demo", demo))
	noTypes := strings.Replace(demo, `["commercial"]`, `[]`, 1)
	require.Equal(t, http.StatusBadRequest, post(r, "/leads/demo", noTypes))
	svc.AssertNumberOfCalls(t, "BookDemo", 1)
}
