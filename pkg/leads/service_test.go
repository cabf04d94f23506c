package leads

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLeadRepository struct {
	mock.Mock
}

func (m *mockLeadRepository) CreateLead(ctx context.Context, l Lead) (Lead, error) {
	args := m.Called(ctx, l)
	r, _ := args.Get(0).(Lead)
	return r, args.Error(1)
}

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendEmail(subject, toEmail, plainTextContent, htmlContent string) error {
	return m.Called(subject, toEmail, plainTextContent, htmlContent).Error(0)
}

func TestLeadService_BookDemo_EmailsSales(t *testing.T) {
	repo := new(mockLeadRepository)
	email := new(mockEmailService)
	svc := NewLeadService(repo, email, "sales@domly.pt", zap.NewNop())
	ctx := context.Background()

	repo.On("CreateLead", ctx, mock.MatchedBy(func(l Lead) bool {
		return l.Kind == KindDemo && l.Nome == "Ana" && l.Empresa == "Gestão <Lda>" && len(l.TiposPropriedade) == 2
	})).Return(Lead{ID: "l1", Kind: KindDemo, Nome: "Ana", Empresa: "Gestão <Lda>"}, nil)
	email.On("SendEmail", "Pedido de demo: Gestão <Lda>", "sales@domly.pt", mock.Anything,
		mock.MatchedBy(func(h string) bool { return !strings.Contains(h, "<Lda>") })).Return(nil)

	l, err := svc.BookDemo(ctx, DemoRequest{FirstName: " Ana ", LastName: "Silva", Email: "ana@x.pt", CompanyName: "Gestão <Lda>",
		UnitsManaged: "50-100", PropertyTypes: []string{"multi-family", "commercial"}, AIFeature: "alerts"})
	require.NoError(t, err)
	require.Equal(t, "l1", l.ID)
	email.AssertExpectations(t)
}

func TestLeadService_EmailFailureIsNotSurfaced(t *testing.T) {
	repo := new(mockLeadRepository)
	email := new(mockEmailService)
	svc := NewLeadService(repo, email, "sales@domly.pt", zap.NewNop())
	ctx := context.Background()
	repo.On("CreateLead", ctx, mock.Anything).Return(Lead{ID: "l2", Kind: KindLead}, nil)
	email.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sendgrid down"))

	l, err := svc.SubmitLead(ctx, LeadRequest{Name: "Rui", Email: "rui@x.pt"})
	require.NoError(t, err)
	require.Equal(t, "l2", l.ID)
}

func TestLeadService_NoSalesInbox(t *testing.T) {
	repo := new(mockLeadRepository)
	email := new(mockEmailService)
	svc := NewLeadService(repo, email, "", zap.NewNop())
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(Lead{ID: "l3"}, nil)

	_, err := svc.SubmitLead(context.Background(), LeadRequest{Name: "Rui", Email: "rui@x.pt"})
	require.NoError(t, err)
	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLeadService_StoreFailure(t *testing.T) {
	repo := new(mockLeadRepository)
	email := new(mockEmailService)
	svc := NewLeadService(repo, email, "sales@domly.pt", zap.NewNop())
	repo.On("CreateLead", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.SubmitLead(context.Background(), LeadRequest{Name: "Rui", Email: "rui@x.pt"})
	require.Error(t, err)
	email.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
