package leads

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"domly/pkg/sendemail"
)

type LeadService interface {
	SubmitLead(ctx context.Context, req LeadRequest) (Lead, error)
	BookDemo(ctx context.Context, req DemoRequest) (Lead, error)
}

type leadService struct {
	repo       LeadRepository
	email      sendemail.EmailService
	salesEmail string
	log        *zap.Logger
}

func NewLeadService(repo LeadRepository, email sendemail.EmailService, salesEmail string, log *zap.Logger) LeadService {
	return &leadService{repo: repo, email: email, salesEmail: salesEmail, log: log}
}

func (s *leadService) SubmitLead(ctx context.Context, req LeadRequest) (Lead, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return s.store(ctx, req.Lead())
}

func (s *leadService) BookDemo(ctx context.Context, req DemoRequest) (Lead, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	return s.store(ctx, req.Lead())
}

func (s *leadService) store(ctx context.Context, l Lead) (Lead, error) {
	created, err := s.repo.CreateLead(ctx, l)
	if err != nil {
		return Lead{}, err
	}
	s.log.Info("lead received", zap.String("lead_id", created.ID), zap.String("kind", created.Kind))
	s.notifySales(created)
	return created, nil
}

// notifySales emails the sales inbox. Failures are logged only; the lead is already stored.
func (s *leadService) notifySales(l Lead) {
	if s.salesEmail == "" {
		return
	}
	subject, plain, htmlBody := salesMessage(l)
	if err := s.email.SendEmail(subject, s.salesEmail, plain, htmlBody); err != nil {
		s.log.Error("sales notification failed", zap.String("lead_id", l.ID), zap.Error(err))
	}
}

func salesMessage(l Lead) (subject, plain, htmlBody string) {
	fields := [][2]string{{"Nome", strings.TrimSpace(l.Nome + " " + l.Apelido)}, {"Email", l.Email}}
	subject = "Novo lead: " + l.Nome
	if l.Kind == KindDemo {
		subject = "Pedido de demo: " + l.Empresa
		fields = append(fields,
			[2]string{"Empresa", l.Empresa},
			[2]string{"Unidades", l.Unidades},
			[2]string{"Tipos de propriedade", strings.Join(l.TiposPropriedade, ", ")},
			[2]string{"Funcionalidade", l.Funcionalidade},
		)
	}

	var p, h strings.Builder
	h.WriteString("<ul>")
	for _, f := range fields {
		fmt.Fprintf(&p, "%s: %s\n", f[0], f[1])
		fmt.Fprintf(&h, "<li><strong>%s:</strong> %s</li>", f[0], html.EscapeString(f[1]))
	}
	h.WriteString("</ul>")
	return subject, p.String(), h.String()
}
