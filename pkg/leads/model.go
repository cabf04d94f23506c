package leads

import "time"

const (
	KindLead = "lead"
	KindDemo = "demo"
)

type Lead struct {
	ID               string    `json:"id"`
	Kind             string    `json:"kind"`
	Nome             string    `json:"nome"`
	Apelido          string    `json:"apelido"`
	Email            string    `json:"email"`
	Empresa          string    `json:"empresa"`
	Unidades         string    `json:"unidades"`
	TiposPropriedade []string  `json:"tipos_propriedade"`
	Funcionalidade   string    `json:"funcionalidade"`
	CreatedAt        time.Time `json:"created_at"`
}

// LeadRequest is the landing page "get started" form.
type LeadRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// DemoRequest is the demo booking form.
type DemoRequest struct {
	FirstName     string   `json:"firstName" binding:"required,max=50"`
	LastName      string   `json:"lastName" binding:"required,max=50"`
	Email         string   `json:"email" binding:"required,email,max=255"`
	CompanyName   string   `json:"companyName" binding:"required,max=100"`
	UnitsManaged  string   `json:"unitsManaged" binding:"required"`
	PropertyTypes []string `json:"propertyTypes" binding:"required,min=1"`
	AIFeature     string   `json:"aiFeature" binding:"required"`
}

func (r LeadRequest) Lead() Lead {
	return Lead{Kind: KindLead, Nome: r.Name, Email: r.Email, TiposPropriedade: []string{}}
}

func (r DemoRequest) Lead() Lead {
	return Lead{
		Kind:             KindDemo,
		Nome:             r.FirstName,
		Apelido:          r.LastName,
		Email:            r.Email,
		Empresa:          r.CompanyName,
		Unidades:         r.UnitsManaged,
		TiposPropriedade: r.PropertyTypes,
		Funcionalidade:   r.AIFeature,
	}
}
