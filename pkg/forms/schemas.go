package forms

import (
	"strconv"
	"strings"

	"domly/pkg/ativos"
	"domly/pkg/client"
	"domly/pkg/condominios"
	"domly/pkg/date"
	"domly/pkg/leads"
	"domly/pkg/manutencoes"
	"domly/pkg/users"
)

type CondominioData struct {
	Nome         string `json:"nome" validate:"required" msg:"Nome é obrigatório"`
	Cidade       string `json:"cidade" validate:"required" msg:"Cidade é obrigatória"`
	Morada       string `json:"morada" validate:"required" msg:"Morada é obrigatória"`
	CodigoPostal string `json:"codigo_postal" validate:"required" msg:"Código postal é obrigatório"`
	NIF          int    `json:"nif" validate:"min=100000000,max=999999999" msg:"NIF inválido"`
	NFracoes     int    `json:"n_fracoes" validate:"min=0"`
	IBAN         string `json:"iban"`
	Banco        string `json:"banco"`
	Seguradora   string `json:"seguradora"`
	Apolice      string `json:"apolice_seguro"`
}

func (d *CondominioData) normalize() {
	d.Nome = strings.TrimSpace(d.Nome)
	d.Cidade = strings.TrimSpace(d.Cidade)
	d.Morada = strings.TrimSpace(d.Morada)
	d.CodigoPostal = strings.TrimSpace(d.CodigoPostal)
}

func (d CondominioData) Input() condominios.Input {
	return condominios.Input{
		Nome: d.Nome, Morada: d.Morada, CodigoPostal: d.CodigoPostal, Cidade: d.Cidade,
		NIF: d.NIF, NFracoes: d.NFracoes, IBAN: d.IBAN, Banco: d.Banco,
		Seguradora: d.Seguradora, ApoliceSeguro: d.Apolice,
	}
}

func NewCondominioForm() *Form[CondominioData] { return New(CondominioData{}) }

// AtivoData mirrors the asset dialog; dates are typed as YYYY-MM-DD text.
type AtivoData struct {
	Nome                 string  `json:"nome" validate:"required,max=100" msg:"Nome é obrigatório (máximo 100 caracteres)"`
	Categoria            string  `json:"categoria" validate:"required" msg:"Categoria é obrigatória"`
	Marca                string  `json:"marca" validate:"required" msg:"Marca é obrigatória"`
	Modelo               string  `json:"modelo" validate:"required" msg:"Modelo é obrigatório"`
	NumSerie             string  `json:"num_serie" validate:"required,numeric" msg:"Nº de série é obrigatório e deve ser um número"`
	DataInstalacao       string  `json:"data_instalacao" validate:"required,datetime=2006-01-02" msg:"Data de instalação é obrigatória"`
	UltimaManutencao     string  `json:"ultima_manutencao" validate:"omitempty,datetime=2006-01-02"`
	FrequenciaManutencao int     `json:"frequencia_manutencao" validate:"min=1" msg:"Mínimo 1 mês"`
	Estado               string  `json:"estado" validate:"required,oneof=excelente bom regular mau" msg:"Selecione o estado do ativo"`
	Descricao            string  `json:"descricao" validate:"required" msg:"Descrição é obrigatória"`
	Valor                float64 `json:"valor" validate:"min=0" msg:"O valor não pode ser negativo"`
	Localizacao          string  `json:"localizacao"`
}

func (d *AtivoData) normalize() {
	d.Nome = strings.TrimSpace(d.Nome)
	d.Categoria = strings.TrimSpace(d.Categoria)
	d.Marca = strings.TrimSpace(d.Marca)
	d.Modelo = strings.TrimSpace(d.Modelo)
	d.NumSerie = strings.TrimSpace(d.NumSerie)
	d.Descricao = strings.TrimSpace(d.Descricao)
}

func optionalDate(s string) *date.Date {
	if s == "" {
		return nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return nil
	}
	return &d
}

// Input converts validated data.
func (d AtivoData) Input() ativos.Input {
	return ativos.Input{
		Nome: d.Nome, Categoria: d.Categoria, Marca: d.Marca, Modelo: d.Modelo,
		NumSerie:             d.NumSerie,
		DataInstalacao:       optionalDate(d.DataInstalacao),
		Estado:               d.Estado,
		Descricao:            d.Descricao,
		Valor:                d.Valor,
		Localizacao:          d.Localizacao,
		UltimaManutencao:     optionalDate(d.UltimaManutencao),
		FrequenciaManutencao: d.FrequenciaManutencao,
	}
}

// NewAtivoForm starts with the default maintenance frequency.
func NewAtivoForm() *Form[AtivoData] {
	return New(AtivoData{FrequenciaManutencao: ativos.DefaultFrequencia})
}

type MaintenanceData struct {
	AtivoID       string  `json:"ativo_id" validate:"required" msg:"Selecione o ativo"`
	Descricao     string  `json:"descricao"`
	DataAgendada  string  `json:"data_agendada" validate:"required,datetime=2006-01-02" msg:"Data agendada é obrigatória"`
	DataConclusao string  `json:"data_conclusao" validate:"omitempty,datetime=2006-01-02"`
	Custo         float64 `json:"custo" validate:"min=0" msg:"O custo não pode ser negativo"`
	Estado        string  `json:"estado" validate:"oneof=pendente concluido"`
	Tipo          string  `json:"tipo" validate:"oneof=preventiva corretiva"`
}

func (d MaintenanceData) Input() manutencoes.Input {
	in := manutencoes.Input{
		AtivoID:       d.AtivoID,
		Descricao:     strings.TrimSpace(d.Descricao),
		DataConclusao: optionalDate(d.DataConclusao),
		Custo:         d.Custo,
		Estado:        d.Estado,
		Tipo:          d.Tipo,
	}
	if s := optionalDate(d.DataAgendada); s != nil {
		in.DataAgendada = *s
	}
	return in
}

// NewMaintenanceForm prefills ativoID when scheduling straight from an asset page.
func NewMaintenanceForm(ativoID string) *Form[MaintenanceData] {
	return New(MaintenanceData{
		AtivoID: ativoID,
		Estado:  manutencoes.EstadoPendente,
		Tipo:    manutencoes.TipoPreventiva,
	})
}

type SignupData struct {
	PrimeiroNome string `json:"primeiro_nome" validate:"required"`
	UltimoNome   string `json:"ultimo_nome" validate:"required"`
	Empresa      string `json:"empresa" validate:"required"`
	Email        string `json:"email" validate:"required,email" msg:"Email inválido"`
	Password     string `json:"password" validate:"min=6" msg:"A password deve ter pelo menos 6 caracteres"`
}

func (d *SignupData) normalize() {
	d.PrimeiroNome = strings.TrimSpace(d.PrimeiroNome)
	d.UltimoNome = strings.TrimSpace(d.UltimoNome)
	d.Empresa = strings.TrimSpace(d.Empresa)
	d.Email = strings.TrimSpace(d.Email)
}

func (d SignupData) Request() client.SignupRequest {
	return client.SignupRequest{
		PrimeiroNome: d.PrimeiroNome, UltimoNome: d.UltimoNome, Empresa: d.Empresa,
		Email: d.Email, Password: d.Password,
	}
}

func NewSignupForm() *Form[SignupData] { return New(SignupData{}) }

type DemoBookingData struct {
	FirstName     string   `json:"firstName" validate:"required,max=50" msg:"First name is required"`
	LastName      string   `json:"lastName" validate:"required,max=50" msg:"Last name is required"`
	Email         string   `json:"email" validate:"required,email,max=255" msg:"Invalid email address"`
	CompanyName   string   `json:"companyName" validate:"required,max=100" msg:"Company name is required"`
	UnitsManaged  string   `json:"unitsManaged" validate:"required" msg:"Please select the number of units"`
	PropertyTypes []string `json:"propertyTypes" validate:"min=1" msg:"Select at least one property type"`
	AIFeature     string   `json:"aiFeature" validate:"required" msg:"Please select an AI feature"`
}

func (d *DemoBookingData) normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.CompanyName = strings.TrimSpace(d.CompanyName)
}

func (d DemoBookingData) Request() leads.DemoRequest {
	return leads.DemoRequest{
		FirstName: d.FirstName, LastName: d.LastName, Email: d.Email,
		CompanyName: d.CompanyName, UnitsManaged: d.UnitsManaged,
		PropertyTypes: d.PropertyTypes, AIFeature: d.AIFeature,
	}
}

func NewDemoBookingForm() *Form[DemoBookingData] {
	return New(DemoBookingData{PropertyTypes: []string{}})
}

type LeadData struct {
	Name  string `json:"name" validate:"required" msg:"Name is required"`
	Email string `json:"email" validate:"required,email" msg:"Invalid email address"`
}

func (d *LeadData) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
}

func (d LeadData) Request() leads.LeadRequest {
	return leads.LeadRequest{Name: d.Name, Email: d.Email}
}

func NewLeadForm() *Form[LeadData] { return New(LeadData{}) }

// AdminUserData creates an account from the admin panel. Nome is split on the first space.
type AdminUserData struct {
	Email    string `json:"email" validate:"required,email" msg:"Invalid email address"`
	Password string `json:"password" validate:"min=6" msg:"Password must be at least 6 characters"`
	Nome     string `json:"nome" validate:"min=2" msg:"Name must be at least 2 characters"`
	Empresa  string `json:"empresa"`
	Role     string `json:"role" validate:"oneof=admin user"`
}

func (d *AdminUserData) normalize() {
	d.Email = strings.TrimSpace(d.Email)
	d.Nome = strings.TrimSpace(d.Nome)
}

func (d AdminUserData) Request() client.NewUserRequest {
	primeiro, ultimo, _ := strings.Cut(d.Nome, " ")
	return client.NewUserRequest{
		SignupRequest: client.SignupRequest{
			PrimeiroNome: primeiro,
			UltimoNome:   strings.TrimSpace(ultimo),
			Empresa:      d.Empresa,
			Email:        d.Email,
			Password:     d.Password,
		},
		Role: d.Role,
	}
}

func NewAdminUserForm() *Form[AdminUserData] {
	return New(AdminUserData{Role: users.RoleUser})
}

// ParseNIF reads a NIF typed as text; anything non-numeric becomes 0 and fails validation.
func ParseNIF(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if err != nil {
		return 0
	}
	return n
}
