package ativos

import (
	"errors"
	"strings"
	"time"

	"domly/pkg/alertas"
	"domly/pkg/date"
	"domly/pkg/documentos"
	"domly/pkg/manutencoes"
)

const (
	MaxNomeLength     = 100
	DefaultFrequencia = 6

	EstadoExcelente = "excelente"
	EstadoBom       = "bom"
	EstadoRegular   = "regular"
	EstadoMau       = "mau"
)

var Estados = []string{EstadoExcelente, EstadoBom, EstadoRegular, EstadoMau}

type Ativo struct {
	ID                   string     `json:"id"`
	CondominioID         string     `json:"condominio_id"`
	Nome                 string     `json:"nome"`
	Categoria            string     `json:"categoria"`
	Marca                string     `json:"marca"`
	Modelo               string     `json:"modelo"`
	NumSerie             string     `json:"num_serie"`
	DataInstalacao       *date.Date `json:"data_instalacao"`
	Estado               string     `json:"estado"`
	Descricao            string     `json:"descricao"`
	Valor                float64    `json:"valor"`
	Localizacao          string     `json:"localizacao"`
	UltimaManutencao     *date.Date `json:"ultima_manutencao"`
	FrequenciaManutencao int        `json:"frequencia_manutencao"`
	ProximaManutencao    *date.Date `json:"proxima_manutencao"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// AtivoDetail is an asset with everything hanging off it.
type AtivoDetail struct {
	Ativo
	Alertas     []alertas.Alerta         `json:"alertas"`
	Manutencoes []manutencoes.Manutencao `json:"manutencoes"`
	Documentos  []documentos.Documento   `json:"documentos"`
	Fotos       []documentos.Foto        `json:"fotos"`
}

type Input struct {
	Nome                 string     `json:"nome" binding:"required,max=100"`
	Categoria            string     `json:"categoria" binding:"required"`
	Marca                string     `json:"marca"`
	Modelo               string     `json:"modelo"`
	NumSerie             string     `json:"num_serie"`
	DataInstalacao       *date.Date `json:"data_instalacao"`
	Estado               string     `json:"estado" binding:"required,oneof=excelente bom regular mau"`
	Descricao            string     `json:"descricao"`
	Valor                float64    `json:"valor" binding:"min=0"`
	Localizacao          string     `json:"localizacao"`
	UltimaManutencao     *date.Date `json:"ultima_manutencao"`
	FrequenciaManutencao int        `json:"frequencia_manutencao" binding:"omitempty,min=1"`
	ProximaManutencao    *date.Date `json:"proxima_manutencao"`
}

// Patch holds a partial update; nil fields are left untouched.
type Patch struct {
	Nome                 *string    `json:"nome" binding:"omitempty,max=100"`
	Categoria            *string    `json:"categoria"`
	Marca                *string    `json:"marca"`
	Modelo               *string    `json:"modelo"`
	NumSerie             *string    `json:"num_serie"`
	DataInstalacao       *date.Date `json:"data_instalacao"`
	Estado               *string    `json:"estado" binding:"omitempty,oneof=excelente bom regular mau"`
	Descricao            *string    `json:"descricao"`
	Valor                *float64   `json:"valor" binding:"omitempty,min=0"`
	Localizacao          *string    `json:"localizacao"`
	UltimaManutencao     *date.Date `json:"ultima_manutencao"`
	FrequenciaManutencao *int       `json:"frequencia_manutencao" binding:"omitempty,min=1"`
	ProximaManutencao    *date.Date `json:"proxima_manutencao"`
}

var (
	ErrNomeRequired      = errors.New("nome is required")
	ErrNomeTooLong       = errors.New("nome must be at most 100 characters")
	ErrCategoriaRequired = errors.New("categoria is required")
	ErrInvalidEstado     = errors.New("estado must be one of excelente, bom, regular, mau")
	ErrNegativeValor     = errors.New("valor must not be negative")
	ErrInvalidFrequencia = errors.New("frequencia_manutencao must be at least 1 month")
)

func validEstado(e string) bool {
	for _, s := range Estados {
		if s == e {
			return true
		}
	}
	return false
}

func validate(a Ativo) error {
	switch {
	case strings.TrimSpace(a.Nome) == "":
		return ErrNomeRequired
	case len([]rune(a.Nome)) > MaxNomeLength:
		return ErrNomeTooLong
	case strings.TrimSpace(a.Categoria) == "":
		return ErrCategoriaRequired
	case !validEstado(a.Estado):
		return ErrInvalidEstado
	case a.Valor < 0:
		return ErrNegativeValor
	case a.FrequenciaManutencao < 1:
		return ErrInvalidFrequencia
	}
	return nil
}

// NextMaintenance is last + frequencia months, or nil when the asset was never serviced.
func NextMaintenance(last *date.Date, frequencia int) *date.Date {
	if last == nil || last.IsZero() {
		return nil
	}
	next := last.AddMonths(frequencia)
	return &next
}

// New builds the asset an Input describes, deriving the next maintenance when it is not given.
func (in Input) New(condominioID string) Ativo {
	a := Ativo{
		CondominioID:         condominioID,
		Nome:                 strings.TrimSpace(in.Nome),
		Categoria:            strings.TrimSpace(in.Categoria),
		Marca:                strings.TrimSpace(in.Marca),
		Modelo:               strings.TrimSpace(in.Modelo),
		NumSerie:             strings.TrimSpace(in.NumSerie),
		DataInstalacao:       in.DataInstalacao,
		Estado:               in.Estado,
		Descricao:            in.Descricao,
		Valor:                in.Valor,
		Localizacao:          strings.TrimSpace(in.Localizacao),
		UltimaManutencao:     in.UltimaManutencao,
		FrequenciaManutencao: in.FrequenciaManutencao,
		ProximaManutencao:    in.ProximaManutencao,
	}
	if a.FrequenciaManutencao == 0 {
		a.FrequenciaManutencao = DefaultFrequencia
	}
	if a.ProximaManutencao == nil {
		a.ProximaManutencao = NextMaintenance(a.UltimaManutencao, a.FrequenciaManutencao)
	}
	return a
}

// Apply merges the patch into a. Changing the last date or the frequency re-derives the
// next date unless the patch sets it explicitly.
func (p Patch) Apply(a *Ativo) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&a.Nome, p.Nome)
	setString(&a.Categoria, p.Categoria)
	setString(&a.Marca, p.Marca)
	setString(&a.Modelo, p.Modelo)
	setString(&a.NumSerie, p.NumSerie)
	setString(&a.Estado, p.Estado)
	setString(&a.Localizacao, p.Localizacao)
	if p.Descricao != nil {
		a.Descricao = *p.Descricao
	}
	if p.DataInstalacao != nil {
		a.DataInstalacao = p.DataInstalacao
	}
	if p.Valor != nil {
		a.Valor = *p.Valor
	}

	reschedule := false
	if p.UltimaManutencao != nil {
		a.UltimaManutencao = p.UltimaManutencao
		reschedule = true
	}
	if p.FrequenciaManutencao != nil {
		a.FrequenciaManutencao = *p.FrequenciaManutencao
		reschedule = true
	}
	switch {
	case p.ProximaManutencao != nil:
		a.ProximaManutencao = p.ProximaManutencao
	case reschedule:
		a.ProximaManutencao = NextMaintenance(a.UltimaManutencao, a.FrequenciaManutencao)
	}
}
