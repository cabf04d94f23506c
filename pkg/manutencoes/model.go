package manutencoes

import (
	"time"

	"domly/pkg/date"
)

const (
	EstadoPendente  = "pendente"
	EstadoConcluido = "concluido"

	TipoPreventiva = "preventiva"
	TipoCorretiva  = "corretiva"
)

type Manutencao struct {
	ID            string     `json:"id"`
	AtivoID       string     `json:"ativo_id"`
	Descricao     string     `json:"descricao"`
	DataAgendada  date.Date  `json:"data_agendada"`
	DataConclusao *date.Date `json:"data_conclusao"`
	Custo         float64    `json:"custo"`
	Estado        string     `json:"estado"`
	Tipo          string     `json:"tipo"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ManutencaoView adds the asset and condominio a maintenance belongs to (calendar listing).
type ManutencaoView struct {
	Manutencao
	AtivoNome    string `json:"ativo_nome"`
	CondominioID string `json:"condominio_id"`
}

type Input struct {
	AtivoID       string     `json:"ativo_id" binding:"required"`
	Descricao     string     `json:"descricao"`
	DataAgendada  date.Date  `json:"data_agendada"`
	DataConclusao *date.Date `json:"data_conclusao"`
	Custo         float64    `json:"custo" binding:"min=0"`
	Estado        string     `json:"estado" binding:"omitempty,oneof=pendente concluido"`
	Tipo          string     `json:"tipo" binding:"omitempty,oneof=preventiva corretiva"`
}

// Completed reports the date the maintenance was done, if it was.
func (in Input) Completed() (date.Date, bool) {
	if in.Estado != EstadoConcluido {
		return date.Date{}, false
	}
	if in.DataConclusao != nil {
		return *in.DataConclusao, true
	}
	return in.DataAgendada, true
}
