package notify

import "time"

const (
	EventAlertaCriado    = "alerta_criado"
	EventAlertaResolvido = "alerta_resolvido"
	EventAtivoRemovido   = "ativo_removido"
)

// Event is pushed to the owner of the affected condominio.
type Event struct {
	EventType    string    `json:"event_type"`
	AlertaID     string    `json:"alerta_id,omitempty"`
	AtivoID      string    `json:"ativo_id,omitempty"`
	CondominioID string    `json:"condominio_id,omitempty"`
	Titulo       string    `json:"titulo,omitempty"`
	Tipo         string    `json:"tipo,omitempty"`
	Estado       string    `json:"estado,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher delivers events to a user. Delivery is best effort: offline users miss them.
type Publisher interface {
	Publish(userID string, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(string, Event) {}
