package alertas

import "time"

const (
	EstadoPendente  = "pendente"
	EstadoResolvido = "resolvido"
)

// Tipos lists the accepted alert types.
var Tipos = []string{"avaria", "manutencao", "limpeza", "inspecao", "outro"}

type Alerta struct {
	ID         string    `json:"id"`
	AtivoID    string    `json:"ativo_id"`
	Tipo       string    `json:"tipo"`
	Titulo     string    `json:"titulo"`
	Mensagem   string    `json:"mensagem"`
	Estado     string    `json:"estado"`
	DataAlerta time.Time `json:"data_alerta"`
	CreatedAt  time.Time `json:"created_at"`
}

// AlertaView is an alert joined with the names of its asset and condominio.
type AlertaView struct {
	Alerta
	AtivoNome      string `json:"ativo_nome"`
	CondominioID   string `json:"condominio_id"`
	CondominioNome string `json:"condominio_nome"`
}

type Input struct {
	Tipo     string `json:"tipo" binding:"required,oneof=avaria manutencao limpeza inspecao outro"`
	Titulo   string `json:"titulo" binding:"required,max=200"`
	Mensagem string `json:"mensagem"`
}

func validTipo(t string) bool {
	for _, v := range Tipos {
		if v == t {
			return true
		}
	}
	return false
}

func validEstado(e string) bool {
	return e == EstadoPendente || e == EstadoResolvido
}
