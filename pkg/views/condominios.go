// Package views holds the pure derivations the CLI pages render: filters, groupings,
// schedules and counters over lists already loaded by the providers.
package views

import (
	"strings"

	"domly/pkg/ativos"
	"domly/pkg/condominios"
)

// FilterCondominios keeps the condominios whose nome or morada contains search, ignoring case.
// A blank search keeps everything.
func FilterCondominios(list []condominios.Condominio, search string) []condominios.Condominio {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]condominios.Condominio, 0, len(list))
	for _, c := range list {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Nome), term) ||
			strings.Contains(strings.ToLower(c.Morada), term) {
			out = append(out, c)
		}
	}
	return out
}

// FindCondominio returns the condominio with the given id.
func FindCondominio(list []condominios.Condominio, id string) (condominios.Condominio, bool) {
	for _, c := range list {
		if c.ID == id {
			return c, true
		}
	}
	return condominios.Condominio{}, false
}

// AtivosByCondominio keeps the assets of one condominio, in their original order.
func AtivosByCondominio(list []ativos.Ativo, condominioID string) []ativos.Ativo {
	out := make([]ativos.Ativo, 0)
	for _, a := range list {
		if a.CondominioID == condominioID {
			out = append(out, a)
		}
	}
	return out
}
