package views

import "domly/pkg/alertas"

// NoCondominio labels alerts whose asset is not linked to a named condominio.
const NoCondominio = "Sem Condomínio"

type AlertGroup struct {
	Condominio string
	Alertas    []alertas.AlertaView
}

func filterEstado(list []alertas.AlertaView, estado string) []alertas.AlertaView {
	out := make([]alertas.AlertaView, 0)
	for _, a := range list {
		if a.Estado == estado {
			out = append(out, a)
		}
	}
	return out
}

func PendingAlerts(list []alertas.AlertaView) []alertas.AlertaView {
	return filterEstado(list, alertas.EstadoPendente)
}

func ResolvedAlerts(list []alertas.AlertaView) []alertas.AlertaView {
	return filterEstado(list, alertas.EstadoResolvido)
}

// GroupAlertsByCondominio partitions list by condominio name. Groups come out in the order
// their first alert appears and keep the alerts' relative order.
func GroupAlertsByCondominio(list []alertas.AlertaView) []AlertGroup {
	index := make(map[string]int)
	groups := make([]AlertGroup, 0)
	for _, a := range list {
		name := a.CondominioNome
		if name == "" {
			name = NoCondominio
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, AlertGroup{Condominio: name})
		}
		groups[i].Alertas = append(groups[i].Alertas, a)
	}
	return groups
}
