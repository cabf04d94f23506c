package views

import (
	"sort"
	"time"

	"domly/pkg/alertas"
	"domly/pkg/ativos"
	"domly/pkg/date"
	"domly/pkg/manutencoes"
)

// UrgentWindow is how close a due date must be to count as urgent.
const UrgentWindow = 7 * 24 * time.Hour

// IsUrgent reports whether d falls strictly before now plus UrgentWindow.
// Overdue dates are urgent too.
func IsUrgent(d date.Date, now time.Time) bool {
	return d.Time().Before(now.Add(UrgentWindow))
}

type ScheduleItem struct {
	Ativo  ativos.Ativo
	Data   date.Date
	Urgent bool
}

// MaintenanceSchedule lists the assets that have a next maintenance date, soonest first.
// Assets due on the same day keep their original order.
func MaintenanceSchedule(list []ativos.Ativo, now time.Time) []ScheduleItem {
	items := make([]ScheduleItem, 0)
	for _, a := range list {
		if a.ProximaManutencao == nil {
			continue
		}
		d := *a.ProximaManutencao
		items = append(items, ScheduleItem{Ativo: a, Data: d, Urgent: IsUrgent(d, now)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Data.Before(items[j].Data) })
	return items
}

type Stats struct {
	Total               int `json:"total"`
	ComAlertas          int `json:"com_alertas"`
	ComManutencao       int `json:"com_manutencao"`
	AlertasPendentes    int `json:"alertas_pendentes"`
	ManutencoesUrgentes int `json:"manutencoes_urgentes"`
	// PercentMonitorizado is the rounded share of assets with at least one alert.
	PercentMonitorizado int `json:"percent_monitorizado"`
}

// AtivoStats summarises the assets of a condominio together with their alerts.
// Alerts of assets outside list are ignored.
func AtivoStats(list []ativos.Ativo, alerts []alertas.AlertaView, now time.Time) Stats {
	s := Stats{Total: len(list)}
	inList := make(map[string]bool, len(list))
	for _, a := range list {
		inList[a.ID] = true
	}
	withAlerts := make(map[string]bool)
	for _, al := range alerts {
		if !inList[al.AtivoID] {
			continue
		}
		withAlerts[al.AtivoID] = true
		if al.Estado == alertas.EstadoPendente {
			s.AlertasPendentes++
		}
	}
	s.ComAlertas = len(withAlerts)
	for _, a := range list {
		if a.ProximaManutencao == nil {
			continue
		}
		s.ComManutencao++
		if IsUrgent(*a.ProximaManutencao, now) {
			s.ManutencoesUrgentes++
		}
	}
	if s.Total > 0 {
		s.PercentMonitorizado = (s.ComAlertas*100 + s.Total/2) / s.Total
	}
	return s
}

// AssetMaintenances keeps the maintenances of one asset, by scheduled date.
func AssetMaintenances(list []manutencoes.ManutencaoView, ativoID string) []manutencoes.ManutencaoView {
	out := make([]manutencoes.ManutencaoView, 0)
	for _, m := range list {
		if m.AtivoID == ativoID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DataAgendada.Before(out[j].DataAgendada) })
	return out
}
