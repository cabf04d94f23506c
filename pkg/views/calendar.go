package views

import (
	"sort"
	"strings"

	"domly/pkg/alertas"
	"domly/pkg/date"
	"domly/pkg/manutencoes"
)

const (
	EventManutencao = "manutencao"
	EventAlerta     = "alerta"
)

type CalendarEvent struct {
	ID     string
	Data   date.Date
	Kind   string
	Titulo string
	Ativo  string
	Estado string
}

// CalendarEvents merges pending maintenances (on their scheduled day) and pending alerts
// (on the day they were raised) into one unsorted event list.
func CalendarEvents(mans []manutencoes.ManutencaoView, alerts []alertas.AlertaView) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(mans)+len(alerts))
	for _, m := range mans {
		if m.Estado != manutencoes.EstadoPendente {
			continue
		}
		titulo := strings.TrimSpace(m.Descricao)
		if titulo == "" {
			titulo = "Manutenção " + m.Tipo
		}
		events = append(events, CalendarEvent{
			ID: m.ID, Data: m.DataAgendada, Kind: EventManutencao,
			Titulo: titulo, Ativo: m.AtivoNome, Estado: m.Estado,
		})
	}
	for _, a := range alerts {
		if a.Estado != alertas.EstadoPendente {
			continue
		}
		events = append(events, CalendarEvent{
			ID: a.ID, Data: date.Of(a.DataAlerta), Kind: EventAlerta,
			Titulo: a.Titulo, Ativo: a.AtivoNome, Estado: a.Estado,
		})
	}
	return events
}

// EventsOn keeps the events falling on day.
func EventsOn(events []CalendarEvent, day date.Date) []CalendarEvent {
	out := make([]CalendarEvent, 0)
	for _, e := range events {
		if e.Data.Equal(day) {
			out = append(out, e)
		}
	}
	return out
}

// Upcoming returns the events on or after from, soonest first and stable on ties.
func Upcoming(events []CalendarEvent, from date.Date) []CalendarEvent {
	out := make([]CalendarEvent, 0, len(events))
	for _, e := range events {
		if !e.Data.Before(from) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Data.Before(out[j].Data) })
	return out
}
