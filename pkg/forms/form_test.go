package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"domly/pkg/date"
)

func validAtivo() AtivoData {
	return AtivoData{
		Nome: "Elevador A", Categoria: "elevador", Marca: "Otis", Modelo: "Gen2",
		NumSerie: "12345", DataInstalacao: "2020-01-15", FrequenciaManutencao: 6,
		Estado: "bom", Descricao: "Elevador principal", Valor: 25000,
	}
}

func TestSubmit_InvalidNeverCallsOnSubmit(t *testing.T) {
	f := NewAtivoForm()
	data := validAtivo()
	data.Estado = ""
	f.Open(data)

	called := false
	err := f.Submit(context.Background(), data, func(context.Context, AtivoData) error {
		called = true
		return nil
	})

	require.False(t, called)
	require.True(t, IsValidation(err))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, map[string]string{"estado": "Selecione o estado do ativo"}, ve.Fields)
	require.True(t, f.IsOpen())
	require.Equal(t, "Elevador A", f.Values().Nome)
}

func TestSubmit_SuccessClosesAndResets(t *testing.T) {
	f := NewAtivoForm()
	f.Open(AtivoData{FrequenciaManutencao: 6})

	var got AtivoData
	data := validAtivo()
	data.Nome = "  Elevador A  "
	err := f.Submit(context.Background(), data, func(_ context.Context, d AtivoData) error {
		got = d
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, "Elevador A", got.Nome)
	require.False(t, f.IsOpen())
	require.Equal(t, AtivoData{FrequenciaManutencao: 6}, f.Values())

	in := got.Input()
	require.Equal(t, "2020-01-15", in.DataInstalacao.String())
	require.Nil(t, in.UltimaManutencao)
}

func TestSubmit_CallbackFailureKeepsOpen(t *testing.T) {
	f := NewCondominioForm()
	f.Open(CondominioData{})
	boom := errors.New("network down")

	data := CondominioData{Nome: "Edifício Central", Cidade: "Lisboa", Morada: "Rua A", CodigoPostal: "1000-001", NIF: 123456789}
	err := f.Submit(context.Background(), data, func(context.Context, CondominioData) error { return boom })

	require.ErrorIs(t, err, boom)
	require.False(t, IsValidation(err))
	require.True(t, f.IsOpen())
	require.Equal(t, data, f.Values())
}

func TestSchemas(t *testing.T) {
	tests := []struct {
		name   string
		data   any
		fields []string
	}{
		{"condominio nif too short", CondominioData{Nome: "A", Cidade: "B", Morada: "C", CodigoPostal: "D", NIF: 12345}, []string{"nif"}},
		{"condominio empty", CondominioData{NIF: 123456789}, []string{"nome", "cidade", "morada", "codigo_postal"}},
		{"ativo bad serial and date", func() AtivoData {
			d := validAtivo()
			d.NumSerie = "AB-1"
			d.UltimaManutencao = "15/01/2024"
			return d
		}(), []string{"num_serie", "ultima_manutencao"}},
		{"ativo nome too long", func() AtivoData {
			d := validAtivo()
			d.Nome = string(make([]byte, 101))
			return d
		}(), []string{"nome"}},
		{"ativo negative valor", func() AtivoData {
			d := validAtivo()
			d.Valor = -1
			d.FrequenciaManutencao = 0
			return d
		}(), []string{"valor", "frequencia_manutencao"}},
		{"maintenance missing date", MaintenanceData{AtivoID: "a1", Estado: "pendente", Tipo: "preventiva"}, []string{"data_agendada"}},
		{"maintenance bad estado", MaintenanceData{AtivoID: "a1", DataAgendada: "2024-05-01", Estado: "feito", Tipo: "preventiva"}, []string{"estado"}},
		{"signup short password", SignupData{PrimeiroNome: "A", UltimoNome: "B", Empresa: "C", Email: "a@b.pt", Password: "123"}, []string{"password"}},
		{"demo without property types", DemoBookingData{FirstName: "A", LastName: "B", Email: "a@b.pt", CompanyName: "C", UnitsManaged: "1-10", PropertyTypes: []string{}, AIFeature: "x"}, []string{"propertyTypes"}},
		{"lead bad email", LeadData{Name: "Rui", Email: "rui"}, []string{"email"}},
		{"admin user bad role", AdminUserData{Email: "a@b.pt", Password: "secret1", Nome: "Ana Silva", Role: "root"}, []string{"role"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			got := make([]string, 0, len(ve.Fields))
			for k := range ve.Fields {
				got = append(got, k)
			}
			require.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestSubmit_TrimsBeforeValidation(t *testing.T) {
	f := NewLeadForm()
	err := f.Submit(context.Background(), LeadData{Name: "   ", Email: "rui@x.pt"}, func(context.Context, LeadData) error {
		t.Fatal("onSubmit must not run")
		return nil
	})
	require.True(t, IsValidation(err))
	require.Equal(t, "invalid form: name: Name is required", err.Error())
}

func TestConversions(t *testing.T) {
	req := AdminUserData{Email: "a@b.pt", Password: "secret1", Nome: "Ana Maria Silva", Role: "admin"}.Request()
	require.Equal(t, "Ana", req.PrimeiroNome)
	require.Equal(t, "Maria Silva", req.UltimoNome)
	require.Equal(t, "admin", req.Role)

	m := MaintenanceData{AtivoID: "a1", DataAgendada: "2024-05-01", DataConclusao: "2024-05-03", Estado: "concluido", Tipo: "corretiva"}.Input()
	require.True(t, m.DataAgendada.Equal(date.MustParse("2024-05-01")))
	require.Equal(t, "2024-05-03", m.DataConclusao.String())

	form := NewMaintenanceForm("a9")
	require.Equal(t, "a9", form.Values().AtivoID)
	require.Equal(t, "pendente", form.Values().Estado)

	require.Equal(t, 123456789, ParseNIF(" 123 456 789 "))
	require.Equal(t, 0, ParseNIF("abc"))
}
