package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-02-01")
	require.NoError(t, err)
	require.Equal(t, "2025-02-01", d.String())

	d, err = Parse("2025-02-01T23:30:00Z")
	require.NoError(t, err)
	require.Equal(t, New(2025, time.February, 1), d)

	_, err = Parse("01/02/2025")
	require.Error(t, err)
}

func TestAddMonths(t *testing.T) {
	require.Equal(t, "2025-07-15", MustParse("2025-01-15").AddMonths(6).String())
	require.Equal(t, "2026-01-10", MustParse("2025-07-10").AddMonths(6).String())
	require.Equal(t, "2025-03-03", MustParse("2025-01-31").AddMonths(1).String())
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		D  Date  `json:"d"`
		P  *Date `json:"p"`
		NP *Date `json:"np"`
	}
	in := `{"d":"2024-12-31","p":"2025-01-01","np":null}`
	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(in), &w))
	require.Equal(t, MustParse("2024-12-31"), w.D)
	require.NotNil(t, w.P)
	require.Nil(t, w.NP)

	out, err := json.Marshal(w)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"d":"nope"}`), &w))
}

func TestScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "2025-03-04", d.String())
	require.Error(t, d.Scan(42))
}
