package condominios

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Template"

var ErrEmptyWorkbook = errors.New("spreadsheet has no sheets")

// importHeaders are the template columns, in order.
var importHeaders = []string{"Nome", "Cidade", "Morada", "Codigo Postal", "NIF"}

// headerAliases maps accepted header spellings to a template column.
var headerAliases = map[string]string{
	"nome":          "Nome",
	"cidade":        "Cidade",
	"morada":        "Morada",
	"codigo postal": "Codigo Postal",
	"codigo_postal": "Codigo Postal",
	"nif":           "NIF",
}

// ParseImport reads the first sheet of an xlsx workbook. Rows without a nome or a valid nif are
// counted as skipped.
func ParseImport(r io.Reader) ([]Input, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return []Input{}, 0, nil
	}

	headerMap := make(map[string]int)
	for i, h := range rows[0] {
		if col, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, seen := headerMap[col]; !seen {
				headerMap[col] = i
			}
		}
	}
	cell := func(row []string, col string) string {
		i, ok := headerMap[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	items := make([]Input, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		if len(strings.TrimSpace(strings.Join(row, ""))) == 0 {
			continue
		}
		nif, _ := strconv.Atoi(strings.ReplaceAll(cell(row, "NIF"), " ", ""))
		in := Input{
			Nome:         cell(row, "Nome"),
			Cidade:       cell(row, "Cidade"),
			Morada:       cell(row, "Morada"),
			CodigoPostal: cell(row, "Codigo Postal"),
			NIF:          nif,
		}
		if in.Nome == "" || !validNIF(in.NIF) {
			skipped++
			continue
		}
		items = append(items, in)
	}
	return items, skipped, nil
}

// ImportTemplate builds the xlsx template with a single example row.
func ImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(templateSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	example := []any{"Exemplo Condomínio", "Lisboa", "Rua Exemplo, 123", "1000-001", 123456789}
	for col, header := range importHeaders {
		hcell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(templateSheet, hcell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(templateSheet, hcell, hcell, headerStyle); err != nil {
			return nil, err
		}
		vcell, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(templateSheet, vcell, example[col]); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(templateSheet, "A", "E", 22); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
