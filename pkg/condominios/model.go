package condominios

import (
	"errors"
	"strings"
	"time"
)

const (
	MinNIF = 100000000
	MaxNIF = 999999999
)

type Condominio struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Nome          string    `json:"nome"`
	Morada        string    `json:"morada"`
	CodigoPostal  string    `json:"codigo_postal"`
	Cidade        string    `json:"cidade"`
	NIF           int       `json:"nif"`
	NFracoes      int       `json:"n_fracoes"`
	IBAN          string    `json:"iban"`
	Banco         string    `json:"banco"`
	Seguradora    string    `json:"seguradora"`
	ApoliceSeguro string    `json:"apolice_seguro"`
	AnoConstrucao *int      `json:"ano_construcao"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Input is the writable part of a condominio.
type Input struct {
	Nome          string `json:"nome" binding:"required"`
	Morada        string `json:"morada" binding:"required"`
	CodigoPostal  string `json:"codigo_postal" binding:"required"`
	Cidade        string `json:"cidade" binding:"required"`
	NIF           int    `json:"nif" binding:"required,min=100000000,max=999999999"`
	NFracoes      int    `json:"n_fracoes" binding:"min=0"`
	IBAN          string `json:"iban"`
	Banco         string `json:"banco"`
	Seguradora    string `json:"seguradora"`
	ApoliceSeguro string `json:"apolice_seguro"`
	AnoConstrucao *int   `json:"ano_construcao"`
}

// Patch holds a partial update; nil fields are left untouched.
type Patch struct {
	Nome          *string `json:"nome"`
	Morada        *string `json:"morada"`
	CodigoPostal  *string `json:"codigo_postal"`
	Cidade        *string `json:"cidade"`
	NIF           *int    `json:"nif"`
	NFracoes      *int    `json:"n_fracoes"`
	IBAN          *string `json:"iban"`
	Banco         *string `json:"banco"`
	Seguradora    *string `json:"seguradora"`
	ApoliceSeguro *string `json:"apolice_seguro"`
	AnoConstrucao *int    `json:"ano_construcao"`
}

type CondominioList struct {
	Items []Condominio `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// ImportResult is returned by the spreadsheet import.
type ImportResult struct {
	Created []Condominio `json:"created"`
	Skipped int          `json:"skipped"`
}

var (
	ErrNomeRequired   = errors.New("nome is required")
	ErrMoradaRequired = errors.New("morada is required")
	ErrCidadeRequired = errors.New("cidade is required")
	ErrCodigoRequired = errors.New("codigo_postal is required")
	ErrInvalidNIF     = errors.New("nif must have 9 digits")
)

func validNIF(nif int) bool {
	return nif >= MinNIF && nif <= MaxNIF
}

// Validate applies the same rules as the request binding, for inputs built outside gin.
func (in Input) Validate() error {
	switch {
	case strings.TrimSpace(in.Nome) == "":
		return ErrNomeRequired
	case strings.TrimSpace(in.Morada) == "":
		return ErrMoradaRequired
	case strings.TrimSpace(in.Cidade) == "":
		return ErrCidadeRequired
	case strings.TrimSpace(in.CodigoPostal) == "":
		return ErrCodigoRequired
	case !validNIF(in.NIF):
		return ErrInvalidNIF
	}
	return nil
}

func (p Patch) Validate() error {
	if p.Nome != nil && strings.TrimSpace(*p.Nome) == "" {
		return ErrNomeRequired
	}
	if p.Morada != nil && strings.TrimSpace(*p.Morada) == "" {
		return ErrMoradaRequired
	}
	if p.Cidade != nil && strings.TrimSpace(*p.Cidade) == "" {
		return ErrCidadeRequired
	}
	if p.CodigoPostal != nil && strings.TrimSpace(*p.CodigoPostal) == "" {
		return ErrCodigoRequired
	}
	if p.NIF != nil && !validNIF(*p.NIF) {
		return ErrInvalidNIF
	}
	return nil
}
