package documentos

import "time"

type Documento struct {
	ID            string    `json:"id"`
	AtivoID       string    `json:"ativo_id"`
	Nome          string    `json:"nome"`
	TipoDocumento string    `json:"tipo_documento"`
	URL           string    `json:"url"`
	ObjectKey     string    `json:"-"`
	DataUpload    time.Time `json:"data_upload"`
}

type Foto struct {
	ID         string    `json:"id"`
	AtivoID    string    `json:"ativo_id"`
	URL        string    `json:"url"`
	ObjectKey  string    `json:"-"`
	DataUpload time.Time `json:"data_upload"`
}

// File is an upload that already passed its storage policy.
type File struct {
	Name        string
	Data        []byte
	ContentType string
	Ext         string
}
