package v1

import (
	"time"
)

// ListOcorrenciasQuery are the optional filters of the list endpoint.
// @Description optional filters for the occurrence list
type ListOcorrenciasQuery struct {
	Concelho string `form:"concelho" validate:"omitempty,min=2,max=100"`
}

// OcorrenciaResponse is one current occurrence row.
// @Description one current occurrence row
type OcorrenciaResponse struct {
	ObjectID        int64     `json:"objectid"`
	DataInicio      string    `json:"data_inicio,omitempty"`
	Natureza        string    `json:"natureza"`
	Concelho        string    `json:"concelho"`
	Estado          string    `json:"estado"`
	Severidade      int       `json:"severidade"`
	Operacionais    int       `json:"operacionais"`
	MeiosTerrestres int       `json:"meios_terrestres"`
	MeiosAereos     int       `json:"meios_aereos"`
	AtualizadoEm    time.Time `json:"data_atualizacao"`
}

// OcorrenciaDetailResponse is one occurrence plus its notification state.
// @Description one occurrence plus its notification state
type OcorrenciaDetailResponse struct {
	OcorrenciaResponse
	Notificada bool `json:"notificada"`
}

// HistoricoResponse is one recorded snapshot of an occurrence.
// @Description one recorded snapshot of an occurrence
type HistoricoResponse struct {
	ID              int64     `json:"id"`
	ObjectID        int64     `json:"objectid"`
	Estado          string    `json:"estado"`
	Operacionais    int       `json:"operacionais"`
	MeiosTerrestres int       `json:"meios_terrestres"`
	MeiosAereos     int       `json:"meios_aereos"`
	RegistadoEm     time.Time `json:"data_registo"`
}

// StatsResponse summarizes the current store contents.
// @Description current occurrence counts per estado
type StatsResponse struct {
	Total     int            `json:"total"`
	PorEstado map[string]int `json:"por_estado"`
}
