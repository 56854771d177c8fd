package models

import (
	"time"
)

// HistoryEntry is one observed snapshot of an occurrence. Entries are
// append-only; together they reconstruct the timeline of an OBJECTID.
type HistoryEntry struct {
	ID              int64     `json:"id"`
	ObjectID        int64     `json:"objectid"`
	Estado          Status    `json:"estado"`
	Operacionais    int       `json:"operacionais"`
	MeiosTerrestres int       `json:"meios_terrestres"`
	MeiosAereos     int       `json:"meios_aereos"`
	RegistadoEm     time.Time `json:"data_registo"`
}

// Snapshot builds the history entry for the incident's current reading.
func (i *Incident) Snapshot(at time.Time) *HistoryEntry {
	return &HistoryEntry{
		ObjectID:        i.ObjectID,
		Estado:          i.Estado,
		Operacionais:    i.Operacionais,
		MeiosTerrestres: i.MeiosTerrestres,
		MeiosAereos:     i.MeiosAereos,
		RegistadoEm:     at,
	}
}
