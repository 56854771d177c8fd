package models

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrMalformedRecord marks a feed record that cannot be turned into an
// incident (missing upstream identity). Such records are skipped, never fatal.
var ErrMalformedRecord = errors.New("malformed feed record")

// fingerprintSep does not occur in any of the upstream source fields.
const fingerprintSep = "|"

// Incident is the current known state of one occurrence, keyed by the
// upstream OBJECTID. OBJECTID can be reused by the feed for unrelated
// occurrences, so it is not used to decide whether to notify; see Fingerprint.
type Incident struct {
	ObjectID        int64     `json:"objectid"`
	DataInicio      string    `json:"data_inicio"`
	Natureza        string    `json:"natureza"`
	Concelho        string    `json:"concelho"`
	Estado          Status    `json:"estado"`
	Operacionais    int       `json:"operacionais"`
	MeiosTerrestres int       `json:"meios_terrestres"`
	MeiosAereos     int       `json:"meios_aereos"`
	AtualizadoEm    time.Time `json:"data_atualizacao"`
}

// Fingerprint identifies the real-world occurrence independently of OBJECTID.
// Start time, concelho and natureza are stable for the life of an occurrence
// even when the feed rotates its numeric id; estado and the counts are not.
func (i *Incident) Fingerprint() string {
	return fmt.Sprintf("%s%s%s%s%s", i.DataInicio, fingerprintSep, i.Concelho, fingerprintSep, i.Natureza)
}

// SameReading reports whether the mutable fields match o. Identity fields are
// not compared; the caller already matched on OBJECTID.
func (i *Incident) SameReading(o *Incident) bool {
	return i.Estado == o.Estado &&
		i.Operacionais == o.Operacionais &&
		i.MeiosTerrestres == o.MeiosTerrestres &&
		i.MeiosAereos == o.MeiosAereos
}

// Reinforced reports whether any of the engaged means grew since prev.
func (i *Incident) Reinforced(prev *Incident) bool {
	return i.Operacionais > prev.Operacionais ||
		i.MeiosTerrestres > prev.MeiosTerrestres ||
		i.MeiosAereos > prev.MeiosAereos
}

// SortForDisplay orders incidents by severity rank, then most recently
// updated first. This is the single place the ordering rule lives; callers
// building views must not re-implement it.
func SortForDisplay(incidents []*Incident) {
	sort.SliceStable(incidents, func(a, b int) bool {
		ra, rb := incidents[a].Estado.Rank(), incidents[b].Estado.Rank()
		if ra != rb {
			return ra < rb
		}
		return incidents[a].AtualizadoEm.After(incidents[b].AtualizadoEm)
	})
}
