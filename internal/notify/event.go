package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeneves1970/ocorrencias/internal/models"
)

// Kind distinguishes the two notification triggers.
type Kind string

const (
	// KindNova fires once per fingerprint, on first sighting.
	KindNova Kind = "nova"
	// KindReforco fires when engaged means grow on a known occurrence.
	KindReforco Kind = "reforco"
)

// Event is the structured payload queued for delivery.
type Event struct {
	ID              uuid.UUID     `json:"id"`
	Kind            Kind          `json:"kind"`
	DataInicio      string        `json:"data_inicio"`
	Natureza        string        `json:"natureza"`
	Concelho        string        `json:"concelho"`
	Estado          models.Status `json:"estado"`
	Operacionais    int           `json:"operacionais"`
	MeiosTerrestres int           `json:"meios_terrestres"`
	MeiosAereos     int           `json:"meios_aereos"`
	Timestamp       time.Time     `json:"timestamp"`
}

// NewEvent builds a notification event for the incident's current reading.
func NewEvent(kind Kind, inc *models.Incident, at time.Time) Event {
	return Event{
		ID:              uuid.New(),
		Kind:            kind,
		DataInicio:      inc.DataInicio,
		Natureza:        inc.Natureza,
		Concelho:        inc.Concelho,
		Estado:          inc.Estado,
		Operacionais:    inc.Operacionais,
		MeiosTerrestres: inc.MeiosTerrestres,
		MeiosAereos:     inc.MeiosAereos,
		Timestamp:       at,
	}
}

// Message renders the Telegram HTML text for the event.
func (e Event) Message() string {
	header := "🚨 <b>Nova ocorrência</b>"
	if e.Kind == KindReforco {
		header = "🔥 <b>Reforço de meios</b>"
	}
	return fmt.Sprintf(
		"%s\n%s | %s\nEstado: %s\nInício: %s\nOperacionais: %d | Meios terrestres: %d | Meios aéreos: %d",
		header,
		e.Concelho,
		e.Natureza,
		e.Estado,
		e.DataInicio,
		e.Operacionais,
		e.MeiosTerrestres,
		e.MeiosAereos,
	)
}
