package models

// Status is the upstream "EstadoAgrupado" value of an occurrence. The feed
// vocabulary is open-ended; anything outside the four known states is kept
// verbatim and ranked last.
type Status string

const (
	StatusDespacho  Status = "Em Despacho"
	StatusCurso     Status = "Em Curso"
	StatusResolucao Status = "Em Resolução"
	StatusConclusao Status = "Em Conclusão"
)

// rankUnknown sorts after every known state.
const rankUnknown = 5

var severityRank = map[Status]int{
	StatusDespacho:  1,
	StatusCurso:     2,
	StatusResolucao: 3,
	StatusConclusao: 4,
}

// Rank returns the display severity of the status. Lower is more severe.
func (s Status) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return rankUnknown
}

// Known reports whether the status is one of the four grouped states.
func (s Status) Known() bool {
	_, ok := severityRank[s]
	return ok
}
