package v1

import "github.com/zeneves1970/ocorrencias/internal/models"

// ModelToOcorrenciaResponse converts the domain model to the response DTO.
func ModelToOcorrenciaResponse(model *models.Incident) *OcorrenciaResponse {
	return &OcorrenciaResponse{
		ObjectID:        model.ObjectID,
		DataInicio:      model.DataInicio,
		Natureza:        model.Natureza,
		Concelho:        model.Concelho,
		Estado:          string(model.Estado),
		Severidade:      model.Estado.Rank(),
		Operacionais:    model.Operacionais,
		MeiosTerrestres: model.MeiosTerrestres,
		MeiosAereos:     model.MeiosAereos,
		AtualizadoEm:    model.AtualizadoEm,
	}
}

// ModelsToOcorrenciaResponses converts a slice of models to response DTOs.
func ModelsToOcorrenciaResponses(incidents []*models.Incident) []*OcorrenciaResponse {
	responses := make([]*OcorrenciaResponse, 0, len(incidents))
	for _, inc := range incidents {
		responses = append(responses, ModelToOcorrenciaResponse(inc))
	}
	return responses
}

// ModelToHistoricoResponse converts one history entry to its DTO.
func ModelToHistoricoResponse(entry *models.HistoryEntry) *HistoricoResponse {
	return &HistoricoResponse{
		ID:              entry.ID,
		ObjectID:        entry.ObjectID,
		Estado:          string(entry.Estado),
		Operacionais:    entry.Operacionais,
		MeiosTerrestres: entry.MeiosTerrestres,
		MeiosAereos:     entry.MeiosAereos,
		RegistadoEm:     entry.RegistadoEm,
	}
}

// ModelsToHistoricoResponses converts a slice of history entries to DTOs.
func ModelsToHistoricoResponses(entries []*models.HistoryEntry) []*HistoricoResponse {
	responses := make([]*HistoricoResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ModelToHistoricoResponse(entry))
	}
	return responses
}
