package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zeneves1970/ocorrencias/internal/models"
	"github.com/zeneves1970/ocorrencias/internal/service"
)

type IncidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) service.IncidentRepository {
	return &IncidentRepository{
		db: db,
	}
}

// GetByObjectID returns the current row for an OBJECTID, or nil when absent.
func (r *IncidentRepository) GetByObjectID(ctx context.Context, objectID int64) (*models.Incident, error) {
	inc := &models.Incident{}
	query := `
		SELECT objectid, data_inicio, natureza, concelho, estado,
		       operacionais, meios_terrestres, meios_aereos, data_atualizacao
		FROM ocorrencias
		WHERE objectid = ?;
	`
	err := r.db.QueryRowContext(ctx, query, objectID).Scan(
		&inc.ObjectID,
		&inc.DataInicio,
		&inc.Natureza,
		&inc.Concelho,
		&inc.Estado,
		&inc.Operacionais,
		&inc.MeiosTerrestres,
		&inc.MeiosAereos,
		&inc.AtualizadoEm,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident by objectid: %w", err)
	}
	return inc, nil
}

// Upsert inserts or overwrites the row for inc.ObjectID. The write is
// idempotent; repeating it with the same reading only moves data_atualizacao.
func (r *IncidentRepository) Upsert(ctx context.Context, inc *models.Incident) error {
	query := `
		INSERT INTO ocorrencias
		(objectid, data_inicio, natureza, concelho, estado, operacionais, meios_terrestres, meios_aereos, data_atualizacao)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(objectid) DO UPDATE SET
			data_inicio=excluded.data_inicio,
			natureza=excluded.natureza,
			concelho=excluded.concelho,
			estado=excluded.estado,
			operacionais=excluded.operacionais,
			meios_terrestres=excluded.meios_terrestres,
			meios_aereos=excluded.meios_aereos,
			data_atualizacao=excluded.data_atualizacao;
	`
	_, err := r.db.ExecContext(ctx, query,
		inc.ObjectID,
		inc.DataInicio,
		inc.Natureza,
		inc.Concelho,
		string(inc.Estado),
		inc.Operacionais,
		inc.MeiosTerrestres,
		inc.MeiosAereos,
		inc.AtualizadoEm.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert incident: %w", err)
	}
	return nil
}

// HasFingerprint reports whether the fingerprint was ever notified.
func (r *IncidentRepository) HasFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM notificadas WHERE fingerprint = ?);`
	if err := r.db.QueryRowContext(ctx, query, fingerprint).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	return exists, nil
}

// RecordFingerprint inserts the fingerprint into the notification ledger.
// Uniqueness is enforced by the primary key, not by a prior SELECT, so two
// concurrent writers cannot both claim the first sighting. An existing row
// yields service.ErrDuplicateFingerprint.
func (r *IncidentRepository) RecordFingerprint(ctx context.Context, fingerprint string, at time.Time) error {
	query := `
		INSERT INTO notificadas (fingerprint, criada_em)
		VALUES (?, ?)
		ON CONFLICT(fingerprint) DO NOTHING;
	`
	res, err := r.db.ExecContext(ctx, query, fingerprint, at.UTC())
	if err != nil {
		return fmt.Errorf("failed to record fingerprint: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read fingerprint insert result: %w", err)
	}
	if affected == 0 {
		return service.ErrDuplicateFingerprint
	}
	return nil
}

// DeleteOlderThan removes incident rows last updated before cutoff and
// returns how many were deleted.
func (r *IncidentRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ocorrencias WHERE data_atualizacao < ?;`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale incidents: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read sweep result: %w", err)
	}
	return deleted, nil
}

// DeleteFingerprintsOlderThan prunes the notification ledger.
func (r *IncidentRepository) DeleteFingerprintsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notificadas WHERE criada_em < ?;`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale fingerprints: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read fingerprint sweep result: %w", err)
	}
	return deleted, nil
}

// AppendHistory inserts one snapshot row. History is insert-only.
func (r *IncidentRepository) AppendHistory(ctx context.Context, entry *models.HistoryEntry) error {
	query := `
		INSERT INTO ocorrencias_historico
		(objectid, estado, operacionais, meios_terrestres, meios_aereos, data_registo)
		VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ObjectID,
		string(entry.Estado),
		entry.Operacionais,
		entry.MeiosTerrestres,
		entry.MeiosAereos,
		entry.RegistadoEm.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// ListCurrent returns every current incident row. Ordering is a presentation
// concern; the service sorts using the severity rank from the models package.
func (r *IncidentRepository) ListCurrent(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT objectid, data_inicio, natureza, concelho, estado,
		       operacionais, meios_terrestres, meios_aereos, data_atualizacao
		FROM ocorrencias;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		inc := &models.Incident{}
		err := rows.Scan(
			&inc.ObjectID,
			&inc.DataInicio,
			&inc.Natureza,
			&inc.Concelho,
			&inc.Estado,
			&inc.Operacionais,
			&inc.MeiosTerrestres,
			&inc.MeiosAereos,
			&inc.AtualizadoEm,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during list iteration: %w", err)
	}
	return incidents, nil
}

// ListHistory returns every recorded snapshot for an OBJECTID in insertion order.
func (r *IncidentRepository) ListHistory(ctx context.Context, objectID int64) ([]*models.HistoryEntry, error) {
	query := `
		SELECT id, objectid, estado, operacionais, meios_terrestres, meios_aereos, data_registo
		FROM ocorrencias_historico
		WHERE objectid = ?
		ORDER BY id;
	`
	rows, err := r.db.QueryContext(ctx, query, objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.HistoryEntry, 0)
	for rows.Next() {
		entry := &models.HistoryEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.ObjectID,
			&entry.Estado,
			&entry.Operacionais,
			&entry.MeiosTerrestres,
			&entry.MeiosAereos,
			&entry.RegistadoEm,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during history iteration: %w", err)
	}
	return entries, nil
}

// CountByStatus returns how many current rows carry each estado.
func (r *IncidentRepository) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT estado, COUNT(*) FROM ocorrencias GROUP BY estado;`)
	if err != nil {
		return nil, fmt.Errorf("failed to count incidents by estado: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var estado string
		var count int
		if err := rows.Scan(&estado, &count); err != nil {
			return nil, fmt.Errorf("failed to scan estado count: %w", err)
		}
		counts[models.Status(estado)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during estado count iteration: %w", err)
	}
	return counts, nil
}

// Checkpoint flushes the WAL into the main database file so the mirror
// uploads a complete copy.
func (r *IncidentRepository) Checkpoint(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE);`); err != nil {
		return fmt.Errorf("failed to checkpoint database: %w", err)
	}
	return nil
}
