package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/studio-portal/internal/domain"
	"github.com/jhoicas/studio-portal/internal/domain/entity"
	"github.com/jhoicas/studio-portal/internal/domain/repository"
)

var _ repository.MeetingRepository = (*MeetingRepo)(nil)

const meetingColumns = `id, customer_id, title, scheduled_at, duration_min, location, notes, created_at`

// MeetingRepo implementación de MeetingRepository.
type MeetingRepo struct {
	q Querier
}

// NewMeetingRepository construye el adaptador.
func NewMeetingRepository(q Querier) *MeetingRepo {
	return &MeetingRepo{q: q}
}

// Create persiste una reunión.
func (r *MeetingRepo) Create(ctx context.Context, m *entity.Meeting) error {
	query := `
		INSERT INTO meetings (id, customer_id, title, scheduled_at, duration_min, location, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CustomerID, m.Title, m.ScheduledAt, m.DurationMin, m.Location, m.Notes, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidTextRepresentation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

// ListByCustomer próximas (ascendente) y después pasadas (descendente).
func (r *MeetingRepo) ListByCustomer(ctx context.Context, customerID string, since time.Time) ([]*entity.Meeting, error) {
	if !validID(customerID) {
		return nil, nil
	}
	query := `
		SELECT ` + meetingColumns + ` FROM meetings
		WHERE customer_id = $1
		ORDER BY (scheduled_at < $2),
		         CASE WHEN scheduled_at >= $2 THEN scheduled_at END ASC,
		         scheduled_at DESC`
	return r.list(ctx, query, customerID, since)
}

// List todas las reuniones, más recientes primero.
func (r *MeetingRepo) List(ctx context.Context, limit, offset int) ([]*entity.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings ORDER BY scheduled_at DESC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *MeetingRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Meeting, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Meeting
	for rows.Next() {
		var m entity.Meeting
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.Title, &m.ScheduledAt, &m.DurationMin,
			&m.Location, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
