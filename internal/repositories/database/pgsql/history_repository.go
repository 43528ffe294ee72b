package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	"github.com/SscSPs/exchange_kiosk_app/internal/models"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils/mapping"
)

type PgxHistoryRepository struct {
	db querier
}

func newPgxHistoryRepository(db querier) *PgxHistoryRepository {
	return &PgxHistoryRepository{db: db}
}

var _ portsrepo.HistoryRepositoryFacade = (*PgxHistoryRepository)(nil)

// SaveHistoryEvent appends an audit event.
func (r *PgxHistoryRepository) SaveHistoryEvent(ctx context.Context, event domain.HistoryEvent) error {
	query := `
		INSERT INTO history_events (event_id, event_type, user_id, target_user_id, currency_id, "timestamp")
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		event.EventID,
		string(event.EventType),
		event.UserID,
		event.TargetUserID,
		event.CurrencyID,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save history event %s: %w", event.EventID, err)
	}
	return nil
}

// ListHistoryEvents returns events matching filter, newest first.
// Names are resolved through joins so deleted users and currencies still display.
func (r *PgxHistoryRepository) ListHistoryEvents(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEvent, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.EventType != "" {
		conds = append(conds, "h.event_type = "+arg(string(filter.EventType)))
	}
	if filter.CurrencyName != "" {
		conds = append(conds, "lower(c.name) = lower("+arg(filter.CurrencyName)+")")
	}
	if filter.Username != "" {
		p := arg(filter.Username)
		conds = append(conds, "(lower(u.username) = lower("+p+") OR lower(tu.username) = lower("+p+"))")
	}
	if filter.From != nil {
		conds = append(conds, `h."timestamp" >= `+arg(*filter.From))
	}
	if filter.CursorTime != nil && filter.CursorID != "" {
		conds = append(conds, `(h."timestamp", h.event_id) < (`+arg(*filter.CursorTime)+", "+arg(filter.CursorID)+")")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT h.event_id, h.event_type, h.user_id, u.username, h.target_user_id, tu.username,
		       h.currency_id, c.name, h."timestamp"
		FROM history_events h
		LEFT JOIN users u ON u.user_id = h.user_id
		LEFT JOIN users tu ON tu.user_id = h.target_user_id
		LEFT JOIN currencies c ON c.currency_id = h.currency_id
	`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(` ORDER BY h."timestamp" DESC, h.event_id DESC LIMIT ` + arg(limit))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history events: %w", err)
	}
	defer rows.Close()

	events := []domain.HistoryEvent{}
	for rows.Next() {
		var m models.HistoryEvent
		if err := rows.Scan(
			&m.EventID,
			&m.EventType,
			&m.UserID,
			&m.Username,
			&m.TargetUserID,
			&m.TargetUsername,
			&m.CurrencyID,
			&m.CurrencyName,
			&m.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history event row: %w", err)
		}
		events = append(events, mapping.ToDomainHistoryEvent(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history event rows: %w", err)
	}
	return events, nil
}
