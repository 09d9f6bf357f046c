package store

import (
	"context"
	"fmt"

	"github.com/ThiagoPax/wa-autoresponder/internal/schedule"
)

// LoadSchedule reads all configured windows. Days with no row stay
// unconfigured and therefore disabled.
func (s *Store) LoadSchedule(ctx context.Context) (schedule.Table, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT weekday, enabled, start_minutes, end_minutes FROM schedule_windows`)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	table := schedule.Table{}
	for rows.Next() {
		var (
			key        string
			w          schedule.Window
			start, end int
		)
		if err := rows.Scan(&key, &w.Enabled, &start, &end); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		day, ok := schedule.ParseWeekday(key)
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q in schedule_windows", key)
		}
		w.StartMinutes, w.EndMinutes = start, end
		table[day] = w
	}
	return table, rows.Err()
}

// SaveSchedule replaces the stored windows with t inside one transaction.
func (s *Store) SaveSchedule(ctx context.Context, t schedule.Table) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_windows`); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	for day, w := range t {
		_, err := tx.Exec(ctx, `
			INSERT INTO schedule_windows (weekday, enabled, start_minutes, end_minutes)
			VALUES ($1, $2, $3, $4)`,
			day.String(), w.Enabled, w.StartMinutes, w.EndMinutes,
		)
		if err != nil {
			return fmt.Errorf("insert window %s: %w", day, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
