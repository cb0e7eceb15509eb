package journal

import (
	"context"
	"fmt"
)

// ComposeDailyLog reads everything recorded on date through uow and builds
// the DailyLogEntry. It never writes. If any of the three reads fails no
// entry is returned.
func ComposeDailyLog(ctx context.Context, uow UnitOfWork, date Date) (DailyLogEntry, error) {
	tasks, err := uow.Tasks().ListByDate(ctx, date)
	if err != nil {
		return DailyLogEntry{}, fmt.Errorf("failed to list tasks for %s: %w", date, err)
	}
	events, err := uow.Events().ListByDate(ctx, date)
	if err != nil {
		return DailyLogEntry{}, fmt.Errorf("failed to list events for %s: %w", date, err)
	}
	notes, err := uow.Notes().ListByDate(ctx, date)
	if err != nil {
		return DailyLogEntry{}, fmt.Errorf("failed to list notes for %s: %w", date, err)
	}
	return BuildDailyLog(tasks, events, notes, date), nil
}

// ComposeRange builds one DailyLogEntry per day from start through end.
func ComposeRange(ctx context.Context, uow UnitOfWork, start, end Date) ([]DailyLogEntry, error) {
	if end.Before(start) {
		return nil, &ValidationError{Field: "end", Reason: "must not be before start"}
	}
	var entries []DailyLogEntry
	for d := start; !d.After(end); d = d.AddDays(1) {
		entry, err := ComposeDailyLog(ctx, uow, d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
