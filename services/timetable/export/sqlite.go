package export

import (
	"context"
	"database/sql"

	"github.com/rmrobinson/ztm/services/timetable"
	"go.uber.org/zap"
)

const (
	createDepartureTableQuery = `CREATE TABLE IF NOT EXISTS departure (
	source TEXT NOT NULL,
	seq INTEGER NOT NULL,
	line_number TEXT,
	description TEXT,
	route_id TEXT,
	original_stop TEXT,
	last_stop TEXT,
	direction TEXT,
	stop_id TEXT,
	stop_name TEXT,
	valid_from TEXT,
	valid_until TEXT,
	timetable_type TEXT,
	timetable_desc TEXT,
	departure_time TEXT,
	departure_id TEXT,
	PRIMARY KEY (source, seq)
);`
	deleteSourceDeparturesQuery = `DELETE FROM departure WHERE source=?;`
	insertDepartureQuery        = `INSERT OR REPLACE INTO departure(source, seq, line_number, description, route_id, original_stop, last_stop, direction, stop_id, stop_name, valid_from, valid_until, timetable_type, timetable_desc, departure_time, departure_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	selectSourceDeparturesQuery = `SELECT line_number, description, route_id, original_stop, last_stop, direction, stop_id, stop_name, valid_from, valid_until, timetable_type, timetable_desc, departure_time, departure_id FROM departure WHERE source=? ORDER BY seq;`
)

// SQLPersister stores the flat table in a SQL DB, one row per departure.
type SQLPersister struct {
	logger *zap.Logger
	db     *sql.DB
}

// NewSQLPersister creates a new persister backed by a SQL DB
func NewSQLPersister(logger *zap.Logger, db *sql.DB) *SQLPersister {
	return &SQLPersister{
		logger: logger,
		db:     db,
	}
}

// Setup creates the departure table if it does not exist yet.
func (p *SQLPersister) Setup(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, createDepartureTableQuery)
	return err
}

// Persist replaces every row previously saved for source with the supplied rows.
func (p *SQLPersister) Persist(ctx context.Context, source string, rows []timetable.Row) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, deleteSourceDeparturesQuery, source); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertDepartureQuery)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, r := range rows {
		_, err = stmt.ExecContext(ctx, source, i,
			r.LineNumber, r.Description,
			r.RouteID, r.OriginalStop, r.LastStop, r.Direction,
			r.StopID, r.StopName, r.ValidFrom, r.ValidUntil,
			r.TimetableType, r.TimetableDesc,
			r.DepartureTime, r.DepartureID,
		)
		if err != nil {
			p.logger.Info("unable to save departure",
				zap.String("source", source),
				zap.Int("seq", i),
				zap.Error(err),
			)
			tx.Rollback()
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	p.logger.Debug("persisted departures",
		zap.String("source", source),
		zap.Int("row_count", len(rows)),
	)
	return nil
}

// Load returns the rows saved for source in their original order.
func (p *SQLPersister) Load(ctx context.Context, source string) ([]timetable.Row, error) {
	dbRows, err := p.db.QueryContext(ctx, selectSourceDeparturesQuery, source)
	if err != nil {
		return nil, err
	}
	defer dbRows.Close()

	rows := []timetable.Row{}
	for dbRows.Next() {
		var r timetable.Row
		err = dbRows.Scan(
			&r.LineNumber, &r.Description,
			&r.RouteID, &r.OriginalStop, &r.LastStop, &r.Direction,
			&r.StopID, &r.StopName, &r.ValidFrom, &r.ValidUntil,
			&r.TimetableType, &r.TimetableDesc,
			&r.DepartureTime, &r.DepartureID,
		)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, dbRows.Err()
}
