// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/pollbot/db"
	"github.com/danielhkuo/pollbot/models"
)

var tracer = otel.Tracer("github.com/danielhkuo/pollbot/store")

// Store persists polls, options, and votes in a relational database.
type Store struct {
	db      *sql.DB
	dbType  string
	dialect goqu.DialectWrapper
}

func New(conn *sql.DB, dbType string) *Store {
	return &Store{db: conn, dbType: dbType, dialect: db.Dialect(dbType)}
}

// CreatePoll inserts the poll, its server binding, and its options with zero
// votes in one transaction. Options keep their given order.
func (s *Store) CreatePoll(ctx context.Context, question string, options []string, scopeID string) (pollID int64, err error) {
	const op = "store.CreatePoll"

	question, err = models.NormalizeQuestion(question)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	labels, err := models.NormalizeOptions(options)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(attribute.Int("poll.options", len(labels))))
	defer func() { endSpan(span, err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	pollID, err = s.insertID(ctx, tx, s.dialect.Insert(db.PollsTable).Rows(goqu.Record{"question": question}), "poll_id")
	if err != nil {
		return 0, fmt.Errorf("%s: insert poll: %w", op, err)
	}

	if scopeID != "" {
		ds := s.dialect.Insert(db.PollServersTable).Rows(goqu.Record{"poll_id": pollID, "server_id": scopeID})
		if _, err = execTx(ctx, tx, ds.Prepared(true)); err != nil {
			return 0, fmt.Errorf("%s: insert poll server: %w", op, err)
		}
	}

	for _, label := range labels {
		ds := s.dialect.Insert(db.OptionsTable).Rows(goqu.Record{"poll_id": pollID, "option": label, "votes": 0})
		if _, err = execTx(ctx, tx, ds.Prepared(true)); err != nil {
			return 0, fmt.Errorf("%s: insert option: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	span.SetAttributes(attribute.Int64("poll.id", pollID))
	return pollID, nil
}

// GetPoll returns the question and options of a poll ordered by insertion.
func (s *Store) GetPoll(ctx context.Context, pollID int64) (data models.PollData, err error) {
	const op = "store.GetPoll"

	ctx, span := startSpan(ctx, op, pollID)
	defer func() { endSpan(span, err) }()

	// One statement so the question and counts come from the same snapshot.
	query, args, err := s.dialect.From(db.PollsTable).
		LeftJoin(db.OptionsTable, goqu.On(db.OptionsTablePollIDCol.Eq(db.PollsTablePollIDCol))).
		Select(db.PollsTableQuestionCol, db.OptionsTableOptionIDCol, db.OptionsTableOptionCol, db.OptionsTableVotesCol).
		Where(db.PollsTablePollIDCol.Eq(pollID)).
		Order(db.OptionsTableOptionIDCol.Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return models.PollData{}, fmt.Errorf("%s: build: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return models.PollData{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	data = models.PollData{PollID: pollID, Options: []models.Option{}}
	found := false
	for rows.Next() {
		var (
			optionID sql.NullInt64
			label    sql.NullString
			votes    sql.NullInt64
		)
		if err := rows.Scan(&data.Question, &optionID, &label, &votes); err != nil {
			return models.PollData{}, fmt.Errorf("%s: scan: %w", op, err)
		}
		found = true
		if !optionID.Valid {
			continue
		}
		data.Options = append(data.Options, models.Option{
			ID:     optionID.Int64,
			PollID: pollID,
			Label:  label.String,
			Votes:  int(votes.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return models.PollData{}, fmt.Errorf("%s: rows: %w", op, err)
	}

	if !found {
		return models.PollData{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	return data, nil
}

// PollExists reports whether a poll row exists.
func (s *Store) PollExists(ctx context.Context, pollID int64) (bool, error) {
	const op = "store.PollExists"

	query, args, err := s.dialect.From(db.PollsTable).
		Select(db.PollsTablePollIDCol).
		Where(db.PollsTablePollIDCol.Eq(pollID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("%s: build: %w", op, err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// RecordVote is the atomic vote primitive. With no existing vote row for
// (poll, user, option) it inserts one and increments the option count. With an
// existing row it removes the vote when toggle is set and otherwise rejects
// without writing. The option row is locked for the length of the transaction
// so concurrent votes on one option serialize.
func (s *Store) RecordVote(ctx context.Context, pollID int64, userID string, optionID int64, toggle bool) (outcome models.VoteOutcome, err error) {
	const op = "store.RecordVote"

	ctx, span := startSpan(ctx, op, pollID)
	span.SetAttributes(attribute.Int64("option.id", optionID), attribute.Bool("vote.toggle", toggle))
	defer func() {
		if outcome != 0 {
			span.SetAttributes(attribute.String("vote.outcome", outcome.String()))
		}
		endSpan(span, err)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	lock := s.dialect.From(db.OptionsTable).
		Select(db.OptionsTableOptionIDCol).
		Where(db.OptionsTableOptionIDCol.Eq(optionID), db.OptionsTablePollIDCol.Eq(pollID))
	if s.dbType == db.TypePostgres {
		lock = lock.ForUpdate(exp.Wait)
	}
	query, args, err := lock.Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("%s: build: %w", op, err)
	}
	var lockedID int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&lockedID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: option %d: %w", op, optionID, models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: lock option: %w", op, err)
	}

	query, args, err = s.dialect.From(db.VotesTable).
		Select(db.VotesTableVoteIDCol).
		Where(
			db.VotesTablePollIDCol.Eq(pollID),
			db.VotesTableUserIDCol.Eq(userID),
			db.VotesTableOptionIDCol.Eq(optionID),
		).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("%s: build: %w", op, err)
	}
	var voteID int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&voteID)
	hasVoted := !errors.Is(err, sql.ErrNoRows)
	if err != nil && hasVoted {
		return 0, fmt.Errorf("%s: lookup vote: %w", op, err)
	}

	switch {
	case !hasVoted:
		ds := s.dialect.Insert(db.VotesTable).Rows(goqu.Record{
			"poll_id":   pollID,
			"user_id":   userID,
			"option_id": optionID,
		})
		if _, err = execTx(ctx, tx, ds.Prepared(true)); err != nil {
			return 0, fmt.Errorf("%s: insert vote: %w", op, err)
		}
		if err = s.addVotes(ctx, tx, optionID, 1); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		outcome = models.VoteRecorded

	case toggle:
		ds := s.dialect.Delete(db.VotesTable).Where(goqu.C("vote_id").Eq(voteID))
		if _, err = execTx(ctx, tx, ds.Prepared(true)); err != nil {
			return 0, fmt.Errorf("%s: delete vote: %w", op, err)
		}
		if err = s.addVotes(ctx, tx, optionID, -1); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		outcome = models.VoteRemoved

	default:
		return models.VoteRejected, nil
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return outcome, nil
}

// addVotes adjusts the denormalized count by delta in place.
func (s *Store) addVotes(ctx context.Context, tx *sql.Tx, optionID int64, delta int) error {
	ds := s.dialect.Update(db.OptionsTable).
		Set(goqu.Record{"votes": goqu.L("? + ?", goqu.C("votes"), delta)}).
		Where(goqu.C("option_id").Eq(optionID))

	res, err := execTx(ctx, tx, ds.Prepared(true))
	if err != nil {
		return fmt.Errorf("update option votes: %w", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("update option votes: %d rows affected", n)
	}
	return nil
}

// DeletePoll removes the poll, its server binding, options, and votes. The poll
// must be bound to scopeID.
func (s *Store) DeletePoll(ctx context.Context, pollID int64, scopeID string) (err error) {
	const op = "store.DeletePoll"

	ctx, span := startSpan(ctx, op, pollID)
	defer func() { endSpan(span, err) }()

	if scopeID == "" {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	binding := s.dialect.From(db.PollServersTable).
		Select(db.PollServersTablePollIDCol).
		Where(db.PollServersTablePollIDCol.Eq(pollID), db.PollServersTableServerIDCol.Eq(scopeID))
	if s.dbType == db.TypePostgres {
		binding = binding.ForUpdate(exp.Wait)
	}
	query, args, err := binding.Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("%s: build: %w", op, err)
	}
	var boundID int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&boundID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Children first so the order also holds without foreign key cascades.
	for _, table := range []string{db.VotesTableName, db.OptionsTableName, db.PollServersTableName, db.PollsTableName} {
		ds := s.dialect.Delete(table).Where(goqu.C("poll_id").Eq(pollID))
		if _, err = execTx(ctx, tx, ds.Prepared(true)); err != nil {
			return fmt.Errorf("%s: delete from %s: %w", op, table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// GetUserVotes returns the set of option IDs the user has voted for in a poll.
func (s *Store) GetUserVotes(ctx context.Context, pollID int64, userID string) (map[int64]bool, error) {
	const op = "store.GetUserVotes"

	query, args, err := s.dialect.From(db.VotesTable).
		Select(db.VotesTableOptionIDCol).
		Where(db.VotesTablePollIDCol.Eq(pollID), db.VotesTableUserIDCol.Eq(userID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	votes := make(map[int64]bool)
	for rows.Next() {
		var optionID int64
		if err := rows.Scan(&optionID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		votes[optionID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return votes, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// insertID runs an insert and returns the generated key. SQLite has no
// RETURNING support in goqu, so the driver's last insert id is used there.
func (s *Store) insertID(ctx context.Context, tx *sql.Tx, ds *goqu.InsertDataset, idCol string) (int64, error) {
	if s.dbType == db.TypePostgres {
		query, args, err := ds.Returning(idCol).Prepared(true).ToSQL()
		if err != nil {
			return 0, err
		}
		var id int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	res, err := execTx(ctx, tx, ds.Prepared(true))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

func execTx(ctx context.Context, tx *sql.Tx, b sqlBuilder) (sql.Result, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}
	return tx.ExecContext(ctx, query, args...)
}

func startSpan(ctx context.Context, name string, pollID int64) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Int64("poll.id", pollID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
