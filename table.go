package jotter

import (
	"context"

	"github.com/jotter/jotter/pkg/connection"
	"github.com/jotter/jotter/pkg/models"
)

// SelectOption shapes a Select call.
type SelectOption func(*models.SelectOptions)

// OrderBy sorts the selection by field. Options compose in the order given.
func OrderBy(field string, desc bool) SelectOption {
	return func(o *models.SelectOptions) {
		o.Order = append(o.Order, models.Order{Field: field, Desc: desc})
	}
}

// Send calls method and decodes the result into a *TResult.
func Send[TResult any](ctx context.Context, db *DB, method string, params ...any) (*TResult, error) {
	return connection.Send[TResult](ctx, db.con, method, params...)
}

// Info returns the record of the signed in user.
func Info[TResult any](ctx context.Context, db *DB) (*TResult, error) {
	return Send[TResult](ctx, db, string(connection.Info))
}

// Select returns every row of table visible to the signed in user.
func Select[TResult any](ctx context.Context, db *DB, table models.Table, opts ...SelectOption) ([]TResult, error) {
	var o models.SelectOptions
	for _, opt := range opts {
		opt(&o)
	}

	res, err := Send[[]TResult](ctx, db, string(connection.Select), table, o)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return []TResult{}, nil
	}
	return *res, nil
}

// Create inserts data into table and returns the stored row.
func Create[TResult any](ctx context.Context, db *DB, table models.Table, data any) (*TResult, error) {
	return Send[TResult](ctx, db, string(connection.Create), table, data)
}

// Update merges data into the row addressed by id and returns the stored row.
func Update[TResult any](ctx context.Context, db *DB, id models.RecordID, data any) (*TResult, error) {
	return Send[TResult](ctx, db, string(connection.Update), id, data)
}

// Delete removes the row addressed by id.
func Delete(ctx context.Context, db *DB, id models.RecordID) error {
	return db.con.Send(ctx, nil, string(connection.Delete), id)
}
