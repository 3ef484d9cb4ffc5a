package feed

import (
	"context"

	"github.com/nbhansali/drivefeed/internal/errors"
	"github.com/nbhansali/drivefeed/internal/parser"
)

// MapRows applies transform to every parsed row in order and returns the
// projected values. A ShapeNone result maps to an empty slice without
// invoking transform; a records-shaped result is a type mismatch. An error
// from transform itself propagates unwrapped.
func MapRows[T any](res parser.Result, transform func(parser.Row) (T, error)) ([]T, error) {
	switch res.Shape() {
	case parser.ShapeNone:
		return []T{}, nil
	case parser.ShapeRows:
	default:
		return nil, errors.NewTypeMismatchError(errors.ErrShapeMismatch, res.Shape().String())
	}

	out := make([]T, 0, res.Len())

	for _, row := range res.Rows() {
		v, err := transform(row)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// MapRecords is the record-shaped counterpart of MapRows.
func MapRecords[T any](res parser.Result, transform func(parser.Record) (T, error)) ([]T, error) {
	switch res.Shape() {
	case parser.ShapeNone:
		return []T{}, nil
	case parser.ShapeRecords:
	default:
		return nil, errors.NewTypeMismatchError(errors.ErrShapeMismatch, res.Shape().String())
	}

	out := make([]T, 0, res.Len())

	for _, record := range res.Records() {
		v, err := transform(record)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

// StartRows fetches, parses and projects positional rows into domain
// values in one call.
func StartRows[T any](ctx context.Context, f *Feed, transform func(parser.Row) (T, error)) ([]T, error) {
	res, err := f.Start(ctx, parser.ShapeRows, false)
	if err != nil {
		return nil, err
	}

	return MapRows(res, transform)
}

// StartRecords fetches, parses with the header line and projects keyed
// records into domain values in one call.
func StartRecords[T any](ctx context.Context, f *Feed, transform func(parser.Record) (T, error)) ([]T, error) {
	res, err := f.Start(ctx, parser.ShapeRecords, true)
	if err != nil {
		return nil, err
	}

	return MapRecords(res, transform)
}
