package helpers

import (
	"context"

	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

type ListFn[Q any, T any] func(context.Context, *mediaprovider.Server, Q) (*mediaprovider.ListResponse[T], error)

// CountFromList issues the corresponding list call for a single item
// and reports only its total.
func CountFromList[Q mediaprovider.Pager[Q], T any](ctx context.Context, server *mediaprovider.Server, query Q, list ListFn[Q, T]) (int, error) {
	resp, err := list(ctx, server, query.WithPage(0, 1))
	if err != nil {
		return 0, err
	}
	return resp.TotalRecordCount, nil
}

// Page slices a fully materialized list according to p.
// The total is exact because the whole list is known.
func Page[T any](items []*T, p mediaprovider.Paging) *mediaprovider.ListResponse[T] {
	total := len(items)
	start := max(0, min(p.StartIndex, total))
	end := total
	if p.Limit > 0 {
		end = min(start+p.Limit, total)
	}
	return &mediaprovider.ListResponse[T]{
		Items:            items[start:end],
		StartIndex:       p.StartIndex,
		TotalRecordCount: total,
	}
}
