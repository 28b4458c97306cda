package sharedutil

import (
	"github.com/dweymouth/sonicbridge/backend/mediaprovider"
)

func FilterSlice[T any](ss []T, test func(T) bool) []T {
	if ss == nil {
		return nil
	}
	result := make([]T, 0)
	for _, s := range ss {
		if test(s) {
			result = append(result, s)
		}
	}
	return result
}

func MapSlice[T any, U any](ts []T, f func(T) U) []U {
	if ts == nil {
		return nil
	}
	result := make([]U, len(ts))
	for i, t := range ts {
		result[i] = f(t)
	}
	return result
}

func FilterMapSlice[T any, U any](ts []T, f func(T) (U, bool)) []U {
	if ts == nil {
		return nil
	}
	result := make([]U, 0)
	for _, t := range ts {
		if u, ok := f(t); ok {
			result = append(result, u)
		}
	}
	return result
}

func ToSet[T comparable](ts []T) map[T]struct{} {
	set := make(map[T]struct{}, len(ts))
	for _, t := range ts {
		set[t] = struct{}{}
	}
	return set
}

// FirstNonEmpty returns the first non-empty string of ss.
func FirstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

func SongsToIDs(songs []*mediaprovider.Song) []string {
	return MapSlice(songs, func(s *mediaprovider.Song) string {
		return s.ID
	})
}

// Reorder items and return a new slice.
// idxToMove must contain only valid indexes into items, and no repeats
func ReorderItems[T any](items []T, idxToMove []int, insertIdx int) []T {
	idxToMoveSet := ToSet(idxToMove)

	newItems := make([]T, 0, len(items))

	// collect items that will end up before the insertion set
	i := 0
	for ; i < len(items); i++ {
		if insertIdx == i {
			break
		}
		if _, ok := idxToMoveSet[i]; !ok {
			newItems = append(newItems, items[i])
		}
	}

	for _, idx := range idxToMove {
		newItems = append(newItems, items[idx])
	}

	for ; i < len(items); i++ {
		if _, ok := idxToMoveSet[i]; !ok {
			newItems = append(newItems, items[i])
		}
	}

	return newItems
}

// MoveItem moves the item at from so that it ends up at index to.
func MoveItem[T any](items []T, from, to int) []T {
	if from < 0 || from >= len(items) {
		return items
	}
	to = max(0, min(to, len(items)-1))
	insert := to
	if to > from {
		// insertion index is counted before removal of the moved item
		insert = to + 1
	}
	return ReorderItems(items, []int{from}, insert)
}
