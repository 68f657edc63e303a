package registry

import "strings"

// resolveByName finds the item called name in three tiers: exact match,
// case-insensitive match, then a unique case-insensitive substring match.
// An earlier tier always wins. Duplicate names at the first two tiers
// resolve to the first item in order.
func resolveByName[T any](items []T, name string, nameOf func(T) string, label string) (T, error) {
	for _, item := range items {
		if nameOf(item) == name {
			return item, nil
		}
	}

	lower := strings.ToLower(name)
	for _, item := range items {
		if strings.ToLower(nameOf(item)) == lower {
			return item, nil
		}
	}

	var partial []T
	for _, item := range items {
		if strings.Contains(strings.ToLower(nameOf(item)), lower) {
			partial = append(partial, item)
		}
	}

	var zero T
	switch len(partial) {
	case 1:
		return partial[0], nil
	case 0:
		return zero, &ResolveError{
			Kind:       ErrNotFound,
			Label:      label,
			Query:      name,
			Candidates: names(items, nameOf),
		}
	default:
		return zero, &ResolveError{
			Kind:       ErrAmbiguous,
			Label:      label,
			Query:      name,
			Candidates: names(partial, nameOf),
		}
	}
}

func names[T any](items []T, nameOf func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = nameOf(item)
	}
	return out
}
