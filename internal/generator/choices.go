package generator

import (
	"fmt"
	"slices"
	"strings"
)

// Choice is one selectable value of a field.
type Choice struct {
	Value    string
	Label    string
	Selected bool
}

// SimpleChoices builds choices whose label is their value.
func SimpleChoices[T any](values ...T) []Choice {
	choices := make([]Choice, len(values))
	for i, v := range values {
		s := fmt.Sprint(v)
		choices[i] = Choice{Value: s, Label: s}
	}
	return choices
}

// MakeChoices returns a copy of choices with Selected set on those matching
// current. A list current matches by membership, anything else by equality.
func MakeChoices(choices []Choice, current any) []Choice {
	var selected []string
	switch c := current.(type) {
	case []string:
		selected = c
	case []any:
		for _, v := range c {
			selected = append(selected, toString(v))
		}
	case nil:
	default:
		selected = []string{fmt.Sprint(c)}
	}

	out := make([]Choice, len(choices))
	for i, ch := range choices {
		ch.Selected = slices.Contains(selected, ch.Value)
		out[i] = ch
	}
	return out
}

// NaturalJoin joins items as "a, b and c".
func NaturalJoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return fmt.Sprintf("%s and %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
}
