package generator

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestReadArray(t *testing.T) {
	valid := []string{"post", "page", "product"}
	def := []string{"post"}

	tests := []struct {
		name  string
		input Input
		want  []string
	}{
		{"missing key uses default", Input{}, []string{"post"}},
		{"nil value uses default", Input{"keys": nil}, []string{"post"}},
		{"comma string", Input{"keys": "post,page"}, []string{"post", "page"}},
		{"comma string with spaces", Input{"keys": "post, page"}, []string{"post", "page"}},
		{"string filtered by valid", Input{"keys": "post,bogus"}, []string{"post"}},
		{"string list", Input{"keys": []string{"page", "product"}}, []string{"page", "product"}},
		{"any list from json", Input{"keys": []any{"page", "bogus"}}, []string{"page"}},
		{"empty string empties", Input{"keys": ""}, []string{}},
		{"list of blanks empties", Input{"keys": []string{"", "0"}}, []string{}},
		{"empty list empties", Input{"keys": []string{}}, []string{}},
		{"all invalid gives empty", Input{"keys": []string{"bogus"}}, []string{}},
		{"wrong type uses default", Input{"keys": 42}, []string{"post"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadArray(tt.input, "keys", valid, def)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadArray() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestReadArray_DefaultNotShared(t *testing.T) {
	def := []string{"post"}
	got := ReadArray(Input{}, "keys", []string{"post"}, def)
	got[0] = "changed"
	if def[0] != "post" {
		t.Error("ReadArray returned the default slice itself")
	}
}

func TestReadInt(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  int
	}{
		{"missing", Input{}, 60},
		{"nil", Input{"n": nil}, 60},
		{"int in range", Input{"n": 30}, 30},
		{"int above", Input{"n": 5000}, 3650},
		{"int below", Input{"n": -4}, 0},
		{"numeric string", Input{"n": "12"}, 12},
		{"leading digits", Input{"n": "12abc"}, 12},
		{"padded string", Input{"n": "  7"}, 7},
		{"negative string", Input{"n": "-9"}, 0},
		{"non numeric string", Input{"n": "abc"}, 0},
		{"huge string", Input{"n": "99999999999999999999999"}, 3650},
		{"float truncated", Input{"n": 12.9}, 12},
		{"json number", Input{"n": json.Number("15")}, 15},
		{"bool true", Input{"n": true}, 1},
		{"nan", Input{"n": math.NaN()}, 0},
		{"list", Input{"n": []string{"x"}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadInt(tt.input, "n", 0, 3650, 60); got != tt.want {
				t.Errorf("ReadInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
