package config_test

import (
	"reflect"
	"testing"

	"laureld/internal/config"
)

func TestMergeDictKeysMergeListsConcatScalarsOverwrite(t *testing.T) {
	base := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": "d"}, "e": map[string]any{"h": "i"}},
	}
	overlay := map[string]any{
		"a": map[string]any{"e": map[string]any{"h": "X"}, "f": "X"},
		"g": "X",
	}
	got := config.Merge(base, overlay)
	want := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": "d"},
			"e": map[string]any{"h": "X"},
			"f": "X",
		},
		"g": "X",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestMergeListsConcatenate(t *testing.T) {
	base := map[string]any{"l": []any{"x", "y"}}
	overlay := map[string]any{"l": []any{"z"}}
	got := config.Merge(base, overlay)
	want := []any{"x", "y", "z"}
	if !reflect.DeepEqual(got["l"], want) {
		t.Fatalf("got %#v, want %#v", got["l"], want)
	}
}

func TestMergeDoesNotMutateBase(t *testing.T) {
	base := map[string]any{"a": map[string]any{"b": "c"}}
	_ = config.Merge(base, map[string]any{"a": map[string]any{"b": "X"}})
	if base["a"].(map[string]any)["b"] != "c" {
		t.Fatal("base was mutated")
	}
}
