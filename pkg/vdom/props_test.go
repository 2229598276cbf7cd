package vdom

import "testing"

func TestPropsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"same string", "a", "a", true},
		{"different string", "a", "b", false},
		{"string vs int", "1", 1, false},
		{"ints", 3, 3, true},
		{"int64s", int64(3), int64(4), false},
		{"floats", 1.5, 1.5, true},
		{"bools", true, false, false},
		{"nils", nil, nil, true},
		{"nil vs value", nil, "", false},
		{"slices", []string{"a"}, []string{"a"}, true},
		{"maps", map[string]int{"a": 1}, map[string]int{"a": 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PropsEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("PropsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPropString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(-7), "-7"},
		{2.5, "2.5"},
		{[]int{1}, "[1]"},
	}

	for _, tt := range tests {
		if got := PropString(tt.in); got != tt.want {
			t.Errorf("PropString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPropClassification(t *testing.T) {
	if !IsEventProp("onClick") || !IsEventProp("ONINPUT") {
		t.Error("on* props are events")
	}
	if IsEventProp("on") {
		t.Error("bare 'on' is not an event")
	}
	if !IsInternalProp("key") || !IsInternalProp("_ref") || IsInternalProp("class") {
		t.Error("unexpected internal prop classification")
	}
	if !IsBooleanAttr("hidden") || IsBooleanAttr("class") {
		t.Error("unexpected boolean attribute classification")
	}
	if AttrName("className") != "class" || AttrName("htmlFor") != "for" || AttrName("id") != "id" {
		t.Error("unexpected attribute name mapping")
	}
}
