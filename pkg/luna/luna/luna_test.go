package luna

import (
	"errors"
	"testing"

	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/format"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"local x:number=1+2", "local x: number = 1 + 2\n"},
		{"(1+2)*3; not(a==b)", "(1 + 2) * 3\nnot (a == b)\n"},
		{"", ""},
		{"local t: {[string]:any}", "local t: { [string]: any }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Format(tt.input)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	s := format.DefaultSettings()
	s.OperatorSpacing.Add = false
	s.OperatorSpacing.Negate = true

	got, err := FormatWith("a + -b", s)
	if err != nil {
		t.Fatalf("FormatWith failed: %v", err)
	}
	if got != "a+- b\n" {
		t.Errorf("expected %q, got %q", "a+- b\n", got)
	}
}

func TestFormatError(t *testing.T) {
	_, err := Format("local x = ")

	var lerr *lerrors.LunaError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected a LunaError, got %v", err)
	}
	if !lerr.IsParseError() {
		t.Errorf("expected a parse error, got %s", lerr.Class)
	}
}

func TestCheck(t *testing.T) {
	if errs := Check("local a = 1", "a.lua"); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	errs := Check("local a: strng = 1", "a.lua")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Code != "PARSE-0006" || errs[0].File != "a.lua" {
		t.Errorf("unexpected error %+v", errs[0])
	}
}

func TestParse(t *testing.T) {
	chunk, err := Parse("local a = 1\na", "")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(chunk.Statements) != 2 {
		t.Errorf("expected 2 statements, got %d", len(chunk.Statements))
	}
	if _, err := Parse("if", ""); err == nil {
		t.Error("expected an error")
	}
}
