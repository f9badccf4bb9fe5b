package transform

import (
	"errors"
	"strings"
	"testing"
)

func TestIdentity(t *testing.T) {
	got, err := Identity.Apply("same\n")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "same\n" {
		t.Errorf("got %q", got)
	}
}

func TestChainOrder(t *testing.T) {
	a := Func(func(s string) (string, error) { return s + "a", nil })
	b := Func(func(s string) (string, error) { return s + "b", nil })

	got, err := Chain(a, nil, Chain(b, a)).Apply(">")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != ">aba" {
		t.Errorf("got %q, want %q", got, ">aba")
	}
}

func TestChainEmptyIsIdentity(t *testing.T) {
	got, err := Chain().Apply("x")
	if err != nil || got != "x" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestChainStopsAtError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	count := Func(func(s string) (string, error) { calls++; return s, nil })
	fail := Func(func(string) (string, error) { return "", boom })

	_, err := Chain(count, fail, count).Apply("x")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Errorf("error should name the failing step: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRenameTokens(t *testing.T) {
	tx := RenameTokens(map[string]string{
		"foo":    "bar",
		"bar":    "baz",
		"foobar": "whole",
		"":       "ignored",
	})

	got, err := tx.Apply("foo bar foobar")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got != "bar baz whole" {
		t.Errorf("got %q, want %q", got, "bar baz whole")
	}
}

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	if len(names) != 2 || names[0] != RenameVSCodeTools || names[1] != StripVSCodeFrontMatter {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("shout", Func(func(s string) (string, error) { return strings.ToUpper(s), nil }))

	tx, err := r.Build([]string{RenameVSCodeTools, "shout"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, _ := tx.Apply("use #tool:runInTerminal")
	if got != "USE #TOOL:SHELL" {
		t.Errorf("got %q", got)
	}
}

func TestRegistryUnknown(t *testing.T) {
	_, err := NewRegistry().Build([]string{"nope"})
	if err == nil {
		t.Fatal("expected error for unknown transform")
	}
	if !strings.Contains(err.Error(), "nope") || !strings.Contains(err.Error(), StripVSCodeFrontMatter) {
		t.Errorf("error should name the transform and list known ones: %v", err)
	}
}

func TestRegistryBuildEmpty(t *testing.T) {
	tx, err := NewRegistry().Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, _ := tx.Apply("x"); got != "x" {
		t.Errorf("got %q", got)
	}
}
