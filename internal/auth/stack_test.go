package auth_test

import (
	"errors"
	"testing"

	"laureld/internal/auth"
)

type fakeBackend struct {
	kind auth.FailureKind
	ok   bool
	name string
}

func (f *fakeBackend) Authenticate(name string, choice auth.Choice) (string, auth.FailureKind, error) {
	if f.ok {
		return f.name, 0, nil
	}
	return "", f.kind, errors.New("fake failure")
}

func TestStackSuccessShortCircuits(t *testing.T) {
	stack := &auth.Stack{Entries: []*auth.StackEntry{
		{Name: "a", Backend: &fakeBackend{kind: auth.FailureUserUnknown}},
		{Name: "b", Backend: &fakeBackend{ok: true, name: "uid=alice,dc=example"}},
	}}
	name, err := stack.Authenticate("alice", auth.Choice{Credentials: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "uid=alice,dc=example" {
		t.Fatalf("got name %q", name)
	}
}

func TestStackUserUnknownContinues(t *testing.T) {
	called := 0
	stack := &auth.Stack{Entries: []*auth.StackEntry{
		{Name: "a", Backend: &fakeBackend{kind: auth.FailureUserUnknown}},
		{Name: "b", Backend: &countingBackend{count: &called}},
	}}
	_, err := stack.Authenticate("alice", auth.Choice{})
	if err == nil {
		t.Fatal("expected error")
	}
	if called != 1 {
		t.Fatalf("expected second backend to run once, ran %d times", called)
	}
}

func TestStackBadCredsBreaks(t *testing.T) {
	called := 0
	stack := &auth.Stack{Entries: []*auth.StackEntry{
		{Name: "a", Backend: &fakeBackend{kind: auth.FailureBadCreds}},
		{Name: "b", Backend: &countingBackend{count: &called}},
	}}
	_, err := stack.Authenticate("alice", auth.Choice{})
	if err == nil {
		t.Fatal("expected error")
	}
	if called != 0 {
		t.Fatalf("expected break before second backend, ran %d times", called)
	}
}

func TestStackExplicitOverrideContinuesOnBadCreds(t *testing.T) {
	called := 0
	stack := &auth.Stack{Entries: []*auth.StackEntry{
		{
			Name:    "a",
			Backend: &fakeBackend{kind: auth.FailureBadCreds},
			Actions: map[auth.FailureKind]auth.Action{auth.FailureBadCreds: auth.ActionContinue},
		},
		{Name: "b", Backend: &countingBackend{count: &called}},
	}}
	_, err := stack.Authenticate("alice", auth.Choice{})
	if err == nil {
		t.Fatal("expected error")
	}
	if called != 1 {
		t.Fatalf("expected override to let second backend run, ran %d times", called)
	}
}

type countingBackend struct {
	count *int
}

func (c *countingBackend) Authenticate(name string, choice auth.Choice) (string, auth.FailureKind, error) {
	*c.count++
	return "", auth.FailureOther, errors.New("still fails")
}
