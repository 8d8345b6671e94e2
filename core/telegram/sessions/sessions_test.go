package sessions

import (
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

type stubContext struct {
	tele.Context
	sender *tele.User
}

func (s *stubContext) Sender() *tele.User { return s.sender }

func TestStepAndValueLifecycle(t *testing.T) {
	s := NewStore()
	const uid int64 = 1

	if s.InProgress(uid) {
		t.Fatal("fresh store reports a session in progress")
	}

	s.SetStep(uid, "form.name")
	s.SetValue(uid, "name", "Ali")
	s.SetValue(uid, "weight", 22.5)

	if got := s.CurrentStep(uid); got != "form.name" {
		t.Fatalf("step = %q", got)
	}
	if !s.InProgress(uid) {
		t.Fatal("session not in progress after SetStep")
	}
	if v, ok := s.StringValue(uid, "name"); !ok || v != "Ali" {
		t.Fatalf("name = (%q, %v)", v, ok)
	}
	if v, ok := s.Float64Value(uid, "weight"); !ok || v != 22.5 {
		t.Fatalf("weight = (%v, %v)", v, ok)
	}
	if _, ok := s.Value(uid, "absent"); ok {
		t.Fatal("absent key reported present")
	}

	s.Clear(uid)
	if s.InProgress(uid) {
		t.Fatal("session survived Clear")
	}
	if _, ok := s.Value(uid, "name"); ok {
		t.Fatal("values survived Clear")
	}
}

func TestValuesTypeMismatch(t *testing.T) {
	s := NewStore()
	s.SetValue(1, "name", 42)
	if _, ok := s.StringValue(1, "name"); ok {
		t.Fatal("int read back as string")
	}
	if _, ok := s.Float64Value(1, "name"); ok {
		t.Fatal("int read back as float64")
	}
}

func TestValuesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.SetValue(1, "k", "v")
	vals := s.Values(1)
	vals["k"] = "mutated"
	if v, _ := s.StringValue(1, "k"); v != "v" {
		t.Fatalf("store value = %q, mutated through Values copy", v)
	}
}

func TestHandleDispatchesByStep(t *testing.T) {
	s := NewStore()
	var hits []string
	s.Bind("a", func(tele.Context) error { hits = append(hits, "a"); return nil })
	s.Bind("b", func(tele.Context) error { hits = append(hits, "b"); return nil })

	c := &stubContext{sender: &tele.User{ID: 7}}

	if err := s.Handle(c); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Fatal("handler ran without an active session")
	}

	s.SetStep(7, "b")
	if err := s.Handle(c); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0] != "b" {
		t.Fatalf("hits = %v", hits)
	}
}

func TestHandleUnknownStepClearsSession(t *testing.T) {
	s := NewStore()
	c := &stubContext{sender: &tele.User{ID: 7}}
	s.SetStep(7, "ghost")
	if err := s.Handle(c); err != nil {
		t.Fatal(err)
	}
	if s.InProgress(7) {
		t.Fatal("session with unbound step was not cleared")
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	s := NewStore()
	s.SetStep(1, "x")
	s.SetValue(1, "k", "one")
	s.SetStep(2, "y")
	s.SetValue(2, "k", "two")

	if v, _ := s.StringValue(1, "k"); v != "one" {
		t.Fatalf("user 1 value = %q", v)
	}
	if v, _ := s.StringValue(2, "k"); v != "two" {
		t.Fatalf("user 2 value = %q", v)
	}
	s.Clear(1)
	if s.InProgress(2) != true {
		t.Fatal("clearing user 1 affected user 2")
	}
}

func TestWithUserWaitsForInFlightHandle(t *testing.T) {
	s := NewStore()
	const uid int64 = 7
	s.SetStep(uid, "a")

	entered := make(chan struct{})
	release := make(chan struct{})
	s.Bind("a", func(tele.Context) error {
		close(entered)
		<-release
		s.SetStep(uid, "b")
		return nil
	})

	handleDone := make(chan error, 1)
	go func() {
		handleDone <- s.Handle(&stubContext{sender: &tele.User{ID: uid}})
	}()
	<-entered

	cleared := make(chan struct{})
	go func() {
		_ = s.WithUser(uid, func() error {
			s.Clear(uid)
			return nil
		})
		close(cleared)
	}()

	select {
	case <-cleared:
		t.Fatal("WithUser ran while Handle held the user lock")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-handleDone; err != nil {
		t.Fatal(err)
	}
	<-cleared
	if s.InProgress(uid) {
		t.Fatalf("session survived the locked clear at step %q", s.CurrentStep(uid))
	}
}
