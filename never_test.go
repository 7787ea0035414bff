package changetoken

import "testing"

func TestNeverTokenNeverChanges(t *testing.T) {
	token := NewNeverToken()

	if token.Changed() {
		t.Error("never token should not report changed")
	}
	if !token.MustPoll() {
		t.Error("never token should require polling")
	}
}

func TestNeverTokenRegistrationInert(t *testing.T) {
	token := NewNeverToken()
	called := false

	reg := token.Register(func(any) { called = true }, nil)
	reg.Release()
	reg.Release()

	if called {
		t.Error("never token invoked a callback")
	}
	if token.Changed() {
		t.Error("never token changed after registration")
	}
}
