package auth

import "testing"

func TestSessionCell_StartsSignedOut(t *testing.T) {
	cell := NewSessionCell()

	if s, ok := cell.Get(); ok || s != nil {
		t.Fatalf("Get() = %v, %v; want nil, false", s, ok)
	}
}

func TestSessionCell_SetAndGet(t *testing.T) {
	cell := NewSessionCell()

	cell.Set(&Session{UserID: "u1", Email: "a@b.co"})

	s, ok := cell.Get()
	if !ok {
		t.Fatal("Get() ok = false after Set")
	}
	if s.UserID != "u1" || s.Email != "a@b.co" {
		t.Errorf("Get() = %+v, want u1/a@b.co", s)
	}
}

func TestSessionCell_GetReturnsCopy(t *testing.T) {
	cell := NewSessionCell()
	cell.Set(&Session{UserID: "u1"})

	s, _ := cell.Get()
	s.UserID = "mutated"

	again, _ := cell.Get()
	if again.UserID != "u1" {
		t.Error("mutating the returned session leaked into the cell")
	}
}

func TestSessionCell_NotifiesOnEveryTransition(t *testing.T) {
	cell := NewSessionCell()

	var got []*Session
	cell.Subscribe(func(s *Session) { got = append(got, s) })

	cell.Set(&Session{UserID: "u1"}) // none → present
	cell.Set(&Session{UserID: "u2"}) // present → different present
	cell.Set(nil)                    // present → none

	if len(got) != 3 {
		t.Fatalf("subscriber called %d times, want 3", len(got))
	}
	if got[0].UserID != "u1" || got[1].UserID != "u2" || got[2] != nil {
		t.Errorf("transitions = %v, %v, %v", got[0], got[1], got[2])
	}
}

func TestSessionCell_NoNotifyWithoutChange(t *testing.T) {
	cell := NewSessionCell()

	calls := 0
	cell.Subscribe(func(*Session) { calls++ })

	cell.Set(&Session{UserID: "u1", Email: "a@b.co"})
	cell.Set(&Session{UserID: "u1", Email: "a@b.co"}) // same session
	cell.Set(nil)
	cell.Set(nil) // already signed out

	if calls != 2 {
		t.Errorf("subscriber called %d times, want 2", calls)
	}
}

func TestSessionCell_Unsubscribe(t *testing.T) {
	cell := NewSessionCell()

	calls := 0
	unsub := cell.Subscribe(func(*Session) { calls++ })

	cell.Set(&Session{UserID: "u1"})
	unsub()
	unsub() // second call is harmless
	cell.Set(nil)

	if calls != 1 {
		t.Errorf("subscriber called %d times after unsubscribe, want 1", calls)
	}
}
