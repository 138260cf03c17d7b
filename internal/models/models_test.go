package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestParseRole(t *testing.T) {
	for _, r := range AllRoles() {
		got, err := ParseRole(" " + string(r) + " ")
		if err != nil || got != r {
			t.Fatalf("ParseRole(%q) = %q, %v", r, got, err)
		}
	}
	if _, err := ParseRole("superuser"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if got, _ := ParseRole("MENTOR"); got != RoleMentor {
		t.Fatalf("case-insensitive parse failed: %q", got)
	}
}

func TestRoomKeyIsOrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	if RoomKey(a, b) != RoomKey(b, a) {
		t.Fatal("room key depends on argument order")
	}

	keys := RoomKeys(a, b)
	found := false
	for _, k := range keys {
		if k == RoomKey(a, b) {
			found = true
		}
	}
	if !found {
		t.Fatalf("canonical key %q missing from %v", RoomKey(a, b), keys)
	}
}

func TestListJoinSplitRoundTrip(t *testing.T) {
	in := []string{"Go", "Design"}
	stored := JoinList(in)
	if stored != "Go, Design" {
		t.Fatalf("stored = %q", stored)
	}
	if out := SplitList(stored); !reflect.DeepEqual(out, in) {
		t.Fatalf("round trip = %v", out)
	}
}

func TestJoinListDropsBlanks(t *testing.T) {
	if got := JoinList([]string{" Go ", "", "  "}); got != "Go" {
		t.Fatalf("got %q", got)
	}
	if got := SplitList(""); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestOpportunityTypeValid(t *testing.T) {
	if !OpportunityInternships.Valid() || OpportunityType("gigs").Valid() {
		t.Fatal("unexpected validity")
	}
}
