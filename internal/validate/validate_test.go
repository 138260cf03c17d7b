package validate

import (
	"fmt"
	"testing"
)

func TestMinLen(t *testing.T) {
	if err := MinLen("  a ", 2, "First name"); err == nil || err.Error() != "First name must be at least 2 characters." {
		t.Fatalf("got %v", err)
	}
	if err := MinLen("Ada", 2, "First name"); err != nil {
		t.Fatal(err)
	}
}

func TestIsUnwraps(t *testing.T) {
	err := fmt.Errorf("save: %w", OneOf("x", "Gender", "Male", "Female", "Other"))
	if !Is(err) {
		t.Fatal("wrapped validation error not detected")
	}
	if Is(fmt.Errorf("db down")) {
		t.Fatal("plain error detected as validation")
	}
}

func TestFirst(t *testing.T) {
	a := Errorf("a")
	if First(nil, a, Errorf("b")) != a {
		t.Fatal("First did not return the first failure")
	}
	if First(nil, nil) != nil {
		t.Fatal("expected nil")
	}
}
