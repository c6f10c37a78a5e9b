package domain

import "testing"

func TestNewUser(t *testing.T) {
	user := NewUser("Ana", "ana@x.com", "pw1")

	if user.ID != 0 {
		t.Errorf("Expected unassigned ID, got %d", user.ID)
	}

	if user.Name != "Ana" {
		t.Errorf("Expected name %s, got %s", "Ana", user.Name)
	}

	if user.Email != "ana@x.com" {
		t.Errorf("Expected email %s, got %s", "ana@x.com", user.Email)
	}

	if user.Password != "pw1" {
		t.Errorf("Expected password to be kept as given, got %s", user.Password)
	}
}
