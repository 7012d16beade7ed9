package irc

import "testing"

func TestNumericName(t *testing.T) {
	if got := NumericName(RplWelcome); got != "RPL_WELCOME" {
		t.Errorf("Expected RPL_WELCOME, got %q", got)
	}
	if got := NumericName(ErrNicknameInUse); got != "ERR_NICKNAMEINUSE" {
		t.Errorf("Expected ERR_NICKNAMEINUSE, got %q", got)
	}
	// Unknown codes have no name but are still valid messages.
	if got := NumericName(999); got != "" {
		t.Errorf("Expected empty name for unknown code, got %q", got)
	}
}
