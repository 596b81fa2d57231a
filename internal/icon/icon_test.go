package icon

import "testing"

func TestLookupFallback(t *testing.T) {
	ic := Lookup("no-such-icon")
	if ic.Name != Fallback {
		t.Errorf("fallback icon = %s, want %s", ic.Name, Fallback)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("lock"); got != "lock" {
		t.Errorf("Normalize(lock) = %s", got)
	}
	if got := Normalize(""); got != Fallback {
		t.Errorf("Normalize(empty) = %s, want %s", got, Fallback)
	}
	if got := Normalize("ShieldIcon"); got != Fallback {
		t.Errorf("Normalize(unknown) = %s, want %s", got, Fallback)
	}
}

func TestNamesIncludeFallback(t *testing.T) {
	found := false
	for _, name := range Names() {
		if name == Fallback {
			found = true
		}
		if !Valid(name) {
			t.Errorf("Names() returned unregistered name %s", name)
		}
	}
	if !found {
		t.Errorf("fallback %s missing from Names()", Fallback)
	}
}
