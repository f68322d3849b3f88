package reservation

import "testing"

func TestNewClassKeysShareHashTag(t *testing.T) {
	k := NewClassKeys(42)
	want := "{class:42}"
	for name, got := range map[string]string{
		"Available":   k.Available,
		"Reserved":    k.Reserved,
		"Sold":        k.Sold,
		"Pool":        k.Pool,
		"ReservedExp": k.ReservedExp,
	} {
		if len(got) < len(want) || got[:len(want)] != want {
			t.Errorf("%s = %q, want prefix %q", name, got, want)
		}
	}
	if k.Available == k.Reserved || k.Reserved == k.Sold || k.Sold == k.Pool {
		t.Error("container keys must be distinct")
	}
}
