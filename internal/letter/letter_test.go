package letter

import "testing"

func TestIndex(t *testing.T) {
	for _, tc := range []struct {
		r     rune
		i     int
		upper bool
		ok    bool
	}{
		{'a', 0, false, true},
		{'z', 25, false, true},
		{'A', 0, true, true},
		{'Q', 16, true, true},
		{'é', 0, false, false},
		{'É', 0, false, false},
		{'1', 0, false, false},
		{' ', 0, false, false},
		{'ß', 0, false, false},
	} {
		i, upper, ok := Index(tc.r)
		if ok != tc.ok || (ok && (i != tc.i || upper != tc.upper)) {
			t.Errorf("Index(%q) = %d, %t, %t; want %d, %t, %t", tc.r, i, upper, ok, tc.i, tc.upper, tc.ok)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for i := range Count {
		for _, upper := range []bool{false, true} {
			r := Rune(i, upper)
			j, u, ok := Index(r)
			if !ok || j != i || u != upper {
				t.Fatalf("Index(Rune(%d, %t)) = %d, %t, %t", i, upper, j, u, ok)
			}
		}
	}
}

func TestRunePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Rune(26) did not panic")
		}
	}()
	Rune(Count, false)
}
