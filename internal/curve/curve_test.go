package curve

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
)

func randKey(l int) string {
	s := &strings.Builder{}
	s.Grow(l)
	for range l {
		s.WriteRune(rune(0x20 + rand.Int32N(0x300)))
	}
	return s.String()
}

func TestMT19937Reference(t *testing.T) {
	for _, tc := range []struct {
		seed uint32
		want []uint32
	}{
		{5489, []uint32{3499211612}},
		{0, []uint32{2357136044}},
		{448, []uint32{2476290012, 2651597052, 3493751041}},
	} {
		m := newMT19937(tc.seed)
		for i, want := range tc.want {
			if have := m.Uint32(); have != want {
				t.Fatalf("seed %d draw %d: %d != %d", tc.seed, i, have, want)
			}
		}
	}
}

func TestShuffleReference(t *testing.T) {
	p := make([]int, 10)
	for i := range p {
		p[i] = i
	}
	newMT19937(0).shuffle(p)

	if have, want := fmt.Sprint(p), "[2 8 4 9 1 6 7 3 0 5]"; have != want {
		t.Fatalf("shuffle(seed 0, n 10) = %s, want %s", have, want)
	}
}

func TestDeriveSeed(t *testing.T) {
	for _, tc := range []struct {
		key  string
		want uint64
	}{
		{"", 0},
		{"test", 448},
		{"key", 329},
		{"tset", 448},
		{"é", 233},
		{"日本", 0x65e5 + 0x672c},
	} {
		if have := DeriveSeed(tc.key); have != tc.want {
			t.Errorf("DeriveSeed(%q) = %d, want %d", tc.key, have, tc.want)
		}
	}
}

func TestGenerateReference(t *testing.T) {
	for _, tc := range []struct {
		key  string
		want string
	}{
		{"test", "CKDNGSFEVTMJXHYUZPLIQRAOWB"},
		{"key", "PXKQHCNWIDULGOTYBVFERAZMSJ"},
	} {
		if have := Generate(tc.key).String(); have != tc.want {
			t.Errorf("Generate(%q) = %s, want %s", tc.key, have, tc.want)
		}
	}

	if have, want := fmt.Sprint(Generate("test")), "CKDNGSFEVTMJXHYUZPLIQRAOWB"; have != want {
		t.Errorf("Sprint = %s, want %s", have, want)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for range 50 {
		key := randKey(12)
		a, b := Generate(key), Generate(key)
		if !a.Equal(b) {
			t.Fatalf("Generate(%q) not deterministic: %s != %s", key, a, b)
		}
		if err := a.Validate(); err != nil {
			t.Fatalf("Generate(%q): %v", key, err)
		}
	}
}

func TestSeedTruncation(t *testing.T) {
	if !FromSeed(1<<32 + 7).Equal(FromSeed(7)) {
		t.Fatal("seeds equal mod 2^32 must give the same curve")
	}
}

func TestInverseIdentity(t *testing.T) {
	for range 100 {
		key := randKey(8)
		t.Run(key, func(t *testing.T) {
			p := Generate(key)
			inv, err := Invert(p)
			if err != nil {
				t.Fatal(err)
			}
			for i := range Size {
				if have := inv.Encode(p.Encode(i)); have != i {
					t.Fatalf("inv(p(%d)) = %d", i, have)
				}
				if have := p.Encode(inv.Encode(i)); have != i {
					t.Fatalf("p(inv(%d)) = %d", i, have)
				}
			}
		})
	}
}

func TestDecodeLetter(t *testing.T) {
	p := Generate("test")
	for i := range Size {
		have, err := DecodeLetter(p.Encode(i), p)
		if err != nil {
			t.Fatal(err)
		}
		if have != i {
			t.Fatalf("DecodeLetter(Encode(%d)) = %d", i, have)
		}
	}

	if _, err := DecodeLetter(Size, p); err == nil {
		t.Fatal("DecodeLetter accepted out of range index")
	}
	if _, err := DecodeLetter(0, Permutation{0, 1}); !errors.Is(err, ErrMalformedPermutation) {
		t.Fatalf("DecodeLetter with short permutation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dup := Identity()
	dup[3] = 4

	neg := Identity()
	neg[0] = -1

	big := Identity()
	big[25] = 26

	for name, p := range map[string]Permutation{
		"nil":       nil,
		"short":     Identity()[:25],
		"long":      append(Identity(), 0),
		"duplicate": dup,
		"negative":  neg,
		"too large": big,
	} {
		if err := p.Validate(); !errors.Is(err, ErrMalformedPermutation) {
			t.Errorf("%s: Validate() = %v", name, err)
		}
		if _, err := Invert(p); !errors.Is(err, ErrMalformedPermutation) {
			t.Errorf("%s: Invert() = %v", name, err)
		}
	}

	if err := Identity().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("ckdngsfevtmjxhyuzpliqraowb")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(Generate("test")) {
		t.Fatalf("Parse = %s", p)
	}

	for _, s := range []string{
		"",
		"ABC",
		"AACDEFGHIJKLMNOPQRSTUVWXYZ",
		"ABCDEFGHIJKLMNOPQRSTUVWXY1",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZA",
	} {
		if _, err := Parse(s); !errors.Is(err, ErrMalformedPermutation) {
			t.Errorf("Parse(%q) = %v", s, err)
		}
	}
}

func TestPure(t *testing.T) {
	p := Generate("test")
	before := p.String()

	_ = p.Inverse()
	_, _ = Invert(p)
	_, _ = DecodeLetter(3, p)

	if p.String() != before {
		t.Fatalf("permutation mutated: %s -> %s", before, p)
	}
}
