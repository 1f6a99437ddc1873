package person

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncode(t *testing.T) {
	p := New("John Doe", "98765432", "johnd@gmail.com")

	got := Encode(p)

	want := "John Doe p/98765432 e/johnd@gmail.com"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	persons := []Person{
		New("John Doe", "98765432", "johnd@gmail.com"),
		New("Alice", "1", "a@b.c"),
		New("Bob  Lee", "0012", "bob.lee@mail.example.org"),
		New("José Álvarez", "5550100", "jose@example.es"),
		New("agent_007", "7", "bond@mi6.uk"),
	}
	for _, p := range persons {
		t.Run(p.Name, func(t *testing.T) {
			got, err := Decode(Encode(p))
			if err != nil {
				t.Fatalf("Decode(Encode(%+v)) error = %v", p, err)
			}
			if got != p {
				t.Errorf("Decode(Encode(p)) = %+v, want %+v", got, p)
			}
		})
	}
}

func TestDecode_MarkerOrderIndependent(t *testing.T) {
	// Given the same record with phone and email swapped
	phoneFirst := "Bob p/123 e/b@b.com"
	emailFirst := "Bob e/b@b.com p/123"

	// When both are decoded
	a, err := Decode(phoneFirst)
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", phoneFirst, err)
	}
	b, err := Decode(emailFirst)
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", emailFirst, err)
	}

	// Then they produce the same person
	if a != b {
		t.Errorf("phone-first = %+v, email-first = %+v, want equal", a, b)
	}
	want := New("Bob", "123", "b@b.com")
	if a != want {
		t.Errorf("Decode(%q) = %+v, want %+v", phoneFirst, a, want)
	}
}

func TestDecode_TrimsSurroundingSpace(t *testing.T) {
	got, err := Decode("   Jane Tan   p/999   e/jane@tan.sg   ")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := New("Jane Tan", "999", "jane@tan.sg")
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{name: "empty", line: "", wantErr: ErrMalformed},
		{name: "whitespace only", line: "   ", wantErr: ErrMalformed},
		{name: "missing phone marker", line: "Bob 123 e/b@b.com", wantErr: ErrMalformed},
		{name: "missing email marker", line: "Bob p/123 b@b.com", wantErr: ErrMalformed},
		{name: "no markers", line: "Bob 123 b@b.com", wantErr: ErrMalformed},
		{name: "empty name", line: "p/123 e/b@b.com", wantErr: ErrMalformed},
		{name: "empty phone segment", line: "Bob p/e/b@b.com", wantErr: ErrMalformed},
		{name: "empty trailing email", line: "Bob p/123 e/", wantErr: ErrMalformed},
		{name: "duplicate phone marker", line: "Bob p/123 p/456", wantErr: ErrMalformed},
		{name: "three markers", line: "Bob p/123 e/b@b.com p/456", wantErr: ErrMalformed},
		{name: "blank phone", line: "Bob p/ e/b@b.com", wantErr: ErrInvalidPhone},
		{name: "space after phone marker", line: "Bob p/ 123 e/b@b.com", wantErr: ErrInvalidPhone},
		{name: "phone with letters", line: "Bob p/12a3 e/b@b.com", wantErr: ErrInvalidPhone},
		{name: "phone with dash", line: "Bob p/555-0100 e/b@b.com", wantErr: ErrInvalidPhone},
		{name: "phone with sign", line: "Bob p/+65123 e/b@b.com", wantErr: ErrInvalidPhone},
		{name: "email missing at", line: "Bob p/123 e/bb.com", wantErr: ErrInvalidEmail},
		{name: "email missing dot", line: "Bob p/123 e/b@bcom", wantErr: ErrInvalidEmail},
		{name: "email with space", line: "Bob p/123 e/b @b.com", wantErr: ErrInvalidEmail},
		{name: "name with punctuation", line: "Bob! p/123 e/b@b.com", wantErr: ErrInvalidName},
		{name: "name with hyphen", line: "Mary-Jane p/123 e/m@j.com", wantErr: ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.line)
			if err == nil {
				t.Fatalf("Decode(%q) error = nil, want %v", tt.line, tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			}
		})
	}
}

// A name holding marker text is not escaped on encode, so it cannot be
// decoded back. This documents the limitation rather than working around it.
func TestDecode_MarkerInsideNameIsNotEscaped(t *testing.T) {
	p := New("Shop ep", "123", "s@shop.com")
	if err := Validate(p); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	line := Encode(New("Shop ep/box", "123", "s@shop.com"))
	if _, err := Decode(line); !errors.Is(err, ErrMalformed) {
		t.Errorf("Decode(%q) error = %v, want %v", line, err, ErrMalformed)
	}
}

func TestEncodeAll_PreservesOrder(t *testing.T) {
	persons := []Person{
		New("A", "1", "a@a.com"),
		New("B", "2", "b@b.com"),
	}

	got := EncodeAll(persons)

	want := []string{"A p/1 e/a@a.com", "B p/2 e/b@b.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EncodeAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeAll_Empty(t *testing.T) {
	if got := EncodeAll(nil); len(got) != 0 {
		t.Errorf("EncodeAll(nil) = %v, want empty", got)
	}
}

func TestDecodeAll(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		lines := []string{"A p/1 e/a@a.com", "B e/b@b.com p/2"}

		got, err := DecodeAll(lines)
		if err != nil {
			t.Fatalf("DecodeAll() error = %v", err)
		}

		want := []Person{New("A", "1", "a@a.com"), New("B", "2", "b@b.com")}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DecodeAll() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("one invalid line fails the batch", func(t *testing.T) {
		lines := []string{"A p/1 e/a@a.com", "garbage", "B p/2 e/b@b.com"}

		got, err := DecodeAll(lines)
		if err == nil {
			t.Fatal("DecodeAll() error = nil, want error")
		}
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("DecodeAll() error = %v, want %v", err, ErrMalformed)
		}
		if got != nil {
			t.Errorf("DecodeAll() = %v, want nil", got)
		}
		if want := "line 2"; !strings.Contains(err.Error(), want) {
			t.Errorf("DecodeAll() error = %q, want to mention %q", err, want)
		}
	})

	t.Run("no lines", func(t *testing.T) {
		got, err := DecodeAll(nil)
		if err != nil {
			t.Fatalf("DecodeAll(nil) error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("DecodeAll(nil) = %v, want empty", got)
		}
	})
}
