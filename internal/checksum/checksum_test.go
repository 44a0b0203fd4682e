package checksum

import "testing"

func TestSealVerifyRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte(`{}`),
		[]byte(`{"user":{"id":"u1"},"accounts":[],"transactions":[]}`),
		[]byte(`{"descricao":"Salário","valor":5000.5}`), // non-ASCII
		[]byte(`[1,2,3]`),
	}
	for _, p := range payloads {
		sum := Seal(p)
		if sum == "" {
			t.Fatalf("empty checksum for %s", p)
		}
		if !Verify(p, sum) {
			t.Errorf("Verify(Seal(%s)) = false", p)
		}
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	original := []byte(`{"accounts":[{"name":"Nubank","balance":100}]}`)
	sum := Seal(original)

	tampered := []byte(`{"accounts":[{"name":"Nubank","balance":999}]}`)
	if Verify(tampered, sum) {
		t.Error("tampered payload must not verify")
	}
}

func TestSealIgnoresWhitespace(t *testing.T) {
	compactForm := []byte(`{"a":1,"b":[2,3]}`)
	pretty := []byte("{\n  \"a\": 1,\n  \"b\": [2, 3]\n}")
	if Seal(compactForm) != Seal(pretty) {
		t.Error("pretty-printed payload must seal to the same checksum")
	}
}

func TestSealKnownValues(t *testing.T) {
	// Pinned outputs: h = h*31 + c over UTF-16 code units, int32 wrap,
	// lowercase hex of the absolute value, no zero padding.
	cases := []struct {
		in   string
		want string
	}{
		{`{}`, "f62"}, // '{'*31 + '}' = 123*31 + 125 = 3938
		{`1`, "31"},   // '1' = 49
	}
	for _, tc := range cases {
		if got := Seal([]byte(tc.in)); got != tc.want {
			t.Errorf("Seal(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSealNonJSONInput(t *testing.T) {
	// Invalid JSON still produces a checksum.
	if Seal([]byte("not json")) == "" {
		t.Error("expected a checksum for non-JSON input")
	}
}
