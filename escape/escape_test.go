// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package escape

import (
	"strings"
	"testing"
)

func writeEscaped(t *testing.T, s string) string {
	t.Helper()
	var sb strings.Builder
	if err := WriteEscaped(&sb, s); err != nil {
		t.Fatalf("WriteEscaped(%q): %v", s, err)
	}
	return sb.String()
}

func TestWriteEscapedControlCharacters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\bb", `a\bb`},
		{"a\fb", `a\fb`},
		{"a\nb", `a\nb`},
		{"a\rb", `a\rb`},
		{"a\tb", `a\tb`},
		{"a\vb", `a\vb`},
		{`a\b`, `a\\b`},
		{`a"b`, `a\"b`},
		{"a<b", `a\u003cb`},
		{"a>b", `a\u003eb`},
	}
	for _, tt := range tests {
		if got := writeEscaped(t, tt.in); got != tt.want {
			t.Errorf("WriteEscaped(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestWriteEscapedApostropheNotEscaped matches
// XmlObjectWriterTest.StringsEscapedAndEnclosedInDoubleQuotes: an apostrophe
// has no backslash escape and passes through untouched.
func TestWriteEscapedApostropheNotEscaped(t *testing.T) {
	in := "'<>&amp;\\\"\r\n"
	want := `'\u003c\u003e&amp;\\\"\r\n`
	if got := writeEscaped(t, in); got != want {
		t.Errorf("WriteEscaped(%q) = %q, want %q", in, got, want)
	}
}

func TestWriteEscapedPlainTextUnchanged(t *testing.T) {
	in := "hello, world"
	if got := writeEscaped(t, in); got != in {
		t.Errorf("WriteEscaped(%q) = %q, want unchanged", in, got)
	}
}

func TestWriteEscapedInvalidUTF8(t *testing.T) {
	in := "a\xffb"
	want := "a\\ufffdb"
	if got := writeEscaped(t, in); got != want {
		t.Errorf("WriteEscaped(%q) = %q, want %q", in, got, want)
	}
}

func TestWriteEscapedSupplementaryCodePointUnchanged(t *testing.T) {
	in := "\U0001F600" // valid UTF-8 outside the basic multilingual plane.
	if got := writeEscaped(t, in); got != in {
		t.Errorf("WriteEscaped(%q) = %q, want unchanged", in, got)
	}
}

func TestEncodeDecodeSurrogatePair(t *testing.T) {
	r := rune(0x1F600)
	hi, lo := EncodeSurrogatePair(r)
	got, ok := DecodeSurrogatePair(hi, lo)
	if !ok || got != r {
		t.Errorf("DecodeSurrogatePair(%#x, %#x) = (%#x, %v), want (%#x, true)", hi, lo, got, ok, r)
	}
	if !IsHighSurrogate(hi) {
		t.Errorf("IsHighSurrogate(%#x) = false, want true", hi)
	}
	if !IsLowSurrogate(lo) {
		t.Errorf("IsLowSurrogate(%#x) = false, want true", lo)
	}
}

func TestDecodeSurrogatePairRejectsNonSurrogates(t *testing.T) {
	if _, ok := DecodeSurrogatePair(0x0041, 0xDC00); ok {
		t.Error("DecodeSurrogatePair accepted a non-surrogate high half")
	}
	if _, ok := DecodeSurrogatePair(0xD800, 0x0041); ok {
		t.Error("DecodeSurrogatePair accepted a non-surrogate low half")
	}
}
