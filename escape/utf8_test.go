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

import "testing"

func TestUTF8ValidPrefixLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"hello", 5},
		{"", 0},
		{"h\xffllo", 1},
		{"héllo", 6},
	}
	for _, tt := range tests {
		if got := UTF8ValidPrefixLen([]byte(tt.in)); got != tt.want {
			t.Errorf("UTF8ValidPrefixLen(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUTF8ValidPrefixLenTruncatedMultibyte(t *testing.T) {
	// "é" is 0xC3 0xA9; keep only the leading byte, an incomplete sequence
	// that a chunked parser must hold back rather than reject.
	in := []byte("ab\xc3")
	if got := UTF8ValidPrefixLen(in); got != 2 {
		t.Errorf("UTF8ValidPrefixLen(%q) = %d, want 2", in, got)
	}
}

func TestUTF8Valid(t *testing.T) {
	if !UTF8Valid([]byte("hello, 世界")) {
		t.Error("UTF8Valid(valid UTF-8) = false, want true")
	}
	if UTF8Valid([]byte("a\xffb")) {
		t.Error("UTF8Valid(invalid UTF-8) = true, want false")
	}
}

func TestReplaceInvalidUTF8(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"a\xffb", "a?b"},
		{"\xff\xfe", "??"},
		{"", ""},
	}
	for _, tt := range tests {
		got := string(ReplaceInvalidUTF8([]byte(tt.in), "?"))
		if got != tt.want {
			t.Errorf("ReplaceInvalidUTF8(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
