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

import "unicode/utf8"

// UTF8ValidPrefixLen returns the length in bytes of the longest prefix of b
// that is structurally valid UTF-8. It is the Go stdlib re-expression of
// protobuf's UTF8SpnStructurallyValid: XmlStreamParser.Parse calls this on
// every incoming chunk so a trailing partial multi-byte sequence can be
// held back as leftover rather than rejected outright.
func UTF8ValidPrefixLen(b []byte) int {
	i := 0
	for i < len(b) {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			// size == 0 only for an empty slice, which the loop guard
			// excludes; size == 1 means a genuinely invalid byte. Either
			// way, i is the end of the valid prefix.
			if size == 1 {
				return i
			}
			break
		}
		i += size
	}
	return i
}

// UTF8Valid reports whether b is structurally valid UTF-8 in its entirety.
func UTF8Valid(b []byte) bool {
	return UTF8ValidPrefixLen(b) == len(b)
}

// ReplaceInvalidUTF8 returns a copy of b with every invalid byte replaced by
// its own copy of replacement, keeping structurally valid runs untouched.
// Grounded on ReplaceInvalidCodePoints in the original xml_stream_parser.cc,
// used when Parser is constructed with WithCoerceToUTF8.
func ReplaceInvalidUTF8(b []byte, replacement string) []byte {
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		n := UTF8ValidPrefixLen(b)
		out = append(out, b[:n]...)
		if n == len(b) {
			break
		}
		out = append(out, replacement...)
		b = b[n+1:]
	}
	return out
}
