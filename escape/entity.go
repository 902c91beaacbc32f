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

// predefinedEntities is the restricted entity set the parser's text grammar
// recognizes (spec: "& is legal only when followed by one of the predefined
// entities lt gt amp apos quot terminated by ;"). No DTD, no numeric
// character references. Text content is passed through to the sink with
// entity references left verbatim (the original xml_stream_parser.cc's
// ConsumeText only validates the reference, it never substitutes it), so
// only the name set matters here, not the character each one stands for.
var predefinedEntities = map[string]bool{
	"lt":   true,
	"gt":   true,
	"amp":  true,
	"apos": true,
	"quot": true,
}

// IsPredefinedEntity reports whether name (without the surrounding & and ;)
// is one of the five entities this parser understands.
func IsPredefinedEntity(name string) bool {
	return predefinedEntities[name]
}

// EntityNameAt returns the entity name found at b[0] == '&', terminated by
// ';' within the maximum length of a predefined entity, and the number of
// bytes the whole reference (including '&' and ';') occupies. ok is false
// if b does not start a well-formed, terminated entity reference at all;
// callers still need IsPredefinedEntity to check the name is one of the
// five recognized ones.
func EntityNameAt(b []byte) (name string, n int, ok bool) {
	if len(b) == 0 || b[0] != '&' {
		return "", 0, false
	}
	limit := len(b)
	if limit > 6 {
		limit = 6 // "&apos;" is the longest predefined entity, 6 bytes.
	}
	for i := 1; i < limit; i++ {
		if b[i] == ';' {
			return string(b[1:i]), i + 1, true
		}
	}
	return "", 0, false
}
