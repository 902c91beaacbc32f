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

// Package xmlnames interns tag and attribute names so that repeated
// occurrences of the same name across a parse session share one string
// allocation. It is the xmlparser-side counterpart of the Decoder.names
// field in the package this module started from, lifted out so xmlwriter
// and benchmarks can reuse the same interning table shape.
package xmlnames

import "github.com/google/triemap"

// Interner deduplicates name strings keyed by their rune content. The zero
// value is ready to use, matching triemap.RuneSliceMap's own zero value.
type Interner struct {
	names triemap.RuneSliceMap
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{}
}

// Intern returns a single shared string for b's contents. Repeated calls
// with byte-identical content return the exact same string value, so
// callers that hold on to many tag names (the tag-name stack, in
// particular) don't pay for one allocation per occurrence.
func (in *Interner) Intern(b []byte) string {
	runes := []rune(string(b))
	if v, ok := in.names.Get(runes); ok {
		return v.(string)
	}
	s := string(b)
	in.names.Put(runes, s)
	return s
}
