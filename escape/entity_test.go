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

func TestIsPredefinedEntity(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"lt", true},
		{"gt", true},
		{"amp", true},
		{"apos", true},
		{"quot", true},
		{"nbsp", false},
		{"", false},
		{"LT", false},
	}
	for _, tt := range tests {
		if got := IsPredefinedEntity(tt.name); got != tt.want {
			t.Errorf("IsPredefinedEntity(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEntityNameAt(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantN    int
		wantOK   bool
	}{
		{"&lt;", "lt", 4, true},
		{"&apos;", "apos", 6, true},
		{"&apos;rest", "apos", 6, true},
		{"&nbsp;", "nbsp", 6, true}, // name validity is IsPredefinedEntity's job, not this one's.
		{"&toolong;", "", 0, false}, // no ';' within the 6-byte search window.
		{"&lt", "", 0, false},       // no terminating ';' at all.
		{"", "", 0, false},
		{"lt;", "", 0, false}, // doesn't start with '&'.
	}
	for _, tt := range tests {
		name, n, ok := EntityNameAt([]byte(tt.in))
		if name != tt.wantName || n != tt.wantN || ok != tt.wantOK {
			t.Errorf("EntityNameAt(%q) = (%q, %d, %v), want (%q, %d, %v)",
				tt.in, name, n, ok, tt.wantName, tt.wantN, tt.wantOK)
		}
	}
}
