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

func TestDecodeHex4(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"0041", 0x0041, false},
		{"ffff", 0xffff, false},
		{"FFFF", 0xffff, false},
		{"D800", 0xD800, false},
		{"00g1", 0, true},
		{"004", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := DecodeHex4([]byte(tt.in))
		if (err != nil) != tt.wantErr {
			t.Errorf("DecodeHex4(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("DecodeHex4(%q) = %#04x, want %#04x", tt.in, got, tt.want)
		}
	}
}

func TestDecodeHex4IgnoresTrailingBytes(t *testing.T) {
	got, err := DecodeHex4([]byte("0041rest"))
	if err != nil {
		t.Fatalf("DecodeHex4: %v", err)
	}
	if got != 0x0041 {
		t.Errorf("DecodeHex4(%q) = %#04x, want %#04x", "0041rest", got, 0x0041)
	}
}
