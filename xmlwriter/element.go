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

package xmlwriter

// element is one frame of the writer's element stack. Each frame is
// exclusively owned by its child and destroyed LIFO through pop; there is
// no shared ownership between frames.
type element struct {
	parent *element
	name   string

	isObject bool
	isList   bool

	hasChild     bool
	hasText      bool
	hasAttribute bool

	listChildNeedsEndTag bool
	anonymous            bool
}

func (e *element) isRoot() bool { return e.parent == nil }

func (e *element) isEmpty() bool {
	return !e.hasChild && !e.hasText && !e.hasAttribute
}

// level returns the element's depth, the root being depth 0.
func (e *element) level() int {
	n := 0
	for p := e; p.parent != nil; p = p.parent {
		n++
	}
	return n
}
