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

// Package event defines the structured write-event vocabulary shared by
// xmlparser and xmlwriter. Neither package calls the other directly; they
// are joined only through the Sink interface defined here.
package event

// Sink is the capability set a downstream collaborator must implement to
// receive a structured write-event stream. A schema adapter that resolves
// descriptor information and feeds a binary encoder satisfies Sink the same
// way xmlwriter.Writer does; xmlparser.Parser only ever depends on Sink, not
// on any concrete implementation.
type Sink interface {
	StartObject(name string) error
	EndObject() error
	StartList(name string) error
	EndList() error

	RenderBool(name string, value bool) error
	RenderInt32(name string, value int32) error
	RenderUint32(name string, value uint32) error
	RenderInt64(name string, value int64) error
	RenderUint64(name string, value uint64) error
	RenderFloat(name string, value float32) error
	RenderDouble(name string, value float64) error
	RenderString(name string, value string) error
	RenderBytes(name string, value []byte) error
	RenderNull(name string) error
}
