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

// Package xmlutil is thin glue over xmlparser and xmlwriter. It does not
// know anything about message schemas: callers supply their own
// event.Sink (an encoder that knows how to turn events into some other
// representation) or drive a Writer directly through a callback. Nothing
// here resolves field names against a descriptor; that layer is the
// caller's problem.
package xmlutil

import (
	"io"

	"github.com/williammuji/pb-xml-util/event"
	"github.com/williammuji/pb-xml-util/xmlparser"
	"github.com/williammuji/pb-xml-util/xmlwriter"
)

// ErrUnclosedRoot re-exports xmlwriter.ErrUnclosedRoot so callers that
// only import xmlutil don't also need the xmlwriter import path to
// check Encode's returned error with errors.Is.
var ErrUnclosedRoot = xmlwriter.ErrUnclosedRoot

// ParseError re-exports xmlparser.ParseError for the same reason.
type ParseError = xmlparser.ParseError

// Decode parses xml, feeding every event into sink, and reports the first
// error either the parser or sink returns. sink is typically an
// event.Recorder for inspection, or a caller's own schema-aware encoder.
func Decode(xml []byte, sink event.Sink, opts ...xmlparser.Option) error {
	p := xmlparser.New(sink, opts...)
	if err := p.Parse(xml); err != nil {
		return err
	}
	return p.FinishParse()
}

// Encode calls emit with a *xmlwriter.Writer wired to w, then closes the
// writer. emit is responsible for driving the full StartObject/.../EndObject
// sequence; Encode only owns construction and Close.
func Encode(w io.Writer, emit func(event.Sink) error, opts ...xmlwriter.Option) error {
	xw := xmlwriter.New(w, opts...)
	if err := emit(xw); err != nil {
		return err
	}
	return xw.Close()
}

// Reformat parses xml and re-serializes it through a fresh Writer built
// with writerOpts, the operation cmd/xmlfmt performs on stdin. It round
// trips entirely through the shared event vocabulary: nothing here reads
// or writes XML text directly.
func Reformat(w io.Writer, xml []byte, parserOpts []xmlparser.Option, writerOpts []xmlwriter.Option) error {
	rec := &event.Recorder{}
	if err := Decode(xml, rec, parserOpts...); err != nil {
		return err
	}
	return Encode(w, rec.Replay, writerOpts...)
}
