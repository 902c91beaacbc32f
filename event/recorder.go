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

package event

// Kind identifies which event a Record holds.
type Kind int

const (
	KindStartObject Kind = iota
	KindEndObject
	KindStartList
	KindEndList
	KindRenderBool
	KindRenderInt32
	KindRenderUint32
	KindRenderInt64
	KindRenderUint64
	KindRenderFloat
	KindRenderDouble
	KindRenderString
	KindRenderBytes
	KindRenderNull
)

func (k Kind) String() string {
	switch k {
	case KindStartObject:
		return "StartObject"
	case KindEndObject:
		return "EndObject"
	case KindStartList:
		return "StartList"
	case KindEndList:
		return "EndList"
	case KindRenderBool:
		return "RenderBool"
	case KindRenderInt32:
		return "RenderInt32"
	case KindRenderUint32:
		return "RenderUint32"
	case KindRenderInt64:
		return "RenderInt64"
	case KindRenderUint64:
		return "RenderUint64"
	case KindRenderFloat:
		return "RenderFloat"
	case KindRenderDouble:
		return "RenderDouble"
	case KindRenderString:
		return "RenderString"
	case KindRenderBytes:
		return "RenderBytes"
	case KindRenderNull:
		return "RenderNull"
	default:
		return "Unknown"
	}
}

// Record is one captured event. Only the field relevant to Kind is set; the
// rest are zero. This is the Go-idiomatic analogue of the mocked
// ObjectWriter used by xml_stream_parser_test.cc to assert on emitted calls.
type Record struct {
	Kind Kind
	Name string

	Bool    bool
	Int32   int32
	Uint32  uint32
	Int64   int64
	Uint64  uint64
	Float32 float32
	Float64 float64
	String  string
	Bytes   []byte
}

// Recorder is a Sink that appends every event to Records, for use in tests
// and in cmd/xmlfmt's replay pipeline.
type Recorder struct {
	Records []Record
}

func (r *Recorder) StartObject(name string) error {
	r.Records = append(r.Records, Record{Kind: KindStartObject, Name: name})
	return nil
}

func (r *Recorder) EndObject() error {
	r.Records = append(r.Records, Record{Kind: KindEndObject})
	return nil
}

func (r *Recorder) StartList(name string) error {
	r.Records = append(r.Records, Record{Kind: KindStartList, Name: name})
	return nil
}

func (r *Recorder) EndList() error {
	r.Records = append(r.Records, Record{Kind: KindEndList})
	return nil
}

func (r *Recorder) RenderBool(name string, value bool) error {
	r.Records = append(r.Records, Record{Kind: KindRenderBool, Name: name, Bool: value})
	return nil
}

func (r *Recorder) RenderInt32(name string, value int32) error {
	r.Records = append(r.Records, Record{Kind: KindRenderInt32, Name: name, Int32: value})
	return nil
}

func (r *Recorder) RenderUint32(name string, value uint32) error {
	r.Records = append(r.Records, Record{Kind: KindRenderUint32, Name: name, Uint32: value})
	return nil
}

func (r *Recorder) RenderInt64(name string, value int64) error {
	r.Records = append(r.Records, Record{Kind: KindRenderInt64, Name: name, Int64: value})
	return nil
}

func (r *Recorder) RenderUint64(name string, value uint64) error {
	r.Records = append(r.Records, Record{Kind: KindRenderUint64, Name: name, Uint64: value})
	return nil
}

func (r *Recorder) RenderFloat(name string, value float32) error {
	r.Records = append(r.Records, Record{Kind: KindRenderFloat, Name: name, Float32: value})
	return nil
}

func (r *Recorder) RenderDouble(name string, value float64) error {
	r.Records = append(r.Records, Record{Kind: KindRenderDouble, Name: name, Float64: value})
	return nil
}

func (r *Recorder) RenderString(name string, value string) error {
	r.Records = append(r.Records, Record{Kind: KindRenderString, Name: name, String: value})
	return nil
}

func (r *Recorder) RenderBytes(name string, value []byte) error {
	cp := append([]byte(nil), value...)
	r.Records = append(r.Records, Record{Kind: KindRenderBytes, Name: name, Bytes: cp})
	return nil
}

func (r *Recorder) RenderNull(name string) error {
	r.Records = append(r.Records, Record{Kind: KindRenderNull, Name: name})
	return nil
}

// Replay feeds every recorded event into dst, in order.
func (r *Recorder) Replay(dst Sink) error {
	for _, rec := range r.Records {
		var err error
		switch rec.Kind {
		case KindStartObject:
			err = dst.StartObject(rec.Name)
		case KindEndObject:
			err = dst.EndObject()
		case KindStartList:
			err = dst.StartList(rec.Name)
		case KindEndList:
			err = dst.EndList()
		case KindRenderBool:
			err = dst.RenderBool(rec.Name, rec.Bool)
		case KindRenderInt32:
			err = dst.RenderInt32(rec.Name, rec.Int32)
		case KindRenderUint32:
			err = dst.RenderUint32(rec.Name, rec.Uint32)
		case KindRenderInt64:
			err = dst.RenderInt64(rec.Name, rec.Int64)
		case KindRenderUint64:
			err = dst.RenderUint64(rec.Name, rec.Uint64)
		case KindRenderFloat:
			err = dst.RenderFloat(rec.Name, rec.Float32)
		case KindRenderDouble:
			err = dst.RenderDouble(rec.Name, rec.Float64)
		case KindRenderString:
			err = dst.RenderString(rec.Name, rec.String)
		case KindRenderBytes:
			err = dst.RenderBytes(rec.Name, rec.Bytes)
		case KindRenderNull:
			err = dst.RenderNull(rec.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
