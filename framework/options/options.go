// Package options holds the matcher options record and the parser for
// the text users edit it through.
//
// The record is whatever the last structurally valid options text
// decoded to. Nothing checks flag names or value types, unknown keys
// are carried along and values are read with javascript truthiness.
// A text that does not parse leaves the previous record in place.
package options

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"

	"github.com/retro-framework/glob-playground/framework/types"
)

const indent = "    "

// Options is an immutable options record.
type Options struct {
	doc interface{}
}

// Default is the record with every flag switched off.
func Default() Options {
	return FromFlags(types.Flags{})
}

// DefaultText is the serialized default record, keys in presentation
// order.
func DefaultText() string {
	b, _ := json.MarshalIndent(types.Flags{}, "", indent)
	return string(b)
}

// FromFlags builds a record holding exactly the eleven known flags.
func FromFlags(f types.Flags) Options {
	var (
		v   = reflect.ValueOf(f)
		t   = v.Type()
		doc = make(map[string]interface{}, t.NumField())
	)
	for i := 0; i < t.NumField(); i++ {
		doc[t.Field(i).Tag.Get("json")] = v.Field(i).Bool()
	}
	return Options{doc}
}

// Parse attempts to decode text. On success the decoded record replaces
// prev entirely, on failure prev is returned untouched with false.
func Parse(text string, prev Options) (Options, bool) {
	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return prev, false
	}
	return Options{doc}, true
}

// Serialize renders o as indented JSON. Parsing the output yields a
// record equal to o.
func Serialize(o Options) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(o.doc); err != nil {
		// decoded JSON always re-encodes, this is a record built by hand
		return "null"
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// Flags reads the known flags out of the record. Keys that are absent,
// and every key of a record that is not an object, read as false.
func (o Options) Flags() types.Flags {
	var f types.Flags
	m, ok := o.doc.(map[string]interface{})
	if !ok {
		return f
	}
	for _, name := range types.FlagNames {
		f.Set(name, truthy(m[name]))
	}
	return f
}

// Value is the decoded document, suitable for re-encoding.
func (o Options) Value() interface{} { return o.doc }

// Equal is used by go-cmp and by callers checking whether a parse
// changed anything.
func (o Options) Equal(other Options) bool {
	return reflect.DeepEqual(o.doc, other.doc)
}

func (o Options) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.doc)
}

func (o *Options) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &o.doc)
}

func (o Options) String() string { return Serialize(o) }

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}
