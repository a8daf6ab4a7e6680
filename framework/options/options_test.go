package options

import (
	"testing"

	test "github.com/retro-framework/glob-playground/framework/test_helper"
	"github.com/retro-framework/glob-playground/framework/types"
)

func Test_Parse(t *testing.T) {

	t.Run("valid text replaces the record", func(t *testing.T) {
		o, ok := Parse(`{"dot": true}`, Default())
		test.H(t).BoolEql(ok, true)
		test.H(t).InterfaceEql(o.Flags(), types.Flags{Dot: true})
	})

	t.Run("records are replaced, never merged", func(t *testing.T) {
		prev, _ := Parse(`{"dot": true, "nocase": true}`, Default())
		o, ok := Parse(`{"matchBase": true}`, prev)
		test.H(t).BoolEql(ok, true)
		test.H(t).InterfaceEql(o.Flags(), types.Flags{MatchBase: true})
	})

	t.Run("invalid text keeps the previous record", func(t *testing.T) {
		prev, _ := Parse(`{"dot": true}`, Default())
		for _, text := range []string{`{invalid json`, ``, `   `, `{"dot": true}}`, `{'dot': true}`, `{"dot": tru}`} {
			o, ok := Parse(text, prev)
			test.H(t).BoolEql(ok, false)
			test.H(t).BoolEql(o.Equal(prev), true)
			test.H(t).InterfaceEql(o.Flags(), types.Flags{Dot: true})
		}
	})

	t.Run("unknown keys and odd values are accepted", func(t *testing.T) {
		o, ok := Parse(`{"dot": 1, "nocase": "yes", "noext": 0, "nonull": "", "matchBase": [], "frobnicate": true}`, Default())
		test.H(t).BoolEql(ok, true)
		test.H(t).InterfaceEql(o.Flags(), types.Flags{Dot: true, NoCase: true, MatchBase: true})
		m := o.Value().(map[string]interface{})
		test.H(t).BoolEql(m["frobnicate"].(bool), true)
	})

	t.Run("non objects parse and carry no flags", func(t *testing.T) {
		for _, text := range []string{`5`, `null`, `"dot"`, `[true]`} {
			o, ok := Parse(text, Default())
			test.H(t).BoolEql(ok, true)
			test.H(t).InterfaceEql(o.Flags(), types.Flags{})
		}
	})
}

func Test_Serialize_RoundTrip(t *testing.T) {
	var records = map[string]Options{
		"default":   Default(),
		"all flags": FromFlags(types.Flags{Debug: true, Dot: true, MatchBase: true, FlipNegate: true}),
		"zero":      {},
	}
	extra, _ := Parse(`{"dot": true, "nested": {"a": [1, 2.5, "x", null]}, "html": "<b>&"}`, Default())
	records["extra keys"] = extra

	for name, o := range records {
		t.Run(name, func(t *testing.T) {
			back, ok := Parse(Serialize(o), Options{})
			test.H(t).BoolEql(ok, true)
			test.H(t).InterfaceEql(back, o)
		})
	}
}

func Test_Default(t *testing.T) {
	t.Run("every flag is off", func(t *testing.T) {
		test.H(t).InterfaceEql(Default().Flags(), types.Flags{})
		test.H(t).IntEql(len(Default().Value().(map[string]interface{})), len(types.FlagNames))
	})

	t.Run("default text lists flags in presentation order", func(t *testing.T) {
		test.H(t).StringEql(DefaultText(), `{
    "debug": false,
    "nobrace": false,
    "noglobstar": false,
    "dot": false,
    "noext": false,
    "nocase": false,
    "nonull": false,
    "matchBase": false,
    "nocomment": false,
    "nonegate": false,
    "flipNegate": false
}`)
	})

	t.Run("default text parses to the default record", func(t *testing.T) {
		o, ok := Parse(DefaultText(), Options{})
		test.H(t).BoolEql(ok, true)
		test.H(t).InterfaceEql(o, Default())
	})
}
