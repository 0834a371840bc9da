package power

import (
	"strings"
)

//go:generate stringer -type=Setting
type Setting int

const (
	PerformanceMode Setting = iota
	RapidCharge
	BatteryConservation
)

// Settings lists every known setting, in the order they are read.
var Settings = []Setting{PerformanceMode, RapidCharge, BatteryConservation}

//go:generate stringer -type=Value
type Value int

// The zero Value is "unset" and belongs to no setting.
const (
	Intelligent Value = iota + 1
	Performance
	BatterySave
	Off
	On
)

type table struct {
	desc     string // used in error messages
	get      string
	set      string
	encode   map[Value]string
	decode   map[string]Value
	values   []Value
	opposite Setting
	coupled  bool
}

var tables = [...]table{
	PerformanceMode: {
		desc: "performance mode",
		get:  acpiGetPerfMode,
		set:  acpiSetPerfMode,
		encode: map[Value]string{
			Intelligent: codePerfIntelligent,
			Performance: codePerfPerformance,
			BatterySave: codePerfBatterySave,
		},
		decode: map[string]Value{
			resp0: Intelligent,
			resp1: Performance,
			resp2: BatterySave,
		},
		values: []Value{Intelligent, Performance, BatterySave},
	},
	RapidCharge: {
		desc: "rapid charge status",
		get:  acpiGetRapidCharge,
		set:  acpiSetRapidCharge,
		encode: map[Value]string{
			On:  codeRapidChargeOn,
			Off: codeRapidChargeOff,
		},
		decode: map[string]Value{
			resp0: Off,
			resp1: On,
		},
		values:   []Value{Off, On},
		opposite: BatteryConservation,
		coupled:  true,
	},
	BatteryConservation: {
		desc: "battery conservation status",
		get:  acpiGetBatConserv,
		set:  acpiSetBatConserv,
		encode: map[Value]string{
			On:  codeBatConservOn,
			Off: codeBatConservOff,
		},
		decode: map[string]Value{
			resp0: Off,
			resp1: On,
		},
		values:   []Value{Off, On},
		opposite: RapidCharge,
		coupled:  true,
	},
}

func (s Setting) valid() bool {
	return s >= PerformanceMode && s <= BatteryConservation
}

func (s Setting) table() (*table, error) {
	if !s.valid() {
		return nil, &ValueError{Msg: "unknown setting", BadValue: s.String()}
	}
	return &tables[s], nil
}

// Description is the human readable name used in messages,
// e.g. "rapid charge status".
func (s Setting) Description() string {
	if !s.valid() {
		return s.String()
	}
	return tables[s].desc
}

// Values returns the domain of s.
func (s Setting) Values() []Value {
	if !s.valid() {
		return nil
	}
	return append([]Value(nil), tables[s].values...)
}

// Accepts reports whether v belongs to the domain of s.
func (s Setting) Accepts(v Value) bool {
	if !s.valid() {
		return false
	}
	_, ok := tables[s].encode[v]
	return ok
}

// GetQuery is the command written to the ACPI call interface to read s.
func (s Setting) GetQuery() string {
	if !s.valid() {
		return ""
	}
	return tables[s].get
}

// SetPrefix is the method called to change s, its argument follows after a space.
func (s Setting) SetPrefix() string {
	if !s.valid() {
		return ""
	}
	return tables[s].set
}

// Opposite returns the setting s is mutually exclusive with, if any.
func (s Setting) Opposite() (Setting, bool) {
	if !s.valid() || !tables[s].coupled {
		return 0, false
	}
	return tables[s].opposite, true
}

// Encode returns the firmware argument code requesting v for s.
func (s Setting) Encode(v Value) (string, error) {
	t, err := s.table()
	if err != nil {
		return "", err
	}
	code, ok := t.encode[v]
	if !ok {
		return "", &ValueError{Msg: "an invalid " + t.desc + " was provided", BadValue: v.String()}
	}
	return code, nil
}

// Decode maps a raw answer of the get method of s to its logical value.
func (s Setting) Decode(raw string) (Value, error) {
	t, err := s.table()
	if err != nil {
		return 0, err
	}
	v, ok := t.decode[raw]
	if !ok {
		return 0, &ValueError{Msg: "an invalid " + t.desc + " was returned by the ACPI", BadValue: raw}
	}
	return v, nil
}

// raw is the reverse of Decode, only the simulator needs it.
func (s Setting) raw(v Value) (string, bool) {
	if !s.valid() {
		return "", false
	}
	for r, dv := range tables[s].decode {
		if dv == v {
			return r, true
		}
	}
	return "", false
}

var settingAliases = map[string]Setting{
	"perf":         PerformanceMode,
	"perfmode":     PerformanceMode,
	"mode":         PerformanceMode,
	"rapid":        RapidCharge,
	"batconserv":   BatteryConservation,
	"conservation": BatteryConservation,
}

var valueAliases = map[string]Value{
	"auto":    Intelligent,
	"perf":    Performance,
	"battery": BatterySave,
	"saver":   BatterySave,
	"true":    On,
	"false":   Off,
	"1":       On,
	"0":       Off,
}

func normalize(s string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
}

// ParseSetting resolves names like "RapidCharge", "rapid-charge" or "perf".
func ParseSetting(str string) (Setting, error) {
	n := normalize(str)
	for _, s := range Settings {
		if n == normalize(s.String()) {
			return s, nil
		}
	}
	if s, ok := settingAliases[n]; ok {
		return s, nil
	}
	return 0, &ValueError{Msg: "an invalid setting was provided", BadValue: str}
}

// ParseValue resolves names like "On", "off" or "battery-save".
func ParseValue(str string) (Value, error) {
	n := normalize(str)
	for v := Intelligent; v <= On; v++ {
		if n == normalize(v.String()) {
			return v, nil
		}
	}
	if v, ok := valueAliases[n]; ok {
		return v, nil
	}
	return 0, &ValueError{Msg: "an invalid value was provided", BadValue: str}
}
