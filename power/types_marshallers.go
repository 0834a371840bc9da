package power

import (
	"errors"
	"strconv"
)

// This file contains (un)marshallers for Setting and Value, so that the
// front-ends and the config file deal with names instead of integers.

// ---- type Setting int

func (s Setting) MarshalJSON() ([]byte, error) {
	b, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return []byte(strconv.Quote(string(b))), nil
}

func (s *Setting) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("Setting.UnmarshalJSON: invalid JSON provided")
	}
	return s.UnmarshalText([]byte(str))
}

func (s Setting) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, &ValueError{Msg: "cannot marshal unknown setting", BadValue: s.String()}
	}
	return []byte(s.String()), nil
}

func (s *Setting) UnmarshalText(b []byte) error {
	v, err := ParseSetting(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ---- type Value int

func (v Value) MarshalJSON() ([]byte, error) {
	b, err := v.MarshalText()
	if err != nil {
		return nil, err
	}
	return []byte(strconv.Quote(string(b))), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("Value.UnmarshalJSON: invalid JSON provided")
	}
	return v.UnmarshalText([]byte(str))
}

// MarshalText writes the zero Value as an empty string so that unset
// profile entries survive a round trip through the config file.
func (v Value) MarshalText() ([]byte, error) {
	if v == 0 {
		return []byte{}, nil
	}
	if v < Intelligent || v > On {
		return nil, &ValueError{Msg: "cannot marshal unknown value", BadValue: v.String()}
	}
	return []byte(v.String()), nil
}

func (v *Value) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*v = 0
		return nil
	}
	parsed, err := ParseValue(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
