package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// document is the wire shape of a graph file.
type document struct {
	Name  json.RawMessage   `json:"name,omitempty"`
	Nodes []json.RawMessage `json:"nodes"`
	Links []json.RawMessage `json:"links"`
}

type node struct {
	ID     nodeID `json:"id"`
	Name   string `json:"name,omitempty"`
	Label  string `json:"label,omitempty"`
	Level  number `json:"level,omitempty"`
	Weight number `json:"weight,omitempty"`
}

type link struct {
	Source nodeID `json:"source"`
	Target nodeID `json:"target"`
}

// nodeID accepts a JSON string or number. Integers are canonicalized to their
// decimal form, so 7, 7.0 and "7" name the same node; other numbers keep their
// literal text.
type nodeID string

func (id *nodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = nodeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*id = nodeID(canonicalNumber(n))
	return nil
}

// number is a lenient numeric attribute: a JSON number or a string holding
// one. It never fails to decode; anything else leaves valid false so the
// caller can fall back to a default.
type number struct {
	set   bool
	valid bool
	value float64
	text  string
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	n.set = true
	n.text = string(data)

	lit := n.text
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		lit = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.valid, n.value = true, f
	return nil
}

// integer returns n as an int when it is integral, so 2, 2.0 and "2" agree.
func (n number) integer() (int, bool) {
	if !n.valid || n.value != math.Trunc(n.value) || math.Abs(n.value) > math.MaxInt32 {
		return 0, false
	}
	return int(n.value), true
}

func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil && math.Abs(f) < 1<<53 && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// decodeTitle reads the optional document name: a string, or a list of
// strings joined with ", ".
func decodeTitle(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil {
		return strings.Join(parts, ", ")
	}
	return ""
}
