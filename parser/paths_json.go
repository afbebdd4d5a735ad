package parser

import (
	"bytes"
	"encoding/json"
	"sort"
)

// MarshalJSON implements custom marshaling for Responses so the status-code
// keys from Codes are inlined alongside default, in sorted order for stable
// output.
func (r *Responses) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	writeEntry := func(key string, value *Response) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return err
		}
		valueBytes, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(valueBytes)
		return nil
	}

	codes := make([]string, 0, len(r.Codes))
	for code := range r.Codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		if err := writeEntry(code, r.Codes[code]); err != nil {
			return nil, err
		}
	}
	if r.Default != nil {
		if err := writeEntry("default", r.Default); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements custom unmarshaling for Responses, mirroring
// the YAML path so JSON documents decoded with encoding/json behave the
// same as YAML-decoded ones.
func (r *Responses) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Codes = make(map[string]*Response)
	for key, value := range raw {
		var resp Response
		if err := json.Unmarshal(value, &resp); err != nil {
			return err
		}
		if key == "default" {
			r.Default = &resp
			continue
		}
		r.Codes[key] = &resp
	}
	return nil
}
