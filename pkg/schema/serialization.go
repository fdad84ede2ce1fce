package schema

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON serializes the schema with its variables in declaration order:
//
//	{"id": "...", "meta": {...}, "variables": {"KEY": {"type": "int", ...}}}
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	if err := writeJSON(&buf, s.ID); err != nil {
		return nil, err
	}
	buf.WriteString(`,"meta":`)
	if err := writeJSON(&buf, s.Meta); err != nil {
		return nil, err
	}
	buf.WriteString(`,"variables":{`)
	for i, r := range s.rules {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, r.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, r); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
