// Package dsd provides dynamic structured data: values serialized in one of
// several formats, prefixed by a format identifier.
package dsd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/ghodss/yaml"
	"github.com/vmihailenco/msgpack/v5"
)

// Load loads the given data into the interface.
func Load(data []byte, t interface{}) (SerializationFormat, error) {
	if len(data) < 2 {
		return 0, ErrNoMoreSpace
	}

	format := SerializationFormat(data[0])
	if _, ok := format.ValidateSerializationFormat(); !ok || format == AUTO {
		return 0, ErrUnknownFormat
	}
	return format, LoadAsFormat(data[1:], format, t)
}

// LoadAsFormat loads a data blob into the interface using the specified format.
func LoadAsFormat(data []byte, format SerializationFormat, t interface{}) (err error) {
	switch format {
	case RAW:
		return ErrIsRaw
	case JSON:
		err = json.Unmarshal(data, t)
	case CBOR:
		err = cbor.Unmarshal(data, t)
	case MsgPack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		err = dec.Decode(t)
	case YAML:
		err = yaml.Unmarshal(data, t)
	default:
		return ErrUnknownFormat
	}

	if err != nil {
		return fmt.Errorf("dsd: failed to unpack %s: %w", format, err)
	}
	return nil
}

// Dump stores the interface as a dsd formatted data structure.
func Dump(t interface{}, format SerializationFormat) ([]byte, error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, ErrUnknownFormat
	}

	data, err := DumpWithoutIdentifier(t, format)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(format)}, data...), nil
}

// DumpWithoutIdentifier dumps the interface in the given format without the
// format identifier. RAW accepts only byte slices and strings.
func DumpWithoutIdentifier(t interface{}, format SerializationFormat) (data []byte, err error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, ErrUnknownFormat
	}

	switch format {
	case RAW:
		switch v := t.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		default:
			return nil, ErrIncompatibleFormat
		}
	case JSON:
		data, err = json.Marshal(t)
	case CBOR:
		data, err = cbor.Marshal(t)
	case MsgPack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		enc.UseCompactInts(true)
		err = enc.Encode(t)
		data = buf.Bytes()
	case YAML:
		data, err = yaml.Marshal(t)
	default:
		return nil, ErrUnknownFormat
	}

	if err != nil {
		return nil, fmt.Errorf("dsd: failed to pack %s: %w", format, err)
	}
	return data, nil
}
