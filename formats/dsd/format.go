package dsd

import "errors"

// Errors.
var (
	ErrIncompatibleFormat = errors.New("dsd: format is incompatible with operation")
	ErrIsRaw              = errors.New("dsd: given data is in raw format")
	ErrNoMoreSpace        = errors.New("dsd: no more space left after reading dsd type")
	ErrUnknownFormat      = errors.New("dsd: format is unknown")
)

// SerializationFormat is the identifier of a serialization format. It is
// prepended to dumped data as a single byte.
type SerializationFormat uint8

// Serialization Formats.
const (
	AUTO    SerializationFormat = 0
	RAW     SerializationFormat = 1
	CBOR    SerializationFormat = 67 // C
	JSON    SerializationFormat = 74 // J
	MsgPack SerializationFormat = 77 // M
	YAML    SerializationFormat = 89 // Y
)

// DefaultSerializationFormat is used when dumping with AUTO.
var DefaultSerializationFormat = JSON

// ValidateSerializationFormat validates if the format is for serialization,
// and returns the validated format as well as the result of the validation.
// If called on the AUTO format, it returns the default serialization format.
func (format SerializationFormat) ValidateSerializationFormat() (validated SerializationFormat, ok bool) {
	switch format {
	case AUTO:
		return DefaultSerializationFormat, true
	case RAW, CBOR, JSON, MsgPack, YAML:
		return format, true
	default:
		return 0, false
	}
}

// String returns the lowercase name of the format.
func (format SerializationFormat) String() string {
	switch format {
	case AUTO:
		return "auto"
	case RAW:
		return "raw"
	case CBOR:
		return "cbor"
	case JSON:
		return "json"
	case MsgPack:
		return "msgpack"
	case YAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromName returns the serialization format with the given name.
func FormatFromName(name string) (SerializationFormat, bool) {
	for _, format := range []SerializationFormat{RAW, CBOR, JSON, MsgPack, YAML} {
		if format.String() == name {
			return format, true
		}
	}
	return 0, false
}
