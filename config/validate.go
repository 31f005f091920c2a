package config

import (
	"fmt"
	"math"
)

type valueCache struct {
	stringVal      string
	stringArrayVal []string
	intVal         int64
	boolVal        bool
}

func (vc *valueCache) getData(opt *Option) interface{} {
	switch opt.OptType {
	case OptTypeBool:
		return vc.boolVal
	case OptTypeInt:
		return vc.intVal
	case OptTypeString:
		return vc.stringVal
	case OptTypeStringArray:
		return vc.stringArrayVal
	default:
		return nil
	}
}

// validateValue checks value against the option type and validation regex
// and returns it as a cached value.
func validateValue(option *Option, value interface{}) (*valueCache, error) {
	switch v := value.(type) {
	case string:
		if option.OptType != OptTypeString {
			return nil, newInvalidValueError(option.Key, v, "expected type "+getTypeName(option.OptType))
		}
		if option.compiledRegex != nil && !option.compiledRegex.MatchString(v) {
			return nil, newInvalidValueError(option.Key, v, "validation regex failed")
		}
		return &valueCache{stringVal: v}, nil

	case []interface{}:
		converted := make([]string, 0, len(v))
		for i, entry := range v {
			s, ok := entry.(string)
			if !ok {
				return nil, newInvalidValueError(option.Key, entry, fmt.Sprintf("element at index %d is not a string", i))
			}
			converted = append(converted, s)
		}
		return validateValue(option, converted)

	case []string:
		if option.OptType != OptTypeStringArray {
			return nil, newInvalidValueError(option.Key, v, "expected type "+getTypeName(option.OptType))
		}
		if option.compiledRegex != nil {
			for i, entry := range v {
				if !option.compiledRegex.MatchString(entry) {
					return nil, newInvalidValueError(option.Key, entry, fmt.Sprintf("validation regex failed for element at index %d", i))
				}
			}
		}
		return &valueCache{stringArrayVal: v}, nil

	case bool:
		if option.OptType != OptTypeBool {
			return nil, newInvalidValueError(option.Key, v, "expected type "+getTypeName(option.OptType))
		}
		return &valueCache{boolVal: v}, nil
	}

	// Everything else must be a number.
	n, ok, err := toInt64(value)
	switch {
	case !ok:
		return nil, newInvalidValueError(option.Key, fmt.Sprintf("%T", value), "unsupported value type")
	case option.OptType != OptTypeInt:
		return nil, newInvalidValueError(option.Key, value, "expected type "+getTypeName(option.OptType))
	case err != nil:
		return nil, newInvalidValueError(option.Key, value, err.Error())
	}
	if option.compiledRegex != nil && !option.compiledRegex.MatchString(fmt.Sprintf("%d", n)) {
		return nil, newInvalidValueError(option.Key, n, "validation regex failed")
	}
	return &valueCache{intVal: n}, nil
}

// toInt64 converts any numeric value to an int64. Floats are only accepted
// when they have no fractional part, as JSON decodes all numbers as float64.
func toInt64(value interface{}) (n int64, isNumber bool, err error) {
	switch v := value.(type) {
	case int:
		return int64(v), true, nil
	case int8:
		return int64(v), true, nil
	case int16:
		return int64(v), true, nil
	case int32:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	case uint:
		return toInt64(uint64(v))
	case uint8:
		return int64(v), true, nil
	case uint16:
		return int64(v), true, nil
	case uint32:
		return int64(v), true, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, true, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), true, nil
	case float32:
		return toInt64(float64(v))
	case float64:
		if math.Trunc(v) != v || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, true, fmt.Errorf("%v cannot be converted to int64", v)
		}
		return int64(v), true, nil
	default:
		return 0, false, nil
	}
}
