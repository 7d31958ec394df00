package starbind

import (
	"fmt"

	"go.starlark.net/starlark"
)

// interfaceToStarlarkValue converts a Go value into a starlark.Value.
func interfaceToStarlarkValue(v interface{}) starlark.Value {
	switch v := v.(type) {
	case uint8:
		return starlark.MakeUint64(uint64(v))
	case uint16:
		return starlark.MakeUint64(uint64(v))
	case uint32:
		return starlark.MakeUint64(uint64(v))
	case uint64:
		return starlark.MakeUint64(v)
	case uintptr:
		return starlark.MakeUint64(uint64(v))
	case uint:
		return starlark.MakeUint64(uint64(v))
	case int8:
		return starlark.MakeInt64(int64(v))
	case int16:
		return starlark.MakeInt64(int64(v))
	case int32:
		return starlark.MakeInt64(int64(v))
	case int64:
		return starlark.MakeInt64(v)
	case int:
		return starlark.MakeInt64(int64(v))
	case bool:
		return starlark.Bool(v)
	case string:
		return starlark.String(v)
	case []byte:
		return starlark.Bytes(v)
	case map[string]uint64:
		var r starlark.Dict
		for k, v := range v {
			r.SetKey(starlark.String(k), starlark.MakeUint64(v))
		}
		return &r
	case nil:
		return starlark.None
	case error:
		return starlark.String(v.Error())
	default:
		return starlark.String(fmt.Sprintf("%v", v))
	}
}

// stringArg returns positional argument i of builtin as a Go string.
func stringArg(args starlark.Tuple, i int, builtin string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("not enough arguments for %s", builtin)
	}
	s, ok := args[i].(starlark.String)
	if !ok {
		return "", fmt.Errorf("argument %d of %s is not a string", i+1, builtin)
	}
	return string(s), nil
}

// uint64Arg returns positional argument i of builtin as a uint64.
func uint64Arg(args starlark.Tuple, i int, builtin string) (uint64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("not enough arguments for %s", builtin)
	}
	n, ok := args[i].(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("argument %d of %s is not an integer", i+1, builtin)
	}
	v, ok := n.Uint64()
	if !ok {
		return 0, fmt.Errorf("argument %d of %s does not fit in 64 bits", i+1, builtin)
	}
	return v, nil
}

// bytesArg returns positional argument i of builtin as a byte slice. Both
// bytes and string values are accepted.
func bytesArg(args starlark.Tuple, i int, builtin string) ([]byte, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("not enough arguments for %s", builtin)
	}
	switch v := args[i].(type) {
	case starlark.Bytes:
		return []byte(v), nil
	case starlark.String:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("argument %d of %s is not bytes or a string", i+1, builtin)
	}
}
