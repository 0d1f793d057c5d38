package anchor

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

var primitiveKinds = map[string]reflect.Kind{
	"u8":     reflect.Uint8,
	"u16":    reflect.Uint16,
	"u32":    reflect.Uint32,
	"u64":    reflect.Uint64,
	"i8":     reflect.Int8,
	"i16":    reflect.Int16,
	"i32":    reflect.Int32,
	"i64":    reflect.Int64,
	"f32":    reflect.Float32,
	"f64":    reflect.Float64,
	"bool":   reflect.Bool,
	"string": reflect.String,
}

// checkArg verifies a Go value against a primitive IDL type. Composite types are left to the
// encoder.
func checkArg(field IDLField, v any) error {
	typ := field.PrimitiveType()
	if typ == "" {
		return nil
	}
	switch typ {
	case "pubkey":
		if _, ok := v.(solana.PublicKey); !ok {
			return fmt.Errorf("%w: arg %q: want solana.PublicKey, got %T", ErrInvalidArgs, field.Name, v)
		}
		return nil
	case "bytes":
		if _, ok := v.([]byte); !ok {
			return fmt.Errorf("%w: arg %q: want []byte, got %T", ErrInvalidArgs, field.Name, v)
		}
		return nil
	}
	want, ok := primitiveKinds[typ]
	if !ok {
		return nil
	}
	if got := reflect.TypeOf(v); got == nil || got.Kind() != want {
		return fmt.Errorf("%w: arg %q: want %s, got %T", ErrInvalidArgs, field.Name, typ, v)
	}
	return nil
}

// encodeInstructionData returns discriminator || borsh(arg0) || borsh(arg1) ...
func encodeInstructionData(ix *IDLInstruction, args []any) ([]byte, error) {
	if len(args) != len(ix.Args) {
		return nil, fmt.Errorf("%w: %s takes %d args, got %d", ErrInvalidArgs, ix.Name, len(ix.Args), len(args))
	}
	disc := ix.DiscriminatorBytes()
	data := append([]byte{}, disc[:]...)
	for i, field := range ix.Args {
		if err := checkArg(field, args[i]); err != nil {
			return nil, err
		}
		encoded, err := borsh.Serialize(args[i])
		if err != nil {
			return nil, fmt.Errorf("%w: failed to serialize arg %q: %w", ErrInvalidArgs, field.Name, err)
		}
		data = append(data, encoded...)
	}
	return data, nil
}

// argSeedBytes encodes an instruction argument the way it appears in a PDA seed: raw bytes for
// strings, byte vectors and keys, little-endian for integers.
func argSeedBytes(field IDLField, v any) ([]byte, error) {
	switch val := v.(type) {
	case solana.PublicKey:
		return val.Bytes(), nil
	case string:
		return []byte(val), nil
	case []byte:
		return val, nil
	case uint8:
		return []byte{val}, nil
	case uint16:
		return binary.LittleEndian.AppendUint16(nil, val), nil
	case uint32:
		return binary.LittleEndian.AppendUint32(nil, val), nil
	case uint64:
		return binary.LittleEndian.AppendUint64(nil, val), nil
	}
	return nil, fmt.Errorf("%w: arg %q of type %T cannot be used as a seed", ErrInvalidArgs, field.Name, v)
}
