package abi

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/spf13/cast"
)

// Encode is the equivalent of abi.encode for the argument list described by abiStr, for
// example `[{"type":"address"},{"type":"uint256"}]`.
func Encode(abiStr string, values ...any) ([]byte, error) {
	inDef := fmt.Sprintf(`[{ "name" : "method", "type": "function", "inputs": %s}]`, abiStr)
	inAbi, err := abi.JSON(strings.NewReader(inDef))
	if err != nil {
		return nil, err
	}

	res, err := inAbi.Pack("method", values...)
	if err != nil {
		return nil, err
	}

	return res[4:], nil
}

// Decode is the equivalent of abi.decode.
func Decode(abiStr string, data []byte) ([]any, error) {
	inDef := fmt.Sprintf(`[{ "name" : "method", "type": "function", "outputs": %s}]`, abiStr)
	inAbi, err := abi.JSON(strings.NewReader(inDef))
	if err != nil {
		return nil, err
	}

	return inAbi.Unpack("method", data)
}

// SignatureTypes returns the argument types of a canonical function signature such as
// "mint(address,uint256)".
func SignatureTypes(signature string) ([]string, error) {
	open := strings.IndexByte(signature, '(')
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return nil, fmt.Errorf("malformed function signature %q", signature)
	}

	inner := signature[open+1 : len(signature)-1]
	if inner == "" {
		return nil, nil
	}
	if strings.ContainsAny(inner, "()") {
		return nil, fmt.Errorf("tuple arguments are not supported in %q", signature)
	}

	return strings.Split(inner, ","), nil
}

// EncodeArgs encodes textual arguments for the function signature. Integers are decimal or
// 0x-prefixed hex, addresses and byte strings are hex.
func EncodeArgs(signature string, args []string) ([]byte, error) {
	typeNames, err := SignatureTypes(signature)
	if err != nil {
		return nil, err
	}
	if len(typeNames) != len(args) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", signature, len(typeNames), len(args))
	}

	arguments := make(abi.Arguments, len(typeNames))
	values := make([]any, len(typeNames))
	for i, name := range typeNames {
		typ, err := abi.NewType(name, "", nil)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		arguments[i] = abi.Argument{Type: typ}

		values[i], err = parseArg(typ, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, name, err)
		}
	}

	return arguments.Pack(values...)
}

func parseArg(typ abi.Type, arg string) (any, error) {
	switch typ.T {
	case abi.AddressTy:
		if !common.IsHexAddress(arg) {
			return nil, fmt.Errorf("invalid address %q", arg)
		}

		return common.HexToAddress(arg), nil
	case abi.BoolTy:
		return cast.ToBoolE(arg)
	case abi.StringTy:
		return arg, nil
	case abi.BytesTy:
		return hexutil.Decode(arg)
	case abi.FixedBytesTy:
		raw, err := hexutil.Decode(arg)
		if err != nil {
			return nil, err
		}
		if len(raw) != typ.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", typ.Size, len(raw))
		}
		out := reflect.New(typ.GetType()).Elem()
		reflect.Copy(out, reflect.ValueOf(raw))

		return out.Interface(), nil
	case abi.UintTy, abi.IntTy:
		n, ok := math.ParseBig256(arg)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", arg)
		}
		if typ.T == abi.UintTy && n.Sign() < 0 {
			return nil, errors.New("negative value for an unsigned type")
		}

		return integerValue(typ, n)
	default:
		return nil, fmt.Errorf("unsupported argument type %s", typ.String())
	}
}

// integerValue converts n to the Go type abi packs for typ: a native integer up to 64 bits,
// *big.Int above.
func integerValue(typ abi.Type, n *big.Int) (any, error) {
	goType := typ.GetType()
	if goType == reflect.TypeOf(&big.Int{}) {
		if n.BitLen() > typ.Size {
			return nil, fmt.Errorf("%s overflows %s", n, typ.String())
		}

		return n, nil
	}

	if n.BitLen() > typ.Size || (typ.T == abi.IntTy && n.BitLen() == typ.Size) {
		return nil, fmt.Errorf("%s overflows %s", n, typ.String())
	}

	if typ.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(goType).Interface(), nil
	}

	return reflect.ValueOf(n.Int64()).Convert(goType).Interface(), nil
}
