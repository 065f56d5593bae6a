package provtest

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Pack ABI-encodes values as the given types, e.g. Pack([]string{"uint256", "address"}, v1, v2).
func Pack(typeNames []string, values ...any) []byte {
	args := make(abi.Arguments, 0, len(typeNames))
	for _, name := range typeNames {
		typ, err := abi.NewType(name, "", nil)
		if err != nil {
			panic(err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	out, err := args.Pack(values...)
	if err != nil {
		panic(err)
	}
	return out
}

// CallResult mirrors the Multicall3 Result struct.
type CallResult struct {
	Success    bool
	ReturnData []byte
}

// PackCallResults ABI-encodes the return value of Multicall3 aggregate3.
func PackCallResults(results []CallResult) []byte {
	typ, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "success", Type: "bool"},
		{Name: "returnData", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	out, err := abi.Arguments{{Type: typ}}.Pack(results)
	if err != nil {
		panic(err)
	}
	return out
}
