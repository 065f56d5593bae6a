package cliutil

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
)

var (
	addressType      = reflect.TypeOf(common.Address{})
	addressSliceType = reflect.TypeOf([]common.Address{})
	uint64SliceType  = reflect.TypeOf([]uint64{})
	unmarshalerType  = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// PopulateStruct sets the fields of cfg tagged with `cli:"flag-name"` from the CLI context.
// Unset flags leave non-primitive fields untouched.
func PopulateStruct(cfg any, ctx *cli.Context) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config must be a pointer to struct")
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		flag := field.Tag.Get("cli")
		if flag == "" || !v.Field(i).CanSet() {
			continue
		}
		if err := setFieldValue(v.Field(i), field.Type, ctx, flag); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}
	return nil
}

func setFieldValue(fieldValue reflect.Value, fieldType reflect.Type, ctx *cli.Context, flag string) error {
	// TextUnmarshalers first: named integer types such as chain ids parse by name.
	if reflect.PointerTo(fieldType).Implements(unmarshalerType) && fieldType != addressType {
		if !ctx.IsSet(flag) {
			return nil
		}
		return fieldValue.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(ctx.String(flag)))
	}
	switch fieldType {
	case addressType:
		if !ctx.IsSet(flag) {
			return nil
		}
		addr, err := parseAddress(ctx.String(flag))
		if err != nil {
			return err
		}
		fieldValue.Set(reflect.ValueOf(addr))
		return nil
	case addressSliceType:
		if !ctx.IsSet(flag) {
			return nil
		}
		var addrs []common.Address
		for _, s := range ctx.StringSlice(flag) {
			addr, err := parseAddress(s)
			if err != nil {
				return err
			}
			addrs = append(addrs, addr)
		}
		fieldValue.Set(reflect.ValueOf(addrs))
		return nil
	case uint64SliceType:
		if !ctx.IsSet(flag) {
			return nil
		}
		fieldValue.Set(reflect.ValueOf(ctx.Uint64Slice(flag)))
		return nil
	}
	switch fieldType.Kind() {
	case reflect.String:
		fieldValue.SetString(ctx.String(flag))
	case reflect.Bool:
		fieldValue.SetBool(ctx.Bool(flag))
	case reflect.Int, reflect.Int64:
		fieldValue.SetInt(int64(ctx.Int(flag)))
	case reflect.Uint64:
		fieldValue.SetUint(ctx.Uint64(flag))
	case reflect.Ptr:
		if !ctx.IsSet(flag) {
			return nil
		}
		elem := reflect.New(fieldType.Elem())
		unmarshaler, ok := elem.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return fmt.Errorf("unsupported pointer type: %v", fieldType)
		}
		if err := unmarshaler.UnmarshalText([]byte(ctx.String(flag))); err != nil {
			return err
		}
		fieldValue.Set(elem)
	default:
		return fmt.Errorf("unsupported type: %v", fieldType)
	}
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address: %s", s)
	}
	return common.HexToAddress(s), nil
}
