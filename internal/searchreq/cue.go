package searchreq

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// decodeCUE evaluates a CUE document. The result must be concrete; struct
// fields keep their declaration order.
func decodeCUE(data []byte) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return nil, &DecodeError{Path: "$", Message: fmt.Sprintf("invalid CUE: %v", err), Err: ErrFormat}
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &DecodeError{Path: "$", Message: fmt.Sprintf("incomplete CUE value: %v", err), Err: ErrFormat}
	}
	return fromCUE(v, "$")
}

func fromCUE(v cue.Value, path string) (any, error) {
	switch v.Kind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, cueErr(path, err)
		}
		var obj object
		for iter.Next() {
			key := iter.Label()
			val, err := fromCUE(iter.Value(), path+"."+key)
			if err != nil {
				return nil, err
			}
			obj = append(obj, member{key: key, value: val})
		}
		if obj == nil {
			obj = object{}
		}
		return obj, nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, cueErr(path, err)
		}
		list := []any{}
		for i := 0; iter.Next(); i++ {
			val, err := fromCUE(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, cueErr(path, err)
		}
		return s, nil

	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, cueErr(path, err)
		}
		return i, nil

	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, cueErr(path, err)
		}
		return f, nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, cueErr(path, err)
		}
		return b, nil

	case cue.NullKind:
		return nil, nil

	default:
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("unsupported CUE kind %v", v.Kind()), Err: ErrFormat}
	}
}

func cueErr(path string, err error) *DecodeError {
	return &DecodeError{Path: path, Message: err.Error(), Err: ErrFormat}
}
