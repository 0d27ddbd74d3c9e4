package ps

import (
	"errors"
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// Thin wrappers over go-ole that map every failure to a CallError so the
// retry policy can inspect HRESULTs and exception text. All of these must
// run on the session's worker thread.

// toCallError converts a go-ole failure into a CallError. For dispatch
// exceptions the HRESULT lives on the outer OleError and the host's
// message on the sub-error, so both texts are joined.
func toCallError(op string, err error) error {
	if err == nil {
		return nil
	}
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) {
		text := oleErr.Description()
		if sub := oleErr.SubError(); sub != nil {
			if text != "" {
				text += ": "
			}
			text += sub.Error()
		}
		return NewCallError(op, uint32(oleErr.Code()), text, err)
	}
	return fmt.Errorf("photoshop %s failed: %w", op, err)
}

func callMethod(disp *ole.IDispatch, op, name string, params ...any) (*ole.VARIANT, error) {
	v, err := oleutil.CallMethod(disp, name, params...)
	if err != nil {
		return nil, toCallError(op, err)
	}
	return v, nil
}

// callVoid invokes a method and discards its result.
func callVoid(disp *ole.IDispatch, op, name string, params ...any) error {
	v, err := callMethod(disp, op, name, params...)
	if err != nil {
		return err
	}
	v.Clear()
	return nil
}

func getProperty(disp *ole.IDispatch, op, name string) (*ole.VARIANT, error) {
	v, err := oleutil.GetProperty(disp, name)
	if err != nil {
		return nil, toCallError(op, err)
	}
	return v, nil
}

func putProperty(disp *ole.IDispatch, op, name string, value any) error {
	if _, err := oleutil.PutProperty(disp, name, value); err != nil {
		return toCallError(op, err)
	}
	return nil
}

// stringProperty reads a string-valued property such as Name or Version.
func stringProperty(disp *ole.IDispatch, op, name string) (string, error) {
	v, err := getProperty(disp, op, name)
	if err != nil {
		return "", err
	}
	defer v.Clear()
	return v.ToString(), nil
}

// floatProperty reads a numeric property. Photoshop reports dimensions
// either as plain numbers or as UnitValue objects whose Value property
// carries the number, depending on host version and ruler units.
func floatProperty(disp *ole.IDispatch, op, name string) (float64, error) {
	v, err := getProperty(disp, op, name)
	if err != nil {
		return 0, err
	}
	defer v.Clear()
	if f, ok := numeric(v.Value()); ok {
		return f, nil
	}
	if inner := v.ToIDispatch(); inner != nil {
		iv, err := getProperty(inner, op, "Value")
		if err != nil {
			return 0, err
		}
		defer iv.Clear()
		if f, ok := numeric(iv.Value()); ok {
			return f, nil
		}
	}
	return 0, fmt.Errorf("photoshop %s: property %s is not numeric", op, name)
}

// intProperty reads an integer property such as a count or enum ordinal.
func intProperty(disp *ole.IDispatch, op, name string) (int, error) {
	f, err := floatProperty(disp, op, name)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func numeric(val any) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// dispatchProperty reads an object-valued property. The caller owns the
// returned dispatch and must Release it.
func dispatchProperty(disp *ole.IDispatch, op, name string) (*ole.IDispatch, error) {
	v, err := getProperty(disp, op, name)
	if err != nil {
		return nil, err
	}
	d := v.ToIDispatch()
	if d == nil {
		v.Clear()
		return nil, fmt.Errorf("photoshop %s: property %s is not an object", op, name)
	}
	d.AddRef()
	v.Clear()
	return d, nil
}

// createDispatch instantiates a COM object by ProgID, used for the
// SaveOptions family.
func createDispatch(op, progID string) (*ole.IDispatch, error) {
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, toCallError(op, err)
	}
	defer unknown.Release()
	disp, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, toCallError(op, err)
	}
	return disp, nil
}

// buildSaveOptions materializes a SaveSpec as a live COM options object.
// The caller must Release it after the SaveAs call.
func buildSaveOptions(spec SaveSpec) (*ole.IDispatch, error) {
	const op = "build save options"
	disp, err := createDispatch(op, spec.ProgID)
	if err != nil {
		return nil, err
	}
	for _, p := range spec.Props {
		if err := putProperty(disp, op, p.Name, p.Value); err != nil {
			disp.Release()
			return nil, fmt.Errorf("%s.%s: %w", spec.ProgID, p.Name, err)
		}
	}
	return disp, nil
}
