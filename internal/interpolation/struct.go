package interpolation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InterpolateStruct applies environment variable expansion to fields tagged
// with `env_interpolation:"yes"`, modifying the struct in place. String
// fields, string slices, nested structs, and pointers to structs are
// handled; nested structs are always descended into so a tag deep in the
// config tree works without tagging the parents.
func InterpolateStruct(v any) error {
	if v == nil {
		return nil
	}

	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct or pointer to struct, got %T", v)
	}

	typ := val.Type()
	var errs []error

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		tagged := strings.ToLower(fieldType.Tag.Get("env_interpolation")) == "yes"

		switch field.Kind() {
		case reflect.String:
			if !tagged || field.String() == "" {
				continue
			}
			interpolated, err := ExpandEnvVars(field.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
				continue
			}
			field.SetString(interpolated)

		case reflect.Slice:
			if !tagged || field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				if elem.String() == "" {
					continue
				}
				interpolated, err := ExpandEnvVars(elem.String())
				if err != nil {
					errs = append(errs, fmt.Errorf("field %s[%d]: %w", fieldType.Name, j, err))
					continue
				}
				elem.SetString(interpolated)
			}

		case reflect.Struct:
			if err := InterpolateStruct(field.Addr().Interface()); err != nil {
				errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
			}

		case reflect.Ptr:
			if field.Type().Elem().Kind() == reflect.Struct && !field.IsNil() {
				if err := InterpolateStruct(field.Interface()); err != nil {
					errs = append(errs, fmt.Errorf("field %s: %w", fieldType.Name, err))
				}
			}
		}
	}

	return errors.Join(errs...)
}
