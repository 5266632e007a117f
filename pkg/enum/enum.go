package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[reflect.Type]map[string]any{}

// New registers a value of an enum type and returns it. It is intended to be
// used in variable declarations so all values of a type are registered at
// package initialization.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	if _, ok := enumManager[v.Type()]; !ok {
		enumManager[v.Type()] = make(map[string]any)
	}

	enumManager[v.Type()][v.String()] = value
	return value
}

// ToEnum converts a string to a registered enum value of type T.
func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	values, ok := enumManager[reflect.TypeOf(defaultT)]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	value, ok := values[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return value.(T), nil
}
