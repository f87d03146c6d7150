package internal

import (
	"log"
)

// desempenho version
const Version = "v0.1.0"

// UpdateInConfig updates the value in dest with val if the according
// value is not the zero-type for the underlying type.  Dest must be a
// pointer type to either string, int or float64.  Otherwise the
// function panics.
func UpdateInConfig(dest, val interface{}) {
	switch dest.(type) {
	case *string:
		v := val.(string)
		if v != "" {
			(*dest.(*string)) = v
		}
	case *int:
		v := val.(int)
		if v != 0 {
			(*dest.(*int)) = v
		}
	case *float64:
		v := val.(float64)
		if v != 0 {
			(*dest.(*float64)) = v
		}
	default:
		panic("bad type")
	}
}

// Chk exits with an error message if err is not nil.
func Chk(err error) {
	if err != nil {
		log.Fatalf("error: %v", err)
	}
}
