package constants

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures. Schema and source errors
// abort construction, NoData signals an empty year filter, DataFormat
// rejects malformed values, EmptyRange is the non-fatal all-null case
// that degrades to a flat color scale.
type ErrorKind int

const (
	KindDataSource ErrorKind = iota + 1
	KindSchema
	KindDataFormat
	KindNoData
	KindEmptyRange
)

var kindText = map[ErrorKind]string{
	KindDataSource: "data source error",
	KindSchema:     "schema error",
	KindDataFormat: "data format error",
	KindNoData:     "no data error",
	KindEmptyRange: "empty range error",
}

// Text returns a label for a kind. It returns the empty string if the
// kind is unknown.
func Text(kind ErrorKind) string {
	return kindText[kind]
}

// CodedError carries an ErrorKind alongside the message. Wrapped causes
// stay reachable through errors.Unwrap.
type CodedError struct {
	kind ErrorKind
	msg  string
	err  error
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Unwrap() error {
	return e.err
}

func (e *CodedError) Kind() ErrorKind {
	return e.kind
}

func errorf(kind ErrorKind, format string, args ...any) *CodedError {
	wrapped := fmt.Errorf(format, args...)
	return &CodedError{kind: kind, msg: wrapped.Error(), err: errors.Unwrap(wrapped)}
}

func DataSourceErrorf(format string, args ...any) error {
	return errorf(KindDataSource, format, args...)
}

func SchemaErrorf(format string, args ...any) error {
	return errorf(KindSchema, format, args...)
}

func DataFormatErrorf(format string, args ...any) error {
	return errorf(KindDataFormat, format, args...)
}

func NoDataErrorf(format string, args ...any) error {
	return errorf(KindNoData, format, args...)
}

func EmptyRangeErrorf(format string, args ...any) error {
	return errorf(KindEmptyRange, format, args...)
}

// KindOf walks the unwrap chain until it finds a CodedError and returns
// its kind, or zero when the chain holds none.
func KindOf(err error) ErrorKind {
	for err != nil {
		if ce, ok := err.(*CodedError); ok {
			return ce.Kind()
		}
		err = errors.Unwrap(err)
	}
	return 0
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
