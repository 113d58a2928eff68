package service

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindMissingInput
	KindInvalidImageData
	KindEmptyFilename
	KindInvalidAnnotationLine
)

func (k Kind) String() string {
	switch k {
	case KindMissingInput:
		return "MissingInput"
	case KindInvalidImageData:
		return "InvalidImageData"
	case KindEmptyFilename:
		return "EmptyFilename"
	case KindInvalidAnnotationLine:
		return "InvalidAnnotationLine"
	default:
		return "InternalFailure"
	}
}

// Error 带分类的处理错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// ErrMissingInput 未提供图片数据
func ErrMissingInput(message string) error {
	return newError(KindMissingInput, nil, "%s", message)
}

// ErrEmptyFilename 上传文件名为空
func ErrEmptyFilename() error {
	return newError(KindEmptyFilename, nil, "No file selected")
}

// ErrInvalidImageData 图片数据无法解码
func ErrInvalidImageData(err error) error {
	return newError(KindInvalidImageData, err, "Invalid image data")
}

// ErrInternal 包装非预期错误
func ErrInternal(err error) error {
	return newError(KindInternal, err, "Internal server error")
}

// KindOf 返回错误分类，未分类的错误视为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
