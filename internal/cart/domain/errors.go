package domain

import "fmt"

// Code 购物车错误码
type Code string

const (
	CodeInvalidInput          Code = "INVALID_INPUT"
	CodeInvalidQuantity       Code = "INVALID_QUANTITY"
	CodeAddOnQuantityMismatch Code = "ADDON_QUANTITY_MISMATCH"
	CodeProductNotFound       Code = "PRODUCT_NOT_FOUND"
	CodeAddOnNotFound         Code = "ADDON_NOT_FOUND"
	CodeItemNotFound          Code = "ITEM_NOT_FOUND"
	CodeEmptyCart             Code = "EMPTY_CART"
)

// Kind 错误分类，决定对外的响应状态
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindPrecondition:
		return "FAILED_PRECONDITION"
	default:
		return "UNKNOWN"
	}
}

// CartError 购物车领域错误，出错时购物车保持不变
type CartError struct {
	Code    Code
	Message string
}

func (e *CartError) Error() string {
	return e.Message
}

// Is 按错误码匹配，便于使用 errors.Is 与哨兵错误比较
func (e *CartError) Is(target error) bool {
	t, ok := target.(*CartError)
	return ok && t.Code == e.Code
}

// Kind 返回错误分类
func (e *CartError) Kind() Kind {
	switch e.Code {
	case CodeProductNotFound, CodeAddOnNotFound, CodeItemNotFound:
		return KindNotFound
	case CodeEmptyCart:
		return KindPrecondition
	default:
		return KindValidation
	}
}

// 哨兵错误，仅用于 errors.Is 比较
var (
	ErrInvalidInput          = &CartError{Code: CodeInvalidInput, Message: "invalid input"}
	ErrInvalidQuantity       = &CartError{Code: CodeInvalidQuantity, Message: "invalid quantity"}
	ErrAddOnQuantityMismatch = &CartError{Code: CodeAddOnQuantityMismatch, Message: "addon quantity mismatch"}
	ErrProductNotFound       = &CartError{Code: CodeProductNotFound, Message: "product not found"}
	ErrAddOnNotFound         = &CartError{Code: CodeAddOnNotFound, Message: "addon not found"}
	ErrItemNotFound          = &CartError{Code: CodeItemNotFound, Message: "item not found"}
	ErrEmptyCart             = &CartError{Code: CodeEmptyCart, Message: "empty cart"}
)

func newError(code Code, format string, args ...any) *CartError {
	return &CartError{Code: code, Message: fmt.Sprintf(format, args...)}
}
