package services

import "fmt"

// OperationError は操作の失敗をまとめて表すエラーです。
// 元のエラーは Unwrap で取り出せるため、errors.Is で種類を判定できます。
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
