package services

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
)

// 错误原因码，随 kratos 错误一并返回给调用方。
const (
	ReasonPersonNotFound      = "PERSON_NOT_FOUND"
	ReasonPersonDataIntegrity = "PERSON_DATA_INTEGRITY"
	ReasonInvalidArgument     = "PERSON_INVALID_ARGUMENT"
	ReasonTimeout             = "PERSON_TIMEOUT"
	ReasonInternal            = "PERSON_INTERNAL"
)

// ErrPersonNotFound 是目标人员不存在时返回的哨兵错误（HTTP 404）。
var ErrPersonNotFound = errors.NotFound(ReasonPersonNotFound, "Person not found!")

// NewDataIntegrityError 构造删除时违反完整性约束的错误（HTTP 409）。
func NewDataIntegrityError(id int64) *errors.Error {
	return errors.Conflict(ReasonPersonDataIntegrity, fmt.Sprintf("Failed when trying to delete person with ID %d", id))
}

// NewInvalidArgumentError 构造参数非法错误（HTTP 400）。
func NewInvalidArgumentError(format string, args ...any) *errors.Error {
	return errors.BadRequest(ReasonInvalidArgument, fmt.Sprintf(format, args...))
}
