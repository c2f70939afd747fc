package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/d60-Lab/wordstack/internal/repository"
)

var (
	// ErrUnauthenticated 没有可识别的用户，调用方应引导登录
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	// ErrSubjectNotFound 点赞/评论的目标不存在
	ErrSubjectNotFound = repository.ErrSubjectNotFound
	// ErrStoreUnavailable 存储失败；通过 errors.Is 判断，Cause 保留原始错误
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrFollowSelf       = errors.New("cannot follow self")
	ErrSlugTaken        = repository.ErrSlugTaken
	ErrUsernameTaken    = errors.New("username already taken")
)

type storeError struct {
	op    string
	cause error
}

func (e *storeError) Error() string { return e.op + ": " + ErrStoreUnavailable.Error() + ": " + e.cause.Error() }

func (e *storeError) Unwrap() error { return e.cause }

func (e *storeError) Is(target error) bool { return target == ErrStoreUnavailable }

func (e *storeError) Cause() error { return e.cause }

// storeFailure 把仓储层的意外错误归类为 ErrStoreUnavailable；已知的业务错误原样返回
func storeFailure(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSubjectNotFound):
		return ErrSubjectNotFound
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrUnknownSubjectKind):
		return &ValidationError{Fields: map[string]string{"subjectType": "unknown subject type"}}
	}
	return &storeError{op: op, cause: err}
}

// ValidationError 字段级校验失败
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a UUID"
	}
	return "is invalid (" + fe.Tag() + ")"
}
