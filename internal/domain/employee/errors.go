package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeNoBasicPay = errors.New("employee has no basic salary configured")
	ErrEmployeeNotActive  = errors.New("employee is not active")
)
