package model

import "errors"

var (
	ErrBothWorld       = errors.New("both markers attached to World")
	ErrAlreadyAttached = errors.New("already attached")
	ErrDestroyed       = errors.New("joint destroyed")
	ErrMissingPair     = errors.New("needs one of these pairs ERP & CFM; SpringConstant & DampingConstant; SpringConstant & ERP; SpringConstant & CFM; DampingConstant & ERP; DampingConstant & CFM")
	ErrNonPositive     = errors.New("must be positive")
	ErrNegative        = errors.New("must not be negative")
	ErrUnknownType     = errors.New("unrecognised Type")
)
