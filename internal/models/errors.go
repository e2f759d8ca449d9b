package models

import (
	"errors"
)

var (
	ErrRequestNotFound      = errors.New("rental request not found")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrCounterpartyNotFound = errors.New("counterparty not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrRequestNotInPool     = errors.New("rental request is not in the active pool")
	ErrPoolTransition       = errors.New("invalid pool status transition")
)
