package com

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind tells which final result code the modem sent.
type ErrorKind int

// All error kinds, see [AT] 9.2
const (
	GenericError ErrorKind = iota
	EquipmentError
	MessageServiceError
)

func (k ErrorKind) String() string {
	switch k {
	case EquipmentError:
		return "+CME ERROR"
	case MessageServiceError:
		return "+CMS ERROR"
	default:
		return "ERROR"
	}
}

// ModemError is the structured form of a failing final result code. Code is -1 if the modem
// reported no numeric code.
type ModemError struct {
	Kind ErrorKind
	Code int
	Line string
}

func (e *ModemError) Error() string {
	return e.Line
}

func parseFinalError(line string) error {
	saniLine := strings.TrimSpace(strings.ToUpper(line))
	switch {
	case strings.HasPrefix(saniLine, "ERROR"):
		return &ModemError{Kind: GenericError, Code: -1, Line: line}
	case strings.HasPrefix(saniLine, "+CME ERROR"):
		return &ModemError{Kind: EquipmentError, Code: parseErrorCode(saniLine), Line: line}
	case strings.HasPrefix(saniLine, "+CMS ERROR"):
		return &ModemError{Kind: MessageServiceError, Code: parseErrorCode(saniLine), Line: line}
	default:
		return nil
	}
}

func parseErrorCode(line string) int {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return -1
	}
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return result
}

// IsMessageServiceError indicates if the given error is a +CMS ERROR with the given code.
func IsMessageServiceError(err error, code int) bool {
	var modemErr *ModemError
	if !errors.As(err, &modemErr) {
		return false
	}
	return modemErr.Kind == MessageServiceError && modemErr.Code == code
}

// Describe returns the error with its kind and code, e.g. for log output.
func (e *ModemError) Describe() string {
	if e.Code < 0 {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s %d", e.Kind, e.Code)
}
