// Copyright 2015 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-ethereum.  If not, see <http://www.gnu.org/licenses/>.

// Package errs provides a small error registry: a package declares the set
// of error codes it can produce and the severity of each, and New builds a
// formatted *Error carrying both.
package errs

import (
	"fmt"

	"github.com/kingwel-xie/go-libp2p-kad-protocol/log"
)

// Errors describes one package's error codes. Package is the short tag
// printed in every message, Errors maps a code to its short name, and Level
// maps a code to the severity it should be logged/treated at.
type Errors struct {
	Package string
	Errors  map[int]string
	Level   func(code int) log.Lvl
}

// Error is a single occurrence of one of the codes declared in Errors.
type Error struct {
	Package string
	Code    int
	Name    string
	Level   log.Lvl
	error
}

// New builds an *Error for code, formatting format/params as the detail
// message. It panics if code was not declared in e.Errors, the same way a
// missing map key would be a programmer error rather than a runtime one.
func (e *Errors) New(code int, format string, params ...interface{}) *Error {
	name, ok := e.Errors[code]
	if !ok {
		panic(fmt.Sprintf("errs: undeclared error code %d in package %s", code, e.Package))
	}
	msg := fmt.Sprintf(format, params...)
	return &Error{
		Package: e.Package,
		Code:    code,
		Name:    name,
		Level:   e.Level(code),
		error:   fmt.Errorf("%s: %s", name, msg),
	}
}

// Fatal reports whether the error was registered at crit or error severity.
func (e *Error) Fatal() bool {
	return e.Level <= log.LvlError
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Package, levelTag(e.Level), e.error)
}

// Log writes the error to l at its registered severity.
func (e *Error) Log(l log.Logger) {
	switch e.Level {
	case log.LvlCrit:
		l.Crit(e.Error())
	case log.LvlError:
		l.Error(e.Error())
	case log.LvlWarn:
		l.Warn(e.Error())
	case log.LvlInfo:
		l.Info(e.Error())
	case log.LvlDebug:
		l.Debug(e.Error())
	default:
		l.Trace(e.Error())
	}
}

func levelTag(l log.Lvl) string {
	switch l {
	case log.LvlCrit:
		return "CRITICAL"
	case log.LvlError:
		return "ERROR"
	case log.LvlWarn:
		return "WARNING"
	case log.LvlInfo:
		return "INFO"
	case log.LvlDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}
