// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Ctx is a shorthand for the list of key/value pairs that form a log
// context. A slice of unnamed interface{} is preferred over this type
// within the codebase, but Ctx is still useful for key/value maps.
type Ctx map[string]interface{}

func (c Ctx) toArray() []interface{} {
	arr := make([]interface{}, 0, len(c)*2)
	for k, v := range c {
		arr = append(arr, k, v)
	}
	return arr
}

// logger implements Logger by forwarding to the package-level logrus
// instance, prepending any context it was constructed with via New.
type logger struct {
	ctx     []interface{}
	mapPool sync.Pool
}

func (l *logger) New(ctx ...interface{}) Logger {
	normalized := normalize(ctx)
	combined := make([]interface{}, 0, len(l.ctx)+len(normalized))
	combined = append(combined, l.ctx...)
	combined = append(combined, normalized...)
	return &logger{ctx: combined, mapPool: sync.Pool{
		New: func() any { return map[string]interface{}{} },
	}}
}

func (l *logger) write(msg string, lvl Lvl, ctx []interface{}, skip int) {
	fields := l.fields(ctx)
	entry := terminal.WithFields(fields)
	switch lvl {
	case LvlCrit:
		entry.Error(msg)
	case LvlFatal:
		entry.Error(msg)
	case LvlError:
		entry.Error(msg)
	case LvlWarn:
		entry.Warn(msg)
	case LvlInfo:
		entry.Info(msg)
	case LvlDebug:
		entry.Debug(msg)
	case LvlTrace:
		entry.Trace(msg)
	}
}

func (l *logger) fields(ctx []interface{}) logrus.Fields {
	all := normalize(append(append([]interface{}{}, l.ctx...), ctx...))
	f := logrus.Fields{}
	for i := 0; i+1 < len(all); i += 2 {
		key, ok := all[i].(string)
		if !ok {
			key = "key"
		}
		f[key] = all[i+1]
	}
	return f
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(msg, LvlTrace, ctx, skipLevel) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(msg, LvlDebug, ctx, skipLevel) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(msg, LvlInfo, ctx, skipLevel) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(msg, LvlWarn, ctx, skipLevel) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(msg, LvlError, ctx, skipLevel) }
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(msg, LvlCrit, ctx, skipLevel)
	os.Exit(1)
}

// normalize pads an odd-length context slice with a trailing nil so
// that it can always be consumed as key/value pairs.
func normalize(ctx []interface{}) []interface{} {
	if len(ctx)%2 != 0 {
		ctx = append(ctx, nil)
	}
	return ctx
}
