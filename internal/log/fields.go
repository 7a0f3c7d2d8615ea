package log

import "go.uber.org/zap"

type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Uint64   = zap.Uint64
	Bool     = zap.Bool
	Duration = zap.Duration
	Any      = zap.Any
	Cause    = zap.Error
)
