package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger sends GORM output through the request-scoped zap logger so SQL
// lines carry the same request_id as the http_request line.
//
// Lookups by id miss routinely (every 404), so ErrRecordNotFound is never
// logged as a failure.
type GormLogger struct {
	level  gormlogger.LogLevel
	slow   time.Duration
	logSQL bool
}

// NewGormLogger logs failed and slow statements. With logSQL every statement
// is logged at debug together with its bound values.
func NewGormLogger(slow time.Duration, logSQL bool) *GormLogger {
	level := gormlogger.Warn
	if logSQL {
		level = gormlogger.Info
	}
	return &GormLogger{level: level, slow: slow, logSQL: logSQL}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.level = level
	return &out
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []any) {
	if l.level < min {
		return
	}
	fields := []zap.Field{zap.String("component", "gorm")}
	if len(data) > 0 {
		fields = append(fields, zap.Any("data", data))
	}
	FromContext(ctx).Log(level, msg, fields...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var level zapcore.Level
	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		level = zapcore.ErrorLevel
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		level = zapcore.WarnLevel
	case l.level >= gormlogger.Info:
		level = zapcore.DebugLevel
	default:
		return
	}

	sql, rows := fc()
	op, table := Statement(sql)
	fields := []zap.Field{
		zap.String("component", "gorm"),
		zap.String("operation", op),
		zap.String("table", table),
		zap.String("sql", strings.TrimSpace(sql)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if level == zapcore.ErrorLevel {
		fields = append(fields, zap.Error(err))
	}
	FromContext(ctx).Log(level, "gorm.query", fields...)
}

// ParamsFilter drops bound values unless logSQL is set.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if l.logSQL {
		return sql, params
	}
	return sql, nil
}

// Statement returns the verb and the first table a SQL statement touches,
// e.g. ("UPDATE", "products"). Unknown parts come back as "unknown".
func Statement(sql string) (op, table string) {
	op, table = "unknown", "unknown"
	tokens := strings.Fields(sql)
	for i, tok := range tokens {
		word := strings.ToUpper(strings.Trim(tok, "();"))
		switch word {
		case "SELECT", "INSERT", "UPDATE", "DELETE":
			if op == "unknown" {
				op = word
			}
			if word == "UPDATE" && i+1 < len(tokens) {
				return op, tableName(tokens[i+1])
			}
		case "FROM", "INTO":
			if op != "unknown" && i+1 < len(tokens) {
				return op, tableName(tokens[i+1])
			}
		}
	}
	return op, table
}

func tableName(tok string) string {
	tok = strings.Trim(tok, "\"`();")
	if i := strings.LastIndexByte(tok, '.'); i >= 0 {
		tok = strings.Trim(tok[i+1:], "\"`")
	}
	if tok == "" {
		return "unknown"
	}
	return tok
}

var _ gormlogger.Interface = (*GormLogger)(nil)
