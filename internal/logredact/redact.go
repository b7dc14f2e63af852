// Package logredact keeps credentials and tokens out of log output. It offers
// a message filter for "field=value" formatted lines and a slog.Handler
// wrapper that masks the values of sensitive attribute keys.
package logredact

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Redaction replaces sensitive values in filtered output.
const Redaction = "***"

// SensitiveFields are the attribute keys masked by default.
var SensitiveFields = []string{"password", "new_password", "hashed_password", "session_id", "reset_token"}

// Filter obfuscates the values of the named fields inside a
// separator-delimited "field=value" message.
func Filter(fields []string, redaction, message, separator string) string {
	pattern := regexp.MustCompile(fmt.Sprintf("(%s)=[^%s]*", strings.Join(fields, "|"), separator))
	return pattern.ReplaceAllString(message, "${1}="+redaction)
}

// Handler wraps a slog.Handler, replacing the values of sensitive attribute
// keys with Redaction before records reach the inner handler.
type Handler struct {
	inner  slog.Handler
	fields map[string]struct{}
}

// NewHandler builds a redacting handler over inner for the given field names;
// nil fields means SensitiveFields.
func NewHandler(inner slog.Handler, fields []string) *Handler {
	if fields == nil {
		fields = SensitiveFields
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return &Handler{inner: inner, fields: set}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler, masking sensitive attributes on the record.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.redact(a))
		return true
	})
	return h.inner.Handle(ctx, masked)
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.redact(a)
	}
	return &Handler{inner: h.inner.WithAttrs(out), fields: h.fields}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name), fields: h.fields}
}

func (h *Handler) redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, g := range group {
			out[i] = h.redact(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	if _, ok := h.fields[a.Key]; ok {
		return slog.String(a.Key, Redaction)
	}
	return a
}
