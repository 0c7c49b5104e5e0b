package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// IdentityID records the identity identifier under the key "identity_id".
// If id is nil, it returns an empty Attr.
func IdentityID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("identity_id", id)
}

// BusinessID records the business identifier under the key "business_id".
// If id is nil, it returns an empty Attr.
func BusinessID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("business_id", id)
}

// PaperID records the paper identifier under the key "paper_id".
// If id is nil, it returns an empty Attr.
func PaperID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("paper_id", id)
}

// PaperType records a paper type under the key "paper_type".
func PaperType(t string) slog.Attr {
	return slog.String("paper_type", t)
}

// Role records a role name under the key "role".
// If role is nil, it returns an empty Attr.
func Role(role any) slog.Attr {
	if role == nil {
		return slog.Attr{}
	}
	return slog.Any("role", role)
}

// Count records a number of items under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
