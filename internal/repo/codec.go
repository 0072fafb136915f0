package repo

import (
	"fmt"
	"time"

	"finboard.org/internal/store"
)

// Field decoding helpers. The store hands back map[string]any documents;
// each accessor validates the dynamic type instead of trusting a cast,
// so a malformed document surfaces as ErrMalformed rather than a zero
// value silently flowing into business records.

type decoder struct {
	doc store.Document
	err error
}

func newDecoder(doc store.Document) *decoder {
	return &decoder{doc: doc}
}

func (d *decoder) fail(field string, want string, got any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: document %s field %q: want %s, got %T",
			ErrMalformed, d.doc.ID, field, want, got)
	}
}

func (d *decoder) str(field string) string {
	v, ok := d.doc.Data[field]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(field, "string", v)
		return ""
	}
	return s
}

func (d *decoder) num(field string) float64 {
	v, ok := d.doc.Data[field]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		d.fail(field, "number", v)
		return 0
	}
}

func (d *decoder) boolean(field string) bool {
	v, ok := d.doc.Data[field]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(field, "bool", v)
		return false
	}
	return b
}

func (d *decoder) when(field string) time.Time {
	v, ok := d.doc.Data[field]
	if !ok || v == nil {
		return time.Time{}
	}
	t, ok := v.(time.Time)
	if !ok {
		d.fail(field, "timestamp", v)
		return time.Time{}
	}
	return t
}

func (d *decoder) strings(field string) []string {
	v, ok := d.doc.Data[field]
	if !ok || v == nil {
		return []string{}
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				d.fail(field, "string list", item)
				return []string{}
			}
			out = append(out, s)
		}
		return out
	default:
		d.fail(field, "string list", v)
		return []string{}
	}
}

// nested returns a sub-document decoder, or nil when the field is absent.
func (d *decoder) nested(field string) *decoder {
	v, ok := d.doc.Data[field]
	if !ok || v == nil {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		d.fail(field, "map", v)
		return nil
	}
	return &decoder{doc: store.Document{ID: d.doc.ID, Data: m}}
}

// list returns the raw slice for a field, or nil when absent.
func (d *decoder) list(field string) []any {
	v, ok := d.doc.Data[field]
	if !ok || v == nil {
		return nil
	}
	l, ok := v.([]any)
	if !ok {
		d.fail(field, "list", v)
		return nil
	}
	return l
}
