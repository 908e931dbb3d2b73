package fiql

import (
	"fmt"
	"strings"
	"time"
)

// Field is one filter entry. Build keeps the order fields are passed in, so
// callers that need a stable query string pass a fixed field sequence instead
// of ranging over a map.
type Field struct {
	Name  string
	Value any
}

// Comparison carries an arbitrary operator passthrough, e.g. {Op: "gt",
// Value: 10} on field "price" becomes "price=gt=10".
type Comparison struct {
	Op    string
	Value any
}

// Build translates the fields into a FIQL filter string, clauses joined with
// ";". It is total: unrecognized shapes contribute no clause and the function
// never fails.
//
// Per-field rules, in priority order:
//   - nil and empty-string values are dropped;
//   - "id" is trimmed and emitted as id==<value> only when non-empty;
//   - slices become membership clauses field=in=(v1,v2,...), an empty slice
//     becoming field=in=();
//   - Comparison values with a non-empty inner value become field=<op>=<value>;
//   - dd/mm/yyyy dates become equality clauses against yyyy-mm-dd;
//   - remaining strings are trimmed and emitted as field=like=<value>.
func Build(fields ...Field) string {
	clauses := make([]string, 0, len(fields))
	for _, field := range fields {
		if clause := buildClause(field.Name, field.Value); clause != "" {
			clauses = append(clauses, clause)
		}
	}
	return strings.Join(clauses, ";")
}

func buildClause(name string, value any) string {
	if value == nil {
		return ""
	}

	if name == "id" {
		trimmed := strings.TrimSpace(asText(value))
		if trimmed == "" {
			return ""
		}
		return name + "==" + trimmed
	}

	if members, ok := asMembers(value); ok {
		return name + "=in=(" + strings.Join(members, ",") + ")"
	}

	if cmp, ok := value.(Comparison); ok {
		inner := strings.TrimSpace(asText(cmp.Value))
		if cmp.Value == nil || inner == "" {
			return ""
		}
		op := strings.TrimSpace(cmp.Op)
		if op == "" {
			return ""
		}
		return name + "=" + op + "=" + inner
	}

	s, ok := value.(string)
	if !ok {
		return ""
	}
	if iso, ok := normalizeDate(s); ok {
		return name + "==" + iso
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	return name + "=like=" + trimmed
}

// normalizeDate recognizes dd/mm/yyyy values and rewrites them to yyyy-mm-dd.
func normalizeDate(value string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 3 {
		return "", false
	}
	parsed, err := time.Parse("2006-1-2", parts[2]+"-"+parts[1]+"-"+parts[0])
	if err != nil {
		return "", false
	}
	return parsed.Format("2006-01-02"), true
}

func asMembers(value any) ([]string, bool) {
	switch typed := value.(type) {
	case []string:
		return typed, true
	case []any:
		members := make([]string, 0, len(typed))
		for _, entry := range typed {
			members = append(members, asText(entry))
		}
		return members, true
	case []int:
		members := make([]string, 0, len(typed))
		for _, entry := range typed {
			members = append(members, fmt.Sprintf("%d", entry))
		}
		return members, true
	default:
		return nil, false
	}
}

func asText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", typed)
	}
}
