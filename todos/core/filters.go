package core

import "strings"

type OrderField string

const (
	OrderByTitle     OrderField = "title"
	OrderByCreatedAt OrderField = "created_at"
	OrderByUpdatedAt OrderField = "updated_at"
	OrderByDueDate   OrderField = "due_date"
	OrderByPriority  OrderField = "priority"
)

var orderFields = map[OrderField]struct{}{
	OrderByTitle:     {},
	OrderByCreatedAt: {},
	OrderByUpdatedAt: {},
	OrderByDueDate:   {},
	OrderByPriority:  {},
}

type Ordering struct {
	Field OrderField
	Desc  bool
}

// DefaultOrdering is newest first.
var DefaultOrdering = []Ordering{{Field: OrderByCreatedAt, Desc: true}}

// ParseOrdering reads terms like "title" or "-priority". Each term may itself
// be a comma separated list. Unknown fields are dropped; when nothing valid is
// left the default ordering is returned.
func ParseOrdering(terms ...string) []Ordering {
	var out []Ordering
	for _, term := range terms {
		for _, part := range strings.Split(term, ",") {
			part = strings.TrimSpace(part)
			desc := strings.HasPrefix(part, "-")
			field := OrderField(strings.TrimPrefix(part, "-"))
			if _, ok := orderFields[field]; !ok {
				continue
			}
			out = append(out, Ordering{Field: field, Desc: desc})
		}
	}
	if len(out) == 0 {
		return DefaultOrdering
	}
	return out
}

// SearchTerms splits a search string on whitespace and commas.
func SearchTerms(search string) []string {
	return strings.FieldsFunc(search, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

type ListTodosFilter struct {
	Search    string     `json:"search"`
	Ordering  []Ordering `json:"ordering"`
	Completed *bool      `json:"completed"`
	Priority  *Priority  `json:"priority"`
	Limit     int        `json:"limit"` // 0 => no limit
	Offset    int        `json:"offset"`
}
