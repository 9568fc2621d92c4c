package db

import (
	"fmt"
	"strings"

	"todo-tracker/todos/core"
)

var orderExpressions = map[core.OrderField]string{
	core.OrderByTitle:     "title",
	core.OrderByCreatedAt: "created_at",
	core.OrderByUpdatedAt: "updated_at",
	core.OrderByDueDate:   "due_date",
	core.OrderByPriority:  "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 END",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildListQuery(f core.ListTodosFilter) (string, []any) {
	var (
		sb   strings.Builder
		args []any
		n    = 1
	)

	sb.WriteString(`SELECT ` + todoColumns + ` FROM todos WHERE 1=1`)

	// every term must hit title or description
	for _, term := range core.SearchTerms(f.Search) {
		args = append(args, "%"+likeEscaper.Replace(term)+"%")
		sb.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR COALESCE(description, '') ILIKE $%d)", n, n))
		n++
	}

	if f.Completed != nil {
		args = append(args, *f.Completed)
		sb.WriteString(fmt.Sprintf(" AND completed = $%d", n))
		n++
	}

	if f.Priority != nil {
		args = append(args, string(*f.Priority))
		sb.WriteString(fmt.Sprintf(" AND priority = $%d", n))
		n++
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderClause(f.Ordering))

	if f.Limit > 0 {
		args = append(args, f.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", n))
		n++
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", n))
	}

	return sb.String(), args
}

func orderClause(ordering []core.Ordering) string {
	if len(ordering) == 0 {
		ordering = core.DefaultOrdering
	}

	parts := make([]string, 0, len(ordering)+1)
	for _, o := range ordering {
		expr, ok := orderExpressions[o.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, expr+" "+dir)
	}
	if len(parts) == 0 {
		return orderClause(core.DefaultOrdering)
	}
	// stable order for equal keys
	parts = append(parts, "id DESC")
	return strings.Join(parts, ", ")
}
