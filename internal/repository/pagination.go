package repository

import "strings"

// Page represents a simple limit/offset window for listing operations.
// I keep it intentionally small; advanced filtering belongs to ClientQuery.
type Page struct {
	Limit  int
	Offset int
}

const DefaultPageLimit = 10

// Sanitize returns a usable limit/offset pair; stores call it right before building SQL.
func (p Page) Sanitize() (limit, offset int) {
	limit, offset = p.Limit, p.Offset
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PageResult carries a slice of items and the total count matching the query.
// I return the total so clients can compute pagination without an extra round trip.
type PageResult[T any] struct {
	Items []T
	Total int
}

// SortField is an allow-listed sortable attribute of a client.
type SortField string

const (
	SortByID           SortField = "id"
	SortByName         SortField = "name"
	SortBySalary       SortField = "salary"
	SortByCompanyValue SortField = "companyValue"
	SortByCreatedAt    SortField = "createdAt"
	SortByUpdatedAt    SortField = "updatedAt"
)

var sortColumns = map[SortField]string{
	SortByID:           "id",
	SortByName:         "name",
	SortBySalary:       "salary",
	SortByCompanyValue: "company_value",
	SortByCreatedAt:    "created_at",
	SortByUpdatedAt:    "updated_at",
}

// Column returns the SQL column for the field, or "" when the field is not allow-listed.
// Stores only ever interpolate values coming from here.
func (f SortField) Column() string {
	return sortColumns[f]
}

// ParseSortField accepts either the API name (companyValue) or the column name (company_value).
func ParseSortField(s string) (SortField, bool) {
	s = strings.TrimSpace(s)
	if _, ok := sortColumns[SortField(s)]; ok {
		return SortField(s), true
	}
	for f, col := range sortColumns {
		if col == s {
			return f, true
		}
	}
	return "", false
}

// ClientQuery describes one paginated listing request after normalization.
type ClientQuery struct {
	Page       Page
	SortField  SortField
	Desc       bool
	NameFilter string
}

// OrderBy renders the ORDER BY body with an id tie-breaker so pages stay stable.
func (q ClientQuery) OrderBy() (string, error) {
	col := q.SortField.Column()
	if col == "" {
		return "", ErrInvalidSort
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	if col == "id" {
		return "id " + dir, nil
	}
	return col + " " + dir + ", id ASC", nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern wraps the name filter for a substring LIKE match with wildcards escaped.
func (q ClientQuery) LikePattern() string {
	return "%" + likeEscaper.Replace(q.NameFilter) + "%"
}
