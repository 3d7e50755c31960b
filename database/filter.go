package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// PredicateKind enumerates the filter forms the listing query can express.
type PredicateKind int

const (
	// Equals matches a column against a single value.
	Equals PredicateKind = iota
	// SubstringAnyOf matches when any of the listed columns contains the
	// value, case-insensitively.
	SubstringAnyOf
	// ContainsOneOf matches when a list-valued column intersects the given
	// set.
	ContainsOneOf
)

type Predicate struct {
	Kind    PredicateKind
	Column  string
	Columns []string
	Value   interface{}
	Values  []string
}

// Filter is an AND of predicates; building one is pure and independent of
// the storage engine.
type Filter struct {
	Predicates []Predicate
}

func (f *Filter) And(p Predicate) {
	f.Predicates = append(f.Predicates, p)
}

// Compile translates the filter into gorm WHERE clauses. List columns are
// stored as JSON arrays, so intersection and substring checks match against
// the serialized text form.
func (f Filter) Compile(tx *gorm.DB) *gorm.DB {
	for _, p := range f.Predicates {
		switch p.Kind {
		case Equals:
			tx = tx.Where(fmt.Sprintf("%s = ?", p.Column), p.Value)

		case SubstringAnyOf:
			pattern := "%" + strings.ToLower(fmt.Sprint(p.Value)) + "%"
			clauses := make([]string, 0, len(p.Columns))
			args := make([]interface{}, 0, len(p.Columns))
			for _, col := range p.Columns {
				clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
				args = append(args, pattern)
			}
			tx = tx.Where(strings.Join(clauses, " OR "), args...)

		case ContainsOneOf:
			if len(p.Values) == 0 {
				continue
			}
			clauses := make([]string, 0, len(p.Values))
			args := make([]interface{}, 0, len(p.Values))
			for _, v := range p.Values {
				clauses = append(clauses, fmt.Sprintf("%s LIKE ?", p.Column))
				// stored lists are JSON arrays, so elements are quoted
				args = append(args, `%"`+v+`"%`)
			}
			tx = tx.Where(strings.Join(clauses, " OR "), args...)
		}
	}
	return tx
}

// ListParams are the caller-facing knobs of the project listing.
type ListParams struct {
	Page     int
	Limit    int
	Category string
	Featured bool
	Search   string
	Sort     string
	Tags     []string
}

const (
	defaultLimit = 10
	defaultSort  = "-createdAt"
)

func (p ListParams) normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Sort == "" {
		p.Sort = defaultSort
	}
	return p
}

// buildFilter expresses the listing parameters as predicates. Only public
// projects are ever visible; "all" is a sentinel meaning no category filter.
func buildFilter(p ListParams) Filter {
	var f Filter
	f.And(Predicate{Kind: Equals, Column: "is_public", Value: true})

	if p.Category != "" && p.Category != "all" {
		f.And(Predicate{Kind: Equals, Column: "category", Value: p.Category})
	}
	if p.Featured {
		f.And(Predicate{Kind: Equals, Column: "featured", Value: true})
	}
	if p.Search != "" {
		f.And(Predicate{
			Kind:    SubstringAnyOf,
			Columns: []string{"title", "description", "technologies"},
			Value:   p.Search,
		})
	}
	if len(p.Tags) > 0 {
		f.And(Predicate{Kind: ContainsOneOf, Column: "tags", Values: p.Tags})
	}
	return f
}

// sortableColumns whitelists the fields a caller may sort on.
var sortableColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"startDate": "start_date",
	"title":     "title",
	"views":     "views",
	"likes":     "likes",
}

// orderClause parses a sort field, where a leading '-' means descending, and
// falls back to newest-first for unknown fields.
func orderClause(sort string) string {
	direction := "ASC"
	field := sort
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		field = sort[1:]
	}
	column, ok := sortableColumns[field]
	if !ok {
		return "created_at DESC"
	}
	return column + " " + direction
}
