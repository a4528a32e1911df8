package store

import (
	"fmt"
	"strings"

	"remotejobs-engine/internal/match"
)

// dialect renders the pieces of a predicate that differ between backends.
type dialect interface {
	placeholder(n int) string
	ilike(col, ph string) string
}

type sqliteDialect struct{}

func (sqliteDialect) placeholder(int) string { return "?" }

// SQLite LIKE already folds ASCII case.
func (sqliteDialect) ilike(col, ph string) string { return col + ` LIKE ` + ph + ` ESCAPE '\'` }

type postgresDialect struct{}

func (postgresDialect) placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (postgresDialect) ilike(col, ph string) string { return col + " ILIKE " + ph }

var columns = map[match.Field]string{
	match.FieldTitle:          "title",
	match.FieldSkills:         "skills",
	match.FieldCountry:        "country",
	match.FieldCity:           "city",
	match.FieldExperience:     "experience",
	match.FieldCategory:       "category",
	match.FieldEmploymentType: "employment_type",
}

// compileWhere turns condition groups into a WHERE clause: groups are ANDed,
// the conditions inside a group ORed. Placeholders are numbered from
// firstArg. An empty group list yields an empty clause.
func compileWhere(d dialect, groups [][]match.Condition, firstArg int) (string, []any, error) {
	if len(groups) == 0 {
		return "", nil, nil
	}
	var (
		ands []string
		args []any
		n    = firstArg
	)
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		ors := make([]string, 0, len(g))
		for _, c := range g {
			col, ok := columns[c.Field]
			if !ok {
				return "", nil, fmt.Errorf("unsupported filter field %q", c.Field)
			}
			ph := d.placeholder(n)
			switch c.Op {
			case match.OpILike:
				ors = append(ors, d.ilike(col, ph))
			case match.OpEq:
				ors = append(ors, fmt.Sprintf("lower(%s) = lower(%s)", col, ph))
			default:
				return "", nil, fmt.Errorf("unsupported filter op %q", c.Op)
			}
			args = append(args, c.Value)
			n++
		}
		ands = append(ands, "("+strings.Join(ors, " OR ")+")")
	}
	if len(ands) == 0 {
		return "", nil, nil
	}
	return "WHERE " + strings.Join(ands, " AND "), args, nil
}
