package core

// DBOrdering describes one ORDER BY term requested by an API caller.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderingColumns maps requested ordering fields onto whitelisted DB columns,
// dropping anything not in `allowed`. Keeps user-controlled input out of SQL.
func OrderingColumns(orderings []DBOrdering, allowed map[string]string) []string {
	cols := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		col, ok := allowed[ord.Field]
		if !ok {
			continue
		}
		cols = append(cols, DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	return cols
}
