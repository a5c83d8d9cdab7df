package querybuilder

// Condition is one WHERE clause; conditions are joined with AND
type Condition struct {
	clause string
	args   []interface{}
}
