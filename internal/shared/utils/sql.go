package utils

import "strings"

// JoinWithAnd joins WHERE clauses with the AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins WHERE clauses with the OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}
