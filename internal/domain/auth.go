package domain

// OperatorRole enumerates what an API caller may do.
type OperatorRole string

const (
	OperatorRoleManager OperatorRole = "manager"
	OperatorRoleViewer  OperatorRole = "viewer"
)

// Valid reports whether the role is known.
func (r OperatorRole) Valid() bool {
	return r == OperatorRoleManager || r == OperatorRoleViewer
}
