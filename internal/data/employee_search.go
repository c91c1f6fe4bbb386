package data

// EmployeeSearch is the server side search criteria, an empty search
// matches every employee; criteria are combined with AND and the values
// within a criteria with OR.
type EmployeeSearch struct {
	Ids         []int64  `json:"ids,omitempty"`
	Emails      []string `json:"emails,omitempty"`
	Departments []string `json:"departments,omitempty"`
	Statuses    []string `json:"statuses,omitempty"`
}
