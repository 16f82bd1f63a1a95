package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var employeeExportColumns = []string{
	"id", "employee_number", "name", "email", "department", "position", "hire_date", "status",
}

// EmployeeExportSource streams the employee table as CSV lines, header first.
type EmployeeExportSource struct {
	db DB
}

func NewEmployeeExportSource(db DB) *EmployeeExportSource {
	return &EmployeeExportSource{db: db}
}

// Lines returns a lazy sequence over all employees ordered by id. Rows are
// read from the server as the sequence is consumed.
func (s *EmployeeExportSource) Lines(ctx context.Context) LineSource {
	return func(yield func(string, error) bool) {
		if !yield(formatCSVRecord(employeeExportColumns), nil) {
			return
		}

		rows, err := s.db.Query(ctx,
			`SELECT e.id, e.employee_number, e.name, e.email, COALESCE(d.name, ''), e.position, e.hire_date, e.status
			 FROM employees e
			 LEFT JOIN departments d ON d.id = e.department_id
			 ORDER BY e.id`)
		if err != nil {
			yield("", fmt.Errorf("query employees: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				id                                            int64
				number, name, email, department, pos, status string
				hireDate                                      time.Time
			)
			if err := rows.Scan(&id, &number, &name, &email, &department, &pos, &hireDate, &status); err != nil {
				yield("", fmt.Errorf("scan employee: %w", err))
				return
			}
			line := formatCSVRecord([]string{
				strconv.FormatInt(id, 10), number, name, email, department, pos,
				hireDate.Format(time.DateOnly), status,
			})
			if !yield(line, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield("", fmt.Errorf("iterate employees: %w", err))
		}
	}
}

// formatCSVRecord quotes fields per RFC 4180 and returns the record without a
// line terminator.
func formatCSVRecord(fields []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(fields) //nolint:errcheck
	w.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}
