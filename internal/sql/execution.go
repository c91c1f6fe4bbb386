package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-records/internal/data"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const mysqlErrDuplicateEntry uint16 = 1062

var migrations = map[string]string{
	driverMysql: `CREATE TABLE IF NOT EXISTS employees (
		id BIGINT NOT NULL AUTO_INCREMENT,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone_number VARCHAR(10) NOT NULL,
		department VARCHAR(50) NOT NULL,
		position VARCHAR(100) NOT NULL,
		hire_date DATE NOT NULL,
		salary DECIMAL(12,2) NOT NULL,
		address VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'Active',
		PRIMARY KEY (id),
		UNIQUE KEY employees_email (email)
	);`,
	driverSqlite: `CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone_number TEXT NOT NULL,
		department TEXT NOT NULL,
		position TEXT NOT NULL,
		hire_date DATE NOT NULL,
		salary REAL NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Active'
	);`,
}

func migrate(ctx context.Context, db *sql.DB, driver string) error {
	query, ok := migrations[driver]
	if !ok {
		return errors.Errorf("no migration for driver: %s", driver)
	}
	if _, err := db.ExecContext(ctx, query); err != nil {
		return errors.Wrap(err, "unable to create employees table")
	}
	return nil
}

func employeeCriteria(search data.EmployeeSearch) (string, []any) {
	var args []any
	var criteria []string

	in := func(column string, n int, arg func(int) any) {
		if n <= 0 {
			return
		}
		parameters := make([]string, 0, n)
		for i := 0; i < n; i++ {
			args = append(args, arg(i))
			parameters = append(parameters, "?")
		}
		criteria = append(criteria, fmt.Sprintf("%s IN(%s)", column, strings.Join(parameters, ",")))
	}
	in("id", len(search.Ids), func(i int) any { return search.Ids[i] })
	in("email", len(search.Emails), func(i int) any { return search.Emails[i] })
	in("department", len(search.Departments), func(i int) any { return search.Departments[i] })
	in("status", len(search.Statuses), func(i int) any { return search.Statuses[i] })
	if len(criteria) <= 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(criteria, " AND "), args
}

func employeeScan(scanFx func(...any) error) (*data.Employee, error) {
	var id int64
	var hireDate any

	employee := new(data.Employee)
	if err := scanFx(
		&id,
		&employee.FirstName,
		&employee.LastName,
		&employee.Email,
		&employee.PhoneNumber,
		&employee.Department,
		&employee.Position,
		&hireDate,
		&employee.Salary,
		&employee.Address,
		&employee.Status,
	); err != nil {
		return nil, err
	}
	employee.Id = &id
	// drivers hand dates back as time.Time (parseTime or a DATE column in
	// sqlite) or as raw text
	switch v := hireDate.(type) {
	case time.Time:
		employee.HireDate = v.Format(data.DateFormat)
	case []byte:
		employee.HireDate = string(v)
	case string:
		employee.HireDate = v
	}
	return employee, nil
}

// employeeError converts a unique constraint violation on email into
// data.ErrConflict
func employeeError(err error, employee data.Employee) error {
	var mysqlErr *mysql.MySQLError
	var sqliteErr sqlite3.Error

	switch {
	case errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry,
		errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		return errors.Wrapf(data.ErrConflict, "employee with email %s already exists", employee.Email)
	}
	return err
}
