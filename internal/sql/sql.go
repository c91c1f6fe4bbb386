package sql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	_ "github.com/mattn/go-sqlite3" //import for driver support
)

const (
	driverMysql  = "mysql"
	driverSqlite = "sqlite3"
)

const (
	tableEmployees  = "employees"
	employeeColumns = `id, first_name, last_name, email, phone_number, department,
		position, hire_date, salary, address, status`
)

type Sql interface {
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
}

type sqlDb struct {
	sync.RWMutex
	config struct {
		Hostname       string        `json:"hostname"`
		Port           string        `json:"port"`
		Username       string        `json:"username"`
		Password       string        `json:"password"`
		Database       string        `json:"database"`
		File           string        `json:"file"`
		ConnectRetries uint          `json:"connect_retries"`
		ConnectTimeout time.Duration `json:"connect_timeout"`
		QueryTimeout   time.Duration `json:"query_timeout"`
		ParseTime      bool          `json:"parse_time"`
		Migrate        bool          `json:"migrate"`
	}
	*sql.DB
	utilities.Logger
	driver string
	opened bool
}

func newSql(driver string, parameters ...any) *sqlDb {
	s := &sqlDb{driver: driver}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			s.Logger = v
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewLogger()
	}
	s.config.Hostname = "localhost"
	s.config.Port = "3306"
	s.config.Database = "employees"
	s.config.File = ":memory:"
	s.config.ConnectRetries = 1
	s.config.ConnectTimeout = 5 * time.Second
	s.config.QueryTimeout = 10 * time.Second
	return s
}

// NewMySql stores employees in a mysql database, the schema is expected
// to exist unless DATABASE_MIGRATE is set
func NewMySql(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Sql
} {
	return newSql(driverMysql, parameters...)
}

// NewSqlite stores employees in a sqlite database (in memory by default),
// the schema is created when opened unless DATABASE_MIGRATE is false
func NewSqlite(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Sql
} {
	s := newSql(driverSqlite, parameters...)
	s.config.Migrate = true
	return s
}

func (s *sqlDb) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		s.config.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		s.config.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		s.config.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		s.config.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		s.config.Password = password
	}
	if file := envs["DATABASE_FILE"]; file != "" {
		s.config.File = file
	}
	if _, ok := envs["DATABASE_CONNECT_RETRIES"]; ok {
		i, _ := strconv.ParseUint(envs["DATABASE_CONNECT_RETRIES"], 10, 64)
		if i > 0 {
			s.config.ConnectRetries = uint(i)
		}
	}
	if _, ok := envs["DATABASE_CONNECT_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_CONNECT_TIMEOUT"], 10, 64)
		s.config.ConnectTimeout = time.Duration(i) * time.Second
	}
	if _, ok := envs["DATABASE_QUERY_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_QUERY_TIMEOUT"], 10, 64)
		s.config.QueryTimeout = time.Duration(i) * time.Second
	}
	if _, ok := envs["DATABASE_PARSE_TIME"]; ok {
		s.config.ParseTime, _ = strconv.ParseBool(envs["DATABASE_PARSE_TIME"])
	}
	if _, ok := envs["DATABASE_MIGRATE"]; ok {
		s.config.Migrate, _ = strconv.ParseBool(envs["DATABASE_MIGRATE"])
	}
	return nil
}

func (s *sqlDb) dataSourceName() string {
	switch s.driver {
	default:
		return s.config.File
	case driverMysql:
		config := mysql.NewConfig()
		config.User = s.config.Username
		config.Passwd = s.config.Password
		config.Net = "tcp"
		config.Addr = net.JoinHostPort(s.config.Hostname, s.config.Port)
		config.DBName = s.config.Database
		config.ParseTime = s.config.ParseTime
		config.Timeout = s.config.ConnectTimeout
		return config.FormatDSN()
	}
}

func (s *sqlDb) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.opened {
		return errors.New("sql already opened")
	}
	db, err := sql.Open(s.driver, s.dataSourceName())
	if err != nil {
		return errors.Wrap(err, "unable to open database")
	}
	if s.driver == driverSqlite {
		// every connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}
	if _, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := db.PingContext(ctx); err != nil {
			s.Debug(ctx, "unable to ping database (%s): %s", s.driver, err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.config.ConnectRetries)); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "unable to ping database")
	}
	if s.config.Migrate {
		if err := migrate(ctx, db, s.driver); err != nil {
			_ = db.Close()
			return err
		}
	}
	s.DB = db
	s.opened = true
	s.Info(ctx, "database opened (%s)", s.driver)
	return nil
}

func (s *sqlDb) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.opened {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		s.Error(ctx, "error while closing sql: %s", err)
	}
	s.opened = false
	return nil
}

func (s *sqlDb) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.config.QueryTimeout)
}

func (s *sqlDb) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	s.RLock()
	defer s.RUnlock()

	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`INSERT INTO %s (first_name, last_name, email, phone_number,
		department, position, hire_date, salary, address, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`, tableEmployees)
	result, err := s.ExecContext(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.PhoneNumber,
		employee.Department,
		employee.Position,
		employee.HireDate,
		employee.Salary,
		employee.Address,
		employee.Status,
	)
	if err != nil {
		return nil, employeeError(err, employee)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return employeeRead(ctx, s.DB, id)
}

func (s *sqlDb) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	s.RLock()
	defer s.RUnlock()

	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return employeeRead(ctx, s.DB, id)
}

func (s *sqlDb) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	s.RLock()
	defer s.RUnlock()

	employees := []*data.Employee{}
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	criteria, args := employeeCriteria(search)
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY id;`,
		employeeColumns, tableEmployees, criteria)
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := employeeScan(rows.Scan)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// EmployeeUpdate replaces every field of the employee, rows affected isn't
// used to detect a missing employee since mysql doesn't count rows whose
// values didn't change
func (s *sqlDb) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	s.RLock()
	defer s.RUnlock()

	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`UPDATE %s SET first_name = ?, last_name = ?, email = ?,
		phone_number = ?, department = ?, position = ?, hire_date = ?, salary = ?,
		address = ?, status = ? WHERE id = ?;`, tableEmployees)
	if _, err := s.ExecContext(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.PhoneNumber,
		employee.Department,
		employee.Position,
		employee.HireDate,
		employee.Salary,
		employee.Address,
		employee.Status,
		id,
	); err != nil {
		return nil, employeeError(err, employee)
	}
	return employeeRead(ctx, s.DB, id)
}

func (s *sqlDb) EmployeeDelete(ctx context.Context, id int64) error {
	s.RLock()
	defer s.RUnlock()

	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?;`, tableEmployees)
	result, err := s.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(data.ErrNotFound, "employee (%d)", id)
	}
	return nil
}

func employeeRead(ctx context.Context, db *sql.DB, id int64) (*data.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?;`,
		employeeColumns, tableEmployees)
	row := db.QueryRowContext(ctx, query, id)
	employee, err := employeeScan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(data.ErrNotFound, "employee (%d)", id)
		}
		return nil, err
	}
	return employee, nil
}
