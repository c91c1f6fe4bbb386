package data

const (
	RouteEmployees            string = "/api/employees"
	RouteEmployeesId          string = RouteEmployees + "/{" + PathId + ":[0-9]+}"
	RouteEmployeesIdf         string = RouteEmployees + "/%d"
	RouteEmployeesDepartment  string = RouteEmployees + "/department/{" + PathDepartment + "}"
	RouteEmployeesDepartmentf string = RouteEmployees + "/department/%s"
	RouteEmployeesStatus      string = RouteEmployees + "/status/{" + PathStatus + "}"
	RouteEmployeesStatusf     string = RouteEmployees + "/status/%s"
	RouteCache                string = "/api/cache"
)

const (
	PathId         string = "id"
	PathDepartment string = "department"
	PathStatus     string = "status"
)

const HeaderCorrelationId string = "Correlation-Id"

// DeleteResponse is the body the backend answers a successful delete with
type DeleteResponse struct {
	Message string `json:"message"`
	Id      string `json:"id"`
}

var (
	Version   string
	GitCommit string
	GitBranch string
)
