package backend

// Endpoint - имя эндпоинта бэкенда (используется в логах, метриках и ошибках)
type Endpoint string

const (
	EndpointNOPSummary     Endpoint = "nop_summary"
	EndpointDeposits       Endpoint = "deposits_summary"
	EndpointClientMonitor  Endpoint = "client_monitor"
	EndpointRiskMonitor    Endpoint = "risk_monitor"
	EndpointPositionMatrix Endpoint = "position_matrix"
)

// AllEndpoints - все эндпоинты, опрашиваемые за один цикл
var AllEndpoints = []Endpoint{
	EndpointNOPSummary,
	EndpointDeposits,
	EndpointClientMonitor,
	EndpointRiskMonitor,
	EndpointPositionMatrix,
}

var endpointPaths = map[Endpoint]string{
	EndpointNOPSummary:     "/api/nop/summary",
	EndpointDeposits:       "/api/deposits/summary",
	EndpointClientMonitor:  "/api/client-monitor",
	EndpointRiskMonitor:    "/api/risk-monitor/clients",
	EndpointPositionMatrix: "/api/position-matrix",
}

// Path возвращает путь эндпоинта относительно базового URL
func (e Endpoint) Path() string {
	return endpointPaths[e]
}

func (e Endpoint) String() string {
	return string(e)
}
