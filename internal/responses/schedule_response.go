package responses

// Interval is one timeline entry: pid held the CPU during [Start, End).
type Interval struct {
	ProcessId int `json:"process_id"`
	Start     int `json:"start"`
	End       int `json:"end"`
}

// Metrics is the aggregate result of one simulation.
type Metrics struct {
	AverageWaitingTime    float64 `json:"avg_waiting"`
	AverageTurnAroundTime float64 `json:"avg_turnaround"`
	Throughput            float64 `json:"throughput"`
}

type ProcessResponse struct {
	ProcessId      int    `json:"process_id"`
	User           string `json:"user"`
	Priority       int    `json:"priority"`
	ArrivalTime    int    `json:"arrival_time"`
	BurstTime      int    `json:"burst_time"`
	StartTime      int    `json:"start_time"`
	CompletionTime int    `json:"completion_time"`
	ResponseTime   int    `json:"response_time"`
	TurnAroundTime int    `json:"turn_around_time"`
	WaitingTime    int    `json:"waiting_time"`
}

type ScheduleResponse struct {
	Policy              string            `json:"policy"`
	Quantum             int               `json:"quantum,omitempty"`
	Timeline            []Interval        `json:"timeline"`
	Metrics             Metrics           `json:"metrics"`
	TotalTime           int               `json:"total_time"`
	BusyTime            int               `json:"busy_time"`
	IdleTime            int               `json:"idle_time"`
	CpuUtilization      float64           `json:"cpu_utilization"`
	AverageResponseTime float64           `json:"average_response_time"`
	ContextSwitches     int               `json:"context_switches"`
	Details             []ProcessResponse `json:"details"`
}

// CompareResponse holds one result per policy, in FCFS, SJF, RR order.
type CompareResponse struct {
	Results []ScheduleResponse `json:"results"`
}
