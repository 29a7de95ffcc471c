package schedulers

import (
	"os-scheduler/internal/core"
	"os-scheduler/internal/responses"
	"os-scheduler/internal/util"
)

func computeMetrics(terminated []*core.Process) responses.Metrics {
	if len(terminated) == 0 {
		return responses.Metrics{}
	}
	averageWaitingTime, _, averageTurnAroundTime := util.CalculateAverage(terminated)
	var throughput float64
	if total := util.LastCompletion(terminated); total > 0 {
		throughput = float64(len(terminated)) / float64(total)
	}
	return responses.Metrics{
		AverageWaitingTime:    averageWaitingTime,
		AverageTurnAroundTime: averageTurnAroundTime,
		Throughput:            throughput,
	}
}

func generateResponse(s Scheduler, pm *core.Manager, quantum int) responses.ScheduleResponse {
	terminated := pm.Terminated()
	timeline := s.Timeline()
	if timeline == nil {
		timeline = []responses.Interval{}
	}
	_, averageResponseTime, _ := util.CalculateAverage(terminated)

	busyTime := 0
	for _, iv := range timeline {
		busyTime += iv.End - iv.Start
	}
	totalTime := util.LastCompletion(terminated)
	var utilization float64
	if totalTime > 0 {
		utilization = float64(busyTime) / float64(totalTime)
	}

	details := make([]responses.ProcessResponse, 0, len(terminated))
	for _, p := range terminated {
		details = append(details, generateProcessDetails(p))
	}

	return responses.ScheduleResponse{
		Policy:              string(s.Policy()),
		Quantum:             quantum,
		Timeline:            timeline,
		Metrics:             s.ComputeMetrics(),
		TotalTime:           totalTime,
		BusyTime:            busyTime,
		IdleTime:            totalTime - busyTime,
		CpuUtilization:      utilization,
		AverageResponseTime: averageResponseTime,
		ContextSwitches:     pm.ContextSwitches(),
		Details:             details,
	}
}

func generateProcessDetails(p *core.Process) responses.ProcessResponse {
	return responses.ProcessResponse{
		ProcessId:      p.PID,
		User:           p.User,
		Priority:       p.Priority,
		ArrivalTime:    p.ArrivalTime,
		BurstTime:      p.BurstTime,
		StartTime:      p.StartTime,
		CompletionTime: p.CompletionTime,
		ResponseTime:   p.ResponseTime,
		TurnAroundTime: p.TurnaroundTime,
		WaitingTime:    p.WaitingTime,
	}
}
