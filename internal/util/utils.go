package util

import "os-scheduler/internal/core"

// CalculateAverage averages the per-process metrics of terminated processes.
// An empty slice yields zeros.
func CalculateAverage(processes []*core.Process) (averageWaitingTime, averageResponseTime, averageTurnAroundTime float64) {
	if len(processes) == 0 {
		return
	}
	var waitingTimeSum, responseTimeSum, turnAroundTimeSum int
	for _, p := range processes {
		waitingTimeSum += p.WaitingTime
		responseTimeSum += p.ResponseTime
		turnAroundTimeSum += p.TurnaroundTime
	}

	processCount := float64(len(processes))
	averageWaitingTime = float64(waitingTimeSum) / processCount
	averageResponseTime = float64(responseTimeSum) / processCount
	averageTurnAroundTime = float64(turnAroundTimeSum) / processCount
	return
}

// LastCompletion returns the largest completion time, or 0 when empty.
func LastCompletion(processes []*core.Process) int {
	last := 0
	for _, p := range processes {
		last = max(last, p.CompletionTime)
	}
	return last
}
