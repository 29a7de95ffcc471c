package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"os-scheduler/internal/responses"
)

func renderResult(w io.Writer, res responses.ScheduleResponse) error {
	title := strings.ToUpper(res.Policy)
	if res.Quantum > 0 {
		title += fmt.Sprintf(" (quantum=%d)", res.Quantum)
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\nTIMELINE\n", title); err != nil {
		return err
	}
	if err := renderGantt(w, res.Timeline); err != nil {
		return err
	}
	renderDetails(w, res)
	return renderMetrics(w, res)
}

// renderGantt prints one bar per timeline interval, one '=' per time unit.
func renderGantt(w io.Writer, timeline []responses.Interval) error {
	if len(timeline) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	for _, iv := range timeline {
		bar := strings.Repeat("=", iv.End-iv.Start)
		if _, err := fmt.Fprintf(w, "P%d|%s|%d->%d\n", iv.ProcessId, bar, iv.Start, iv.End); err != nil {
			return err
		}
	}
	return nil
}

func renderDetails(w io.Writer, res responses.ScheduleResponse) {
	rows := make([][]string, 0, len(res.Details))
	for _, d := range res.Details {
		rows = append(rows, []string{
			strconv.Itoa(d.ProcessId),
			d.User,
			strconv.Itoa(d.Priority),
			strconv.Itoa(d.ArrivalTime),
			strconv.Itoa(d.BurstTime),
			strconv.Itoa(d.StartTime),
			strconv.Itoa(d.CompletionTime),
			strconv.Itoa(d.WaitingTime),
			strconv.Itoa(d.TurnAroundTime),
			strconv.Itoa(d.ResponseTime),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "User", "Priority", "Arrival", "Burst", "Start", "Exit", "Wait", "Turnaround", "Response"})
	table.AppendBulk(rows)
	table.Render()
}

func renderMetrics(w io.Writer, res responses.ScheduleResponse) error {
	_, err := fmt.Fprintf(w, "\nMETRICS\navg_waiting: %.3f\navg_turnaround: %.3f\nthroughput: %.3f\n"+
		"total_time: %d  idle_time: %d  cpu_utilization: %.3f  context_switches: %d\n",
		res.Metrics.AverageWaitingTime, res.Metrics.AverageTurnAroundTime, res.Metrics.Throughput,
		res.TotalTime, res.IdleTime, res.CpuUtilization, res.ContextSwitches)
	return err
}

func renderComparison(w io.Writer, results []responses.ScheduleResponse) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Policy", "Avg Wait", "Avg Turnaround", "Avg Response", "Throughput", "Utilization", "Switches"})
	for _, res := range results {
		policy := strings.ToUpper(res.Policy)
		if res.Quantum > 0 {
			policy += fmt.Sprintf(" q=%d", res.Quantum)
		}
		table.Append([]string{
			policy,
			fmt.Sprintf("%.3f", res.Metrics.AverageWaitingTime),
			fmt.Sprintf("%.3f", res.Metrics.AverageTurnAroundTime),
			fmt.Sprintf("%.3f", res.AverageResponseTime),
			fmt.Sprintf("%.3f", res.Metrics.Throughput),
			fmt.Sprintf("%.3f", res.CpuUtilization),
			strconv.Itoa(res.ContextSwitches),
		})
	}
	table.Render()
	return nil
}
