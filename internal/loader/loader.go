package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
)

var ErrMalformedLine = errors.New("malformed process line")

// fieldCount is pid,arrival_time,burst_time,priority,user.
const fieldCount = 5

// LineError reports one line of a batch file that could not be parsed.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// LoadError collects every failed line of one load.
type LoadError struct {
	Lines []*LineError
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%d malformed line(s): %v", len(e.Lines), e.Unwrap())
}

func (e *LoadError) Unwrap() error {
	errs := make([]error, 0, len(e.Lines))
	for _, l := range e.Lines {
		errs = append(errs, l)
	}
	return errors.Join(errs...)
}

// Parse reads a batch description. Blank lines and lines whose first
// non-blank character is '#' are skipped. A bad line never stops the load:
// every valid job is returned and the bad lines come back as a *LoadError.
func Parse(r io.Reader) ([]requests.Job, error) {
	var (
		jobs   []requests.Job
		failed []*LineError
	)
	seen := make(map[int]int)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		job, err := parseLine(line)
		if err == nil {
			if first, dup := seen[job.ProcessId]; dup {
				err = fmt.Errorf("%w: pid %d already defined on line %d", ErrMalformedLine, job.ProcessId, first)
			} else {
				seen[job.ProcessId] = n
			}
		}
		if err != nil {
			failed = append(failed, &LineError{Line: n, Text: line, Err: err})
			continue
		}
		jobs = append(jobs, job)
	}
	if err := sc.Err(); err != nil {
		return jobs, err
	}
	if len(failed) > 0 {
		return jobs, &LoadError{Lines: failed}
	}
	return jobs, nil
}

// Load parses r and creates one process in pm per valid line, in file
// order. The returned count is the number of processes created.
func Load(r io.Reader, pm *core.Manager) (int, error) {
	jobs, err := Parse(r)
	for _, job := range jobs {
		pm.CreateProcess(job.ProcessId, job.BurstTime, job.ArrivalTime, job.Priority, job.User)
	}
	return len(jobs), err
}

// ParseFile is Parse over the file at path.
func ParseFile(path string) ([]requests.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

func parseLine(line string) (requests.Job, error) {
	parts := strings.Split(line, ",")
	if len(parts) < fieldCount {
		return requests.Job{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedLine, fieldCount, len(parts))
	}
	var nums [fieldCount - 1]int
	names := [...]string{"pid", "arrival_time", "burst_time", "priority"}
	for i := range nums {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return requests.Job{}, fmt.Errorf("%w: %s: %v", ErrMalformedLine, names[i], err)
		}
		nums[i] = v
	}
	if nums[1] < 0 {
		return requests.Job{}, fmt.Errorf("%w: negative arrival_time", ErrMalformedLine)
	}
	if nums[2] <= 0 {
		return requests.Job{}, fmt.Errorf("%w: burst_time must be positive", ErrMalformedLine)
	}
	return requests.Job{
		ProcessId:   nums[0],
		ArrivalTime: nums[1],
		BurstTime:   nums[2],
		Priority:    nums[3],
		User:        strings.TrimSpace(parts[4]),
	}, nil
}
