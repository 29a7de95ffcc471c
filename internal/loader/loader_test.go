package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
)

const batch = `# pid,arrival,burst,priority,user
1,0,5,1,alice

   # indented comment
2, 1, 3, 0, bob
3,2,4
4,x,4,0,carol
5,3,6,2,dave
1,4,4,0,eve
6,0,0,0,zero
`

func TestParseRecoversPerLine(t *testing.T) {
	jobs, err := Parse(strings.NewReader(batch))

	assert.Equal(t, []requests.Job{
		{ProcessId: 1, ArrivalTime: 0, BurstTime: 5, Priority: 1, User: "alice"},
		{ProcessId: 2, ArrivalTime: 1, BurstTime: 3, Priority: 0, User: "bob"},
		{ProcessId: 5, ArrivalTime: 3, BurstTime: 6, Priority: 2, User: "dave"},
	}, jobs)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	require.Len(t, loadErr.Lines, 4)
	var lines []int
	for _, l := range loadErr.Lines {
		lines = append(lines, l.Line)
		assert.ErrorIs(t, l, ErrMalformedLine)
	}
	assert.Equal(t, []int{6, 7, 9, 10}, lines)
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestParseClean(t *testing.T) {
	jobs, err := Parse(strings.NewReader("\n# nothing\n7,0,1,0,root\n"))
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestLoadIntoManager(t *testing.T) {
	pm := core.NewManager()
	n, err := Load(strings.NewReader(batch), pm)
	assert.Error(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, core.Counts{Created: 3, Ready: 3}, pm.Counts())
	assert.Equal(t, "bob", pm.ReadyQueue()[1].User)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procs.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,0,5,0,a\n2,1,3,0,b\n"), 0o600))
	jobs, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseSampleBatch(t *testing.T) {
	jobs, err := ParseFile(filepath.Join("..", "..", "testdata", "processes.txt"))
	require.NoError(t, err)
	require.Len(t, jobs, 5)
	assert.Equal(t, requests.Job{ProcessId: 5, ArrivalTime: 10, BurstTime: 2, Priority: 1, User: "carol"}, jobs[4])
}

func TestParseLongLine(t *testing.T) {
	user := strings.Repeat("u", 70*1024)
	jobs, err := Parse(strings.NewReader("1,0,5,0,a\n2,1,3,0," + user + "\n3,2,4,0,c\n"))
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, user, jobs[1].User)
	assert.Equal(t, 3, jobs[2].ProcessId)
}
