package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatus_Next(t *testing.T) {
	require.Equal(t, StatusDone, StatusPending.Next())
	require.Equal(t, StatusPending, StatusDone.Next())
	require.Equal(t, StatusDone, StatusIgnored.Next())
}

func TestTodo_ToggleIgnored(t *testing.T) {
	td := NewTodo("x")
	td.ToggleIgnored()
	require.Equal(t, StatusIgnored, td.Status)
	td.ToggleIgnored()
	require.Equal(t, StatusPending, td.Status)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("29-02-2024")
	require.NoError(t, err)
	require.Equal(t, Date{Day: 29, Month: 2, Year: 2024}, d)
	require.Equal(t, "29-02-2024", d.String())

	for _, in := range []string{"5-3-2024", "05-3-2024", "5-03-2024", "05-03-2024"} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		require.Equal(t, Date{Day: 5, Month: 3, Year: 2024}, d, in)
		require.Equal(t, "05-03-2024", d.String(), "shown zero padded")
	}

	for _, bad := range []string{"31-02-2024", "29-02-2023", "31-2-2024", "2024-02-01", "5-3-24", "tomorrow", ""} {
		_, err := ParseDate(bad)
		require.Error(t, err, bad)
	}
}

func TestTodo_Overdue(t *testing.T) {
	today := Date{Day: 10, Month: 3, Year: 2025}
	td := NewTodo("file taxes")
	require.False(t, td.Overdue(today), "no due date")

	td.DueDate = &Date{Day: 9, Month: 3, Year: 2025}
	require.True(t, td.Overdue(today))

	td.CycleStatus()
	require.False(t, td.Overdue(today), "done items are never overdue")

	td.CycleStatus()
	td.DueDate = &today
	require.False(t, td.Overdue(today), "due today is not overdue")
}

func TestTodo_CloneIsDeep(t *testing.T) {
	td := NewTodo("x")
	td.DueDate = &Date{Day: 1, Month: 1, Year: 2025}
	td.DueTime = &TimeOfDay{Hour: 9}

	c := td.Clone().(*Todo)
	c.DueDate.Day = 2
	c.DueTime.Hour = 10
	c.SetText("y")

	require.Equal(t, 1, td.DueDate.Day)
	require.Equal(t, 9, td.DueTime.Hour)
	require.Equal(t, "x", td.Text())
}

func TestTodo_YAML(t *testing.T) {
	td := NewTodo("water plants")
	d := DateOf(time.Date(2025, 6, 1, 15, 0, 0, 0, time.Local))
	td.DueDate = &d

	data, err := yaml.Marshal(td)
	require.NoError(t, err)
	require.NotContains(t, string(data), "due_time", "nil due time is omitted")

	var back Todo
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.Equal(t, *td, back)
}
