package collector

import (
	"fmt"
	"strings"
	"time"

	"marketevents/internal/event"
	"marketevents/internal/prompts"
)

type Task string

const (
	TaskDaily     Task = "daily"
	TaskWeekly    Task = "weekly"
	TaskBreaking  Task = "breaking"
	TaskEarnings  Task = "earnings"
	TaskSentiment Task = "sentiment"
)

// Triggers recorded on collection runs.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerCLI      = "cli"
)

type taskSpec struct {
	search string
	kind   event.Kind
	title  string
}

var taskSpecs = map[Task]taskSpec{
	TaskDaily:     {search: prompts.KeyDailySearch, kind: event.KindGeneral, title: "美股市场每日事件"},
	TaskWeekly:    {search: prompts.KeyWeeklySearch, kind: event.KindGeneral, title: "美股市场下周事件"},
	TaskBreaking:  {search: prompts.KeyBreakingSearch, kind: event.KindGeneral, title: "美股突发新闻"},
	TaskEarnings:  {search: prompts.KeyEarningsSearch, kind: event.KindEarnings, title: "美股财报日历"},
	TaskSentiment: {search: prompts.KeySentimentSearch, kind: event.KindGeneral, title: "美股市场情绪"},
}

// Tasks lists every task in a stable order.
func Tasks() []Task {
	return []Task{TaskDaily, TaskWeekly, TaskBreaking, TaskEarnings, TaskSentiment}
}

func ParseTask(s string) (Task, error) {
	t := Task(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := taskSpecs[t]; !ok {
		return "", fmt.Errorf("unknown task %q", s)
	}
	return t, nil
}

// NextWeek returns the Monday to Sunday range following now, formatted for
// the weekly search prompt. On a Monday it is the Monday a week later.
func NextWeek(now time.Time) string {
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, 7-offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(event.DateLayout) + " 至 " + sunday.Format(event.DateLayout)
}
