package services

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/prepforge/pkg/models"
)

// Load-balancing bands: days above 1.3x the average minute load are
// overloaded, days below 0.7x are underloaded.
const (
	overloadFactor  = 1.3
	underloadFactor = 0.7

	// Pruning tolerance: total required time may exceed the calendar
	// budget by up to 20% before low-hotness problems are dropped.
	excessBuffer = 1.2
)

// ScheduleResult is the materialized calendar plus placement
// diagnostics.
type ScheduleResult struct {
	Days    []models.StudyDay
	Dropped int
	Pruned  int
}

// ScheduleGenerator distributes a selected problem set across study
// days under a daily time budget, preferring diverse days and
// rebalancing load afterwards.
type ScheduleGenerator struct {
	logger *logrus.Logger
}

func NewScheduleGenerator(logger *logrus.Logger) *ScheduleGenerator {
	return &ScheduleGenerator{logger: logger}
}

type dayAccumulator struct {
	problems []models.EnrichedProblem
	minutes  int
	topics   map[string]bool
}

// Generate lays out the problems. start defaults to today when zero.
func (g *ScheduleGenerator) Generate(
	problems []models.EnrichedProblem,
	timelineDays int,
	hoursPerDay float64,
	start time.Time,
) *ScheduleResult {
	dailyBudget := int(hoursPerDay * 60)
	result := &ScheduleResult{}

	ordered := make([]models.EnrichedProblem, len(problems))
	copy(ordered, problems)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Hotness.Score != ordered[j].Hotness.Score {
			return ordered[i].Hotness.Score > ordered[j].Hotness.Score
		}
		return ordered[i].ID < ordered[j].ID
	})

	ordered, result.Pruned = g.pruneExcess(ordered, timelineDays, dailyBudget)

	days := g.placeGreedy(ordered, timelineDays, dailyBudget, result)
	g.rebalance(days, dailyBudget)
	result.Days = g.materialize(days, start)

	return result
}

// pruneExcess drops lowest-hotness problems when total required time
// overflows the calendar by more than the buffer, so overflow never
// dumps into the final day. The fit count is computed against the
// smallest observed per-problem time.
func (g *ScheduleGenerator) pruneExcess(
	ordered []models.EnrichedProblem,
	timelineDays, dailyBudget int,
) ([]models.EnrichedProblem, int) {
	if len(ordered) == 0 {
		return ordered, 0
	}

	available := timelineDays * dailyBudget
	total := 0
	minTime := ordered[0].EstimatedMinutes
	for _, p := range ordered {
		total += p.EstimatedMinutes
		if p.EstimatedMinutes < minTime {
			minTime = p.EstimatedMinutes
		}
	}

	if float64(total) <= float64(available)*excessBuffer || minTime <= 0 {
		return ordered, 0
	}

	maxCount := int(math.Floor(float64(available) / float64(minTime) * excessBuffer))
	if maxCount < 1 {
		maxCount = 1
	}
	if maxCount >= len(ordered) {
		return ordered, 0
	}

	pruned := len(ordered) - maxCount
	g.logger.WithFields(logrus.Fields{
		"total_minutes":     total,
		"available_minutes": available,
		"pruned":            pruned,
	}).Debug("Pruned excess problems before placement")

	return ordered[:maxCount], pruned
}

// placeGreedy processes problems hotness-descending, putting each on
// the existing day with spare budget that gains the most new topics,
// opening a new day when none qualifies and the timeline allows.
func (g *ScheduleGenerator) placeGreedy(
	ordered []models.EnrichedProblem,
	timelineDays, dailyBudget int,
	result *ScheduleResult,
) []*dayAccumulator {
	var days []*dayAccumulator

	for _, problem := range ordered {
		bestDay := -1
		bestGain := -1

		for i, day := range days {
			if day.minutes+problem.EstimatedMinutes > dailyBudget {
				continue
			}
			gain := topicGain(problem.Topics, day.topics)
			if gain > bestGain {
				bestGain = gain
				bestDay = i
			}
		}

		if bestDay >= 0 {
			addToDay(days[bestDay], problem)
			continue
		}

		if len(days) < timelineDays {
			day := &dayAccumulator{topics: make(map[string]bool)}
			addToDay(day, problem)
			days = append(days, day)
			continue
		}

		result.Dropped++
		g.logger.WithFields(logrus.Fields{
			"problem_id": problem.ID,
			"minutes":    problem.EstimatedMinutes,
		}).Debug("No day with spare budget, dropping problem")
	}

	return days
}

func addToDay(day *dayAccumulator, problem models.EnrichedProblem) {
	day.problems = append(day.problems, problem)
	day.minutes += problem.EstimatedMinutes
	for _, topic := range problem.Topics {
		day.topics[topic] = true
	}
}

func topicGain(topics []string, covered map[string]bool) int {
	gain := 0
	for _, topic := range topics {
		if !covered[topic] {
			gain++
		}
	}
	return gain
}

// rebalance moves the smallest problem from an overloaded day to an
// underloaded one when the move keeps both days inside the bands.
// One move per overloaded/underloaded pair, first qualifying wins;
// multi-hop rebalancing is never attempted.
func (g *ScheduleGenerator) rebalance(days []*dayAccumulator, dailyBudget int) {
	if len(days) < 2 {
		return
	}

	total := 0
	for _, day := range days {
		total += day.minutes
	}
	average := float64(total) / float64(len(days))
	if average <= 0 {
		return
	}

	for _, source := range days {
		if float64(source.minutes) <= overloadFactor*average {
			continue
		}

		for _, dest := range days {
			if dest == source || float64(dest.minutes) >= underloadFactor*average {
				continue
			}

			idx := smallestProblemIndex(source.problems)
			if idx < 0 {
				break
			}
			candidate := source.problems[idx]

			if float64(source.minutes-candidate.EstimatedMinutes) < underloadFactor*average {
				continue
			}
			if dest.minutes+candidate.EstimatedMinutes > dailyBudget {
				continue
			}
			if float64(dest.minutes+candidate.EstimatedMinutes) > overloadFactor*average {
				continue
			}

			source.problems = append(source.problems[:idx], source.problems[idx+1:]...)
			source.minutes -= candidate.EstimatedMinutes
			source.topics = rebuildTopics(source.problems)
			addToDay(dest, candidate)
			break
		}
	}
}

func smallestProblemIndex(problems []models.EnrichedProblem) int {
	if len(problems) == 0 {
		return -1
	}
	idx := 0
	for i, p := range problems {
		if p.EstimatedMinutes < problems[idx].EstimatedMinutes {
			idx = i
		}
	}
	return idx
}

func rebuildTopics(problems []models.EnrichedProblem) map[string]bool {
	topics := make(map[string]bool)
	for _, p := range problems {
		for _, topic := range p.Topics {
			topics[topic] = true
		}
	}
	return topics
}

// materialize assigns sequential calendar dates, realizes each day's
// topic union, and stamps every problem with its day number.
func (g *ScheduleGenerator) materialize(days []*dayAccumulator, start time.Time) []models.StudyDay {
	if start.IsZero() {
		start = time.Now().UTC().Truncate(24 * time.Hour)
	}

	result := make([]models.StudyDay, 0, len(days))
	for i, day := range days {
		topics := make([]string, 0, len(day.topics))
		for topic := range day.topics {
			topics = append(topics, topic)
		}
		sort.Strings(topics)

		problems := make([]models.EnrichedProblem, len(day.problems))
		copy(problems, day.problems)
		for j := range problems {
			problems[j].Day = i + 1
		}

		result = append(result, models.StudyDay{
			Day:            i + 1,
			Date:           start.AddDate(0, 0, i),
			Problems:       problems,
			EstimatedHours: math.Round(float64(day.minutes)/60*100) / 100,
			Topics:         topics,
		})
	}

	return result
}
