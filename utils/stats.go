package utils

import (
	"math"
	"sort"

	"salescoach/models"
)

type ObjectionCount struct {
	Objection string `json:"objection"`
	Count     int    `json:"count"`
}

type MistakeCount struct {
	Mistake string `json:"mistake"`
	Count   int    `json:"count"`
}

// SalespersonStats summarizes a salesperson's analytics records within
// a trailing window.
type SalespersonStats struct {
	TotalAnalyzed      int              `json:"totalAnalyzed"`
	AveragePitchScore  int              `json:"averagePitchScore"`
	AverageBuyerIntent int              `json:"averageBuyerIntent"`
	BestPerformance    int              `json:"bestPerformance"`
	WorstPerformance   int              `json:"worstPerformance"`
	TopObjections      []ObjectionCount `json:"topObjections"`
	CommonMistakes     []MistakeCount   `json:"commonMistakes"`
}

// ComputeSalespersonStats aggregates analytics records already loaded
// into memory. Zero records yields a zeroed structure with empty lists,
// never an error. Frequency ranking ties break by first appearance
// because counting preserves first-seen insertion order.
func ComputeSalespersonStats(records []models.Analytics) SalespersonStats {
	if len(records) == 0 {
		return SalespersonStats{
			TopObjections:  []ObjectionCount{},
			CommonMistakes: []MistakeCount{},
		}
	}

	var pitchSum, intentSum int
	bestPitch := records[0].PitchScore
	worstPitch := records[0].PitchScore

	objections := newFrequencyTable()
	mistakes := newFrequencyTable()

	for _, record := range records {
		pitchSum += record.PitchScore
		intentSum += record.BuyerIntent
		if record.PitchScore > bestPitch {
			bestPitch = record.PitchScore
		}
		if record.PitchScore < worstPitch {
			worstPitch = record.PitchScore
		}

		for _, objection := range record.Objections {
			objections.add(objection)
		}
		// Mistakes rank by the quoted statement, not the comment
		for _, mistake := range record.Mistakes {
			mistakes.add(mistake.Statement)
		}
	}

	n := float64(len(records))

	topObjections := make([]ObjectionCount, 0, maxListItems)
	for _, entry := range objections.top(maxListItems) {
		topObjections = append(topObjections, ObjectionCount{Objection: entry.key, Count: entry.count})
	}

	commonMistakes := make([]MistakeCount, 0, maxListItems)
	for _, entry := range mistakes.top(maxListItems) {
		commonMistakes = append(commonMistakes, MistakeCount{Mistake: entry.key, Count: entry.count})
	}

	return SalespersonStats{
		TotalAnalyzed:      len(records),
		AveragePitchScore:  int(math.Round(float64(pitchSum) / n)),
		AverageBuyerIntent: int(math.Round(float64(intentSum) / n)),
		BestPerformance:    bestPitch,
		WorstPerformance:   worstPitch,
		TopObjections:      topObjections,
		CommonMistakes:     commonMistakes,
	}
}

// frequencyTable counts strings while remembering first-seen order so
// equal counts rank by first appearance.
type frequencyTable struct {
	counts map[string]int
	order  []string
}

func newFrequencyTable() *frequencyTable {
	return &frequencyTable{counts: make(map[string]int)}
}

func (t *frequencyTable) add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

type frequencyEntry struct {
	key   string
	count int
}

func (t *frequencyTable) top(n int) []frequencyEntry {
	entries := make([]frequencyEntry, 0, len(t.order))
	for _, key := range t.order {
		entries = append(entries, frequencyEntry{key: key, count: t.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
