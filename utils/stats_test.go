package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"salescoach/models"
)

func record(pitch, intent int, objections []string, mistakes []models.Mistake) models.Analytics {
	return models.Analytics{
		PitchScore:  pitch,
		BuyerIntent: intent,
		Objections:  datatypes.NewJSONSlice(objections),
		Mistakes:    datatypes.NewJSONSlice(mistakes),
	}
}

func TestStatsWithNoRecords(t *testing.T) {
	stats := ComputeSalespersonStats(nil)

	assert.Equal(t, 0, stats.TotalAnalyzed)
	assert.Equal(t, 0, stats.AveragePitchScore)
	assert.Equal(t, 0, stats.AverageBuyerIntent)
	assert.Equal(t, 0, stats.BestPerformance)
	assert.Equal(t, 0, stats.WorstPerformance)
	assert.NotNil(t, stats.TopObjections)
	assert.Empty(t, stats.TopObjections)
	assert.NotNil(t, stats.CommonMistakes)
	assert.Empty(t, stats.CommonMistakes)
}

func TestStatsAggregates(t *testing.T) {
	records := []models.Analytics{
		record(80, 70, nil, nil),
		record(61, 55, nil, nil),
		record(90, 40, nil, nil),
	}

	stats := ComputeSalespersonStats(records)

	assert.Equal(t, 3, stats.TotalAnalyzed)
	// (80+61+90)/3 = 77, (70+55+40)/3 = 55
	assert.Equal(t, 77, stats.AveragePitchScore)
	assert.Equal(t, 55, stats.AverageBuyerIntent)
	assert.Equal(t, 90, stats.BestPerformance)
	assert.Equal(t, 61, stats.WorstPerformance)
}

func TestStatsMeanRoundsToNearest(t *testing.T) {
	// (70+71)/2 = 70.5 rounds up
	stats := ComputeSalespersonStats([]models.Analytics{
		record(70, 10, nil, nil),
		record(71, 11, nil, nil),
	})
	assert.Equal(t, 71, stats.AveragePitchScore)
	assert.Equal(t, 11, stats.AverageBuyerIntent)
}

func TestStatsObjectionRanking(t *testing.T) {
	records := []models.Analytics{
		record(50, 50, []string{"price", "price", "support"}, nil),
		record(50, 50, []string{"price", "timing"}, nil),
	}

	stats := ComputeSalespersonStats(records)

	assert.Equal(t, []ObjectionCount{
		{Objection: "price", Count: 3},
		{Objection: "support", Count: 1},
		{Objection: "timing", Count: 1},
	}, stats.TopObjections, "ties should rank by first appearance")
}

func TestStatsMistakesRankByStatement(t *testing.T) {
	records := []models.Analytics{
		record(50, 50, nil, []models.Mistake{
			{Statement: "talked over the customer", Comment: "pause more"},
			{Statement: "no closing question", Comment: "always ask"},
		}),
		record(50, 50, nil, []models.Mistake{
			{Statement: "no closing question", Comment: "a different comment"},
		}),
	}

	stats := ComputeSalespersonStats(records)

	assert.Equal(t, []MistakeCount{
		{Mistake: "no closing question", Count: 2},
		{Mistake: "talked over the customer", Count: 1},
	}, stats.CommonMistakes)
}

func TestStatsTopListsCapAtFive(t *testing.T) {
	records := []models.Analytics{
		record(50, 50, []string{"a", "b", "c", "d", "e", "f", "g"}, nil),
	}

	stats := ComputeSalespersonStats(records)
	assert.Len(t, stats.TopObjections, 5)
}
