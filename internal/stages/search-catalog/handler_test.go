// internal/stages/search-catalog/handler_test.go
package searchcatalog

import (
	"context"
	"testing"

	"phone-assistant/internal/catalog"
	"phone-assistant/internal/common/logger"
	parsequery "phone-assistant/internal/stages/parse-query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestStore() *catalog.Store {
	return catalog.NewStore([]catalog.Phone{
		{
			ID: "alpha-one", Brand: "Alpha", Model: "One", Price: 15000,
			CameraMP: 50, OIS: true, BatteryMAh: 5000, ChargingW: 67,
			DisplayInches: 6.5, AMOLED: true, SoC: "Snapdragon 7s Gen 2",
		},
		{
			ID: "alpha-two", Brand: "Alpha", Model: "Two", Price: 25000,
			CameraMP: 108, OIS: true, BatteryMAh: 5500, ChargingW: 100,
			DisplayInches: 6.7, AMOLED: true, SoC: "Dimensity 7200",
		},
		{
			ID: "beta-mini", Brand: "Beta", Model: "Mini", Price: 42000,
			CameraMP: 50, OIS: true, BatteryMAh: 4300, ChargingW: 25,
			DisplayInches: 6.1, AMOLED: true, SoC: "Snapdragon 8 Gen 2", Compact: true,
		},
		{
			ID: "gamma-lite", Brand: "Gamma", Model: "Lite", Price: 9000,
			CameraMP: 13, BatteryMAh: 5000, ChargingW: 18,
			DisplayInches: 6.7, SoC: "Helio G85",
		},
	})
}

func createTestHandler(t *testing.T, topK int) *Handler {
	config := LoadConfig()
	config.TopK = topK
	return NewHandler(config, createTestStore(), logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RecommendAppliesFiltersAndTopK(t *testing.T) {
	handler := createTestHandler(t, 2)

	maxPrice := 30000
	output, err := handler.Execute(context.Background(), &Input{
		Query: parsequery.ParsedQuery{
			Mode:     parsequery.ModeRecommend,
			MaxPrice: &maxPrice,
		},
	})

	require.NoError(t, err)
	require.Len(t, output.Results, 2)
	assert.Empty(t, output.Compared)
	for _, p := range output.Results {
		assert.LessOrEqual(t, p.Price, maxPrice)
	}
}

func TestHandler_Execute_RecommendWithoutFiltersReturnsRanked(t *testing.T) {
	handler := createTestHandler(t, 10)

	output, err := handler.Execute(context.Background(), &Input{
		Query: parsequery.ParsedQuery{Mode: parsequery.ModeRecommend},
	})

	require.NoError(t, err)
	assert.Len(t, output.Results, 4)
	// Best value plus strong specs should rank the 25k phone first.
	assert.Equal(t, "alpha-two", output.Results[0].ID)
}

func TestHandler_Execute_CompareResolvesInRequestOrder(t *testing.T) {
	handler := createTestHandler(t, 3)

	output, err := handler.Execute(context.Background(), &Input{
		Query: parsequery.ParsedQuery{
			Mode:          parsequery.ModeCompare,
			CompareModels: []string{"Beta Mini", "Alpha One"},
		},
	})

	require.NoError(t, err)
	require.Len(t, output.Compared, 2)
	assert.Equal(t, "beta-mini", output.Compared[0].ID)
	assert.Equal(t, "alpha-one", output.Compared[1].ID)
	assert.Empty(t, output.Results)
}

func TestHandler_Execute_ExplainTouchesNoCatalogData(t *testing.T) {
	handler := createTestHandler(t, 3)

	output, err := handler.Execute(context.Background(), &Input{
		Query: parsequery.ParsedQuery{Mode: parsequery.ModeExplain, Topic: "ois"},
	})

	require.NoError(t, err)
	assert.Empty(t, output.Results)
	assert.Empty(t, output.Compared)
}

func TestHandler_Execute_NoSurvivorsIsEmptyNotError(t *testing.T) {
	handler := createTestHandler(t, 3)

	minPrice := 99999
	output, err := handler.Execute(context.Background(), &Input{
		Query: parsequery.ParsedQuery{
			Mode:     parsequery.ModeRecommend,
			MinPrice: &minPrice,
		},
	})

	require.NoError(t, err)
	assert.Empty(t, output.Results)
}
