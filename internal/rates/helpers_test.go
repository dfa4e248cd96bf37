package rates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

var fixedNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func cloneSheet(t *testing.T, s *models.RateSheet) *models.RateSheet {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	var out models.RateSheet
	require.NoError(t, json.Unmarshal(b, &out))
	return &out
}
