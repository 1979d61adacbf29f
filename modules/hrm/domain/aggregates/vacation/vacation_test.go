package vacation_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/vacation"
	"github.com/cams7/cadferias/pkg/hateoas"
	"github.com/cams7/cadferias/pkg/shared"
)

func TestVacation_DecodeBackendPayload(t *testing.T) {
	raw := `{
		"entityId": 3,
		"employee": {"entityId": 1, "name": "Maria"},
		"startDate": "01/07/2024",
		"endDate": "15/07/2024",
		"_links": [{"rel": "delete", "href": "http://api/vacations/3", "title": "Remove vacation"}]
	}`
	var v vacation.Vacation
	require.NoError(t, json.Unmarshal([]byte(raw), &v))

	assert.Equal(t, int64(3), vacation.ID(v))
	assert.Equal(t, "Maria", v.EmployeeName())
	assert.Equal(t, shared.NewDate(2024, time.July, 1), v.StartDate)
	assert.Equal(t, 15, v.Days())
	assert.True(t, v.Links.Has(hateoas.RelDelete))
}

func TestFilterBySearch(t *testing.T) {
	f := vacation.FilterBySearch("Ana")
	assert.Equal(t, "Ana", vacation.SearchByFilter(f))

	out, err := json.Marshal(vacation.FilterBySearch(""))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}
