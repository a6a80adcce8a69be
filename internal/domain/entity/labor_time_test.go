package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/atelier-api/internal/domain/entity"
)

func TestParseLaborTime(t *testing.T) {
	lt, err := entity.ParseLaborTime("4:30")
	require.NoError(t, err)
	assert.Equal(t, 4, lt.Hours)
	assert.Equal(t, 30, lt.Minutes)
	assert.Equal(t, 270, lt.TotalMinutes())
	assert.Equal(t, "04:30", lt.String())
}

func TestParseLaborTime_Invalido(t *testing.T) {
	for _, in := range []string{"", "4", "4:60", "-1:00", "a:10", "1:2:3"} {
		_, err := entity.ParseLaborTime(in)
		assert.Error(t, err, "entrada %q debe fallar", in)
	}
}

func TestLaborTime_JSON(t *testing.T) {
	var body struct {
		LaborTime entity.LaborTime `json:"labor_time"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"labor_time":"02:15"}`), &body))
	assert.Equal(t, entity.LaborTime{Hours: 2, Minutes: 15}, body.LaborTime)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"labor_time":"02:15"}`, string(out))
}

func TestNewLaborTimeFromMinutes(t *testing.T) {
	assert.Equal(t, entity.LaborTime{Hours: 1, Minutes: 5}, entity.NewLaborTimeFromMinutes(65))
}
