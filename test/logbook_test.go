package test

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/2beens/gaintrack/internal/logbook"
)

func (s *IntegrationTestSuite) TestLogbook_BodyStats() {
	user, token := s.registerAndLogin("logbook-bs-user")

	bodyFat := 15.5
	entry := logbook.BodyStatsEntry{
		WeightKg:   70.4,
		BodyFatPct: &bodyFat,
		Measurements: map[string]float64{
			"waist": 82,
			"chest": 101.5,
		},
		Notes: "morning, fasted",
	}

	var added logbook.BodyStatsEntry
	s.postJSON("/logbook/body-stats", token, entry, http.StatusCreated, &added)
	s.True(added.ID > 0)
	s.Equal(user.ID, added.UserID)
	s.InDelta(70.4, added.WeightKg, 0.001)

	var list logbook.BodyStatsListResponse
	s.getJSON("/logbook/body-stats", token, http.StatusOK, &list)
	s.Require().Equal(1, list.Total)
	s.InDelta(70.4, list.Entries[0].WeightKg, 0.001)
	s.Require().NotNil(list.Entries[0].BodyFatPct)
	s.InDelta(15.5, *list.Entries[0].BodyFatPct, 0.001)
	s.InDelta(82, list.Entries[0].Measurements["waist"], 0.001)
}

func (s *IntegrationTestSuite) TestLogbook_BodyStatsInvalidWeight() {
	_, token := s.registerAndLogin("logbook-bs-invalid-user")

	resp := s.doAuthedRequest(
		http.MethodPost, "/logbook/body-stats", token,
		logbook.BodyStatsEntry{WeightKg: -3},
	)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestLogbook_Workouts() {
	user, token := s.registerAndLogin("logbook-wo-user")

	entry := logbook.WorkoutLogEntry{
		Plan:            "push-pull-legs",
		DurationMinutes: 75,
		Intensity:       logbook.IntensityHigh,
		Exercises: []logbook.Exercise{
			{
				Name: "bench press",
				Sets: []logbook.ExerciseSet{
					{Reps: 8, WeightKg: 80, Completed: true},
					{Reps: 6, WeightKg: 85, Completed: true},
					{Reps: 4, WeightKg: 90, Completed: false},
				},
			},
		},
	}

	var added logbook.WorkoutLogEntry
	s.postJSON("/logbook/workouts", token, entry, http.StatusCreated, &added)
	s.True(added.ID > 0)
	s.Equal(user.ID, added.UserID)

	var list logbook.WorkoutsListResponse
	s.getJSON("/logbook/workouts", token, http.StatusOK, &list)
	s.Require().Equal(1, list.Total)
	s.Equal("push-pull-legs", list.Entries[0].Plan)
	s.Equal(logbook.IntensityHigh, list.Entries[0].Intensity)
	s.Require().Len(list.Entries[0].Exercises, 1)
	// only completed sets count towards volume: 8*80 + 6*85
	s.InDelta(1150, list.Entries[0].TotalVolume(), 0.001)
}

func (s *IntegrationTestSuite) TestLogbook_WorkoutInvalidIntensity() {
	_, token := s.registerAndLogin("logbook-wo-invalid-user")

	resp := s.doAuthedRequest(
		http.MethodPost, "/logbook/workouts", token,
		logbook.WorkoutLogEntry{Plan: "full-body", DurationMinutes: 45, Intensity: "brutal"},
	)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestLogbook_Calories() {
	user, token := s.registerAndLogin("logbook-cal-user")

	entry := logbook.CalorieLogEntry{
		Meals: []logbook.Meal{
			{Name: "breakfast", Calories: 750, Protein: 40, Carbs: 80, Fat: 25},
			{Name: "dinner", Calories: 2250, Protein: 110, Carbs: 260, Fat: 60},
		},
		ConsumedCalories: 3000,
		ProteinGrams:     150,
		CarbsGrams:       340,
		FatGrams:         85,
	}

	var added logbook.CalorieLogEntry
	s.postJSON("/logbook/calories", token, entry, http.StatusCreated, &added)
	s.True(added.ID > 0)
	s.Equal(user.ID, added.UserID)
	// the server stamps the user's stored target on the entry
	s.InDelta(user.CalcState.TargetCalories, added.TargetCalories, 0.001)

	var list logbook.CalorieLogsListResponse
	s.getJSON("/logbook/calories", token, http.StatusOK, &list)
	s.Require().Equal(1, list.Total)
	s.InDelta(3000, list.Entries[0].ConsumedCalories, 0.001)
	s.Require().Len(list.Entries[0].Meals, 2)
	// 3000 vs target ~3042.75 is within the 5% band
	s.True(list.Entries[0].TargetMet())
}

func (s *IntegrationTestSuite) TestLogbook_CaloriesClientTargetIgnored() {
	user, token := s.registerAndLogin("logbook-cal-forged-user")

	// a client-supplied tiny target must not turn 100 kcal into a met day
	var added logbook.CalorieLogEntry
	s.postJSON("/logbook/calories", token, logbook.CalorieLogEntry{
		ConsumedCalories: 100,
		TargetCalories:   100,
	}, http.StatusCreated, &added)

	s.InDelta(user.CalcState.TargetCalories, added.TargetCalories, 0.001)
	s.False(added.TargetMet())
}

func (s *IntegrationTestSuite) TestLogbook_RangeFilter() {
	_, token := s.registerAndLogin("logbook-range-user")

	now := time.Now()
	for dayOffset, weight := range map[int]float64{-40: 69.2, -5: 70.1, -1: 70.3} {
		var added logbook.BodyStatsEntry
		s.postJSON("/logbook/body-stats", token, logbook.BodyStatsEntry{
			WeightKg:  weight,
			CreatedAt: now.AddDate(0, 0, dayOffset),
		}, http.StatusCreated, &added)
	}

	// default range is the last 30 days, the -40d entry stays out
	var list logbook.BodyStatsListResponse
	s.getJSON("/logbook/body-stats", token, http.StatusOK, &list)
	s.Equal(2, list.Total)

	// explicit range covering everything
	from := now.AddDate(0, 0, -60).UTC().Format(time.RFC3339)
	path := fmt.Sprintf("/logbook/body-stats?from=%s", url.QueryEscape(from))
	s.getJSON(path, token, http.StatusOK, &list)
	s.Equal(3, list.Total)

	// broken range params
	resp := s.doAuthedRequest(http.MethodGet, "/logbook/body-stats?from=yesterday", token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
