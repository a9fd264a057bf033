package test

import (
	"net/http"
	"time"

	"github.com/2beens/gaintrack/internal/adaptive"
	"github.com/2beens/gaintrack/internal/logbook"
	"github.com/2beens/gaintrack/internal/progress"
)

func (s *IntegrationTestSuite) TestProgress_Report() {
	user, token := s.registerAndLogin("progress-report-user")

	now := time.Now()

	// gaining: 70.0 -> 72.6 over ~24 days
	for _, bs := range []struct {
		dayOffset int
		weightKg  float64
	}{
		{-25, 70.0},
		{-10, 71.2},
		{-1, 72.6},
	} {
		var added logbook.BodyStatsEntry
		s.postJSON("/logbook/body-stats", token, logbook.BodyStatsEntry{
			WeightKg:  bs.weightKg,
			CreatedAt: now.AddDate(0, 0, bs.dayOffset),
		}, http.StatusCreated, &added)
	}

	for _, dayOffset := range []int{-6, -4, -2} {
		var added logbook.WorkoutLogEntry
		s.postJSON("/logbook/workouts", token, logbook.WorkoutLogEntry{
			Plan:            "upper-lower",
			DurationMinutes: 60,
			Intensity:       logbook.IntensityModerate,
			CreatedAt:       now.AddDate(0, 0, dayOffset),
		}, http.StatusCreated, &added)
	}

	// three consecutive days on target
	for _, dayOffset := range []int{-2, -1, 0} {
		var added logbook.CalorieLogEntry
		s.postJSON("/logbook/calories", token, logbook.CalorieLogEntry{
			ConsumedCalories: user.CalcState.TargetCalories,
			TargetCalories:   user.CalcState.TargetCalories,
			CreatedAt:        now.AddDate(0, 0, dayOffset),
		}, http.StatusCreated, &added)
	}

	var report progress.Report
	s.getJSON("/progress/report", token, http.StatusOK, &report)

	s.Equal(user.ID, report.UserID)
	s.Equal(progress.DefaultPeriodDays, report.PeriodDays)
	s.Require().NotNil(report.Trend)
	s.Equal(adaptive.TrendGaining, report.Trend.Trend)
	s.True(report.Score > 0)
	s.True(report.Score <= 100)
	s.NotEmpty(report.Summary)
	s.Equal(3, report.Calories.DaysLogged)
	s.Equal(3, report.Calories.TargetMetDays)
	s.Equal(3, report.Calories.Streak)
	s.Empty(report.RecentAdaptations)

	// gained 2.6kg lifetime: the 2.5kg milestone, not the 5kg one
	gainValues := make(map[float64]bool)
	for _, m := range report.Milestones {
		if m.Type == progress.MilestoneWeightGain {
			gainValues[m.Value] = true
		}
	}
	s.True(gainValues[2.5])
	s.False(gainValues[5])

	// gaining on schedule and consistent: nothing to worry about
	for _, c := range report.Concerns {
		s.NotEqual(progress.SeverityHigh, c.Severity)
	}
}

func (s *IntegrationTestSuite) TestProgress_ReportPeriodParam() {
	_, token := s.registerAndLogin("progress-period-user")

	var report progress.Report
	s.getJSON("/progress/report?days=14", token, http.StatusOK, &report)
	s.Equal(14, report.PeriodDays)
	s.Require().NotNil(report.Trend)
	s.False(report.Trend.HasData)

	resp := s.doAuthedRequest(http.MethodGet, "/progress/report?days=whenever", token, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestProgress_Streak() {
	user, token := s.registerAndLogin("progress-streak-user")

	now := time.Now()
	for _, dayOffset := range []int{-3, -2, -1, 0} {
		consumed := user.CalcState.TargetCalories
		if dayOffset == -3 {
			// way under target, breaks the streak
			consumed = user.CalcState.TargetCalories * 0.5
		}
		var added logbook.CalorieLogEntry
		s.postJSON("/logbook/calories", token, logbook.CalorieLogEntry{
			ConsumedCalories: consumed,
			TargetCalories:   user.CalcState.TargetCalories,
			CreatedAt:        now.AddDate(0, 0, dayOffset),
		}, http.StatusCreated, &added)
	}

	var streakResp progress.StreakResponse
	s.getJSON("/progress/streak", token, http.StatusOK, &streakResp)
	s.Equal(3, streakResp.Streak)
}
