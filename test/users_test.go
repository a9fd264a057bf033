package test

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/2beens/gaintrack/internal/users"
)

func (s *IntegrationTestSuite) TestRegisterAndLogin() {
	user, token := s.registerAndLogin("reg-login-user")

	// mifflin-st jeor for the test profile:
	// bmr 1705, tdee 1705 * 1.55, target tdee + 400 (moderate goal)
	s.InDelta(1705, user.CalcState.BMR, 0.01)
	s.InDelta(2642.75, user.CalcState.TDEE, 0.01)
	s.InDelta(3042.75, user.CalcState.TargetCalories, 0.01)

	var me users.User
	s.getJSON("/me", token, http.StatusOK, &me)
	s.Equal(user.ID, me.ID)
	s.Equal("reg-login-user", me.Username)

	var targets users.CalculationState
	s.getJSON("/me/targets", token, http.StatusOK, &targets)
	s.InDelta(user.CalcState.TargetCalories, targets.TargetCalories, 0.01)
	s.Equal(user.CalcState.ProteinGrams, targets.ProteinGrams)
}

func (s *IntegrationTestSuite) TestLogin_InvalidCredentials() {
	s.registerUser("bad-creds-user", "integration-test-pass")

	reqBody, err := json.Marshal(users.LoginRequest{
		Username: "bad-creds-user",
		Password: "wrong-password",
	})
	s.Require().NoError(err)

	resp, err := s.httpClient.Post(
		serverEndpoint+"/a/login",
		"application/json",
		bytes.NewReader(reqBody),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestRegister_UsernameTaken() {
	s.registerUser("taken-user", "integration-test-pass")

	reqBody, err := json.Marshal(users.RegisterRequest{
		Username: "taken-user",
		Password: "integration-test-pass",
		Profile:  testProfile(),
	})
	s.Require().NoError(err)

	resp, err := s.httpClient.Post(
		serverEndpoint+"/a/register",
		"application/json",
		bytes.NewReader(reqBody),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestUpdateProfile_RecalculatesTargets() {
	_, token := s.registerAndLogin("profile-update-user")

	// heavier and more active, targets have to go up
	newProfile := testProfile()
	newProfile.WeightKg = 80
	newProfile.ActivityLevel = "active"

	resp := s.doAuthedRequest(http.MethodPut, "/me/profile", token, newProfile)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var newState users.CalculationState
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&newState))

	// bmr 10*80 + 6.25*180 - 5*25 + 5 = 1805, tdee 1805 * 1.725
	s.InDelta(1805, newState.BMR, 0.01)
	s.InDelta(3113.625, newState.TDEE, 0.01)
	s.InDelta(3513.625, newState.TargetCalories, 0.01)

	var targets users.CalculationState
	s.getJSON("/me/targets", token, http.StatusOK, &targets)
	s.InDelta(newState.TargetCalories, targets.TargetCalories, 0.01)
}

func (s *IntegrationTestSuite) TestAuth_ProtectedRouteWithoutToken() {
	resp, err := s.httpClient.Get(serverEndpoint + "/me")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestLogout_EndsSession() {
	_, token := s.registerAndLogin("logout-user")

	resp := s.doAuthedRequest(http.MethodPost, "/a/logout", token, nil)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	// the token is dead now
	afterLogout := s.doAuthedRequest(http.MethodGet, "/me", token, nil)
	defer afterLogout.Body.Close()
	s.Equal(http.StatusUnauthorized, afterLogout.StatusCode)
}
