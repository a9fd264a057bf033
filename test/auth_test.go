package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/gaintrack/internal/calc"
	"github.com/2beens/gaintrack/internal/users"
)

const authTokenHeader = "X-GAINTRACK-TOKEN"

func testProfile() users.Profile {
	return users.Profile{
		Sex:               calc.SexMale,
		Age:               25,
		HeightCm:          180,
		WeightKg:          70,
		ActivityLevel:     calc.ActivityModerate,
		GoalIntensity:     calc.GoalModerate,
		ProteinPreference: calc.ProteinStandard,
	}
}

// registerUser creates a new user via the public register endpoint and
// returns it as stored (with the computed calculation state).
func (s *IntegrationTestSuite) registerUser(username, password string) *users.User {
	reqBody, err := json.Marshal(users.RegisterRequest{
		Username: username,
		Password: password,
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
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var user users.User
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&user))
	s.Require().True(user.ID > 0)

	return &user
}

// doLogin logs the user in and returns the session token.
func (s *IntegrationTestSuite) doLogin(username, password string) string {
	reqBody, err := json.Marshal(users.LoginRequest{
		Username: username,
		Password: password,
	})
	s.Require().NoError(err)

	resp, err := s.httpClient.Post(
		serverEndpoint+"/a/login",
		"application/json",
		bytes.NewReader(reqBody),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var loginResp users.LoginResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&loginResp))
	s.Require().NotEmpty(loginResp.Token)

	return loginResp.Token
}

// registerAndLogin is the common test entry point: a fresh user plus a
// valid session token for it.
func (s *IntegrationTestSuite) registerAndLogin(username string) (*users.User, string) {
	password := "integration-test-pass"
	user := s.registerUser(username, password)
	token := s.doLogin(username, password)
	return user, token
}

// doAuthedRequest sends a request with the session token set and returns
// the response. The caller closes the body.
func (s *IntegrationTestSuite) doAuthedRequest(method, path, token string, body any) *http.Response {
	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authTokenHeader, token)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	return resp
}

// getJSON performs an authed GET and decodes the JSON response into out,
// requiring the expected status code.
func (s *IntegrationTestSuite) getJSON(path, token string, expectedStatus int, out any) {
	resp := s.doAuthedRequest(http.MethodGet, path, token, nil)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().Equal(
		expectedStatus, resp.StatusCode,
		fmt.Sprintf("unexpected status for %s: %s", path, string(respBody)),
	)

	if out != nil {
		s.Require().NoError(json.Unmarshal(respBody, out))
	}
}

// postJSON performs an authed POST and decodes the JSON response into
// out, requiring the expected status code.
func (s *IntegrationTestSuite) postJSON(path, token string, body any, expectedStatus int, out any) {
	resp := s.doAuthedRequest(http.MethodPost, path, token, body)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().Equal(
		expectedStatus, resp.StatusCode,
		fmt.Sprintf("unexpected status for %s: %s", path, string(respBody)),
	)

	if out != nil {
		s.Require().NoError(json.Unmarshal(respBody, out))
	}
}
