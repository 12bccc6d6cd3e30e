package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
)

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" (\d+) times$`, iSendARequestToTimes)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I am authenticated as "([^"]*)"$`, iAmAuthenticatedAs)
	ctx.Step(`^I am authenticated with the opaque credential "([^"]*)"$`, iAmAuthenticatedWithOpaqueCredential)
	ctx.Step(`^I am not authenticated$`, iAmNotAuthenticated)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should start with "([^"]*)"$`, theResponseFieldShouldStartWith)
	ctx.Step(`^the response header "([^"]*)" should exist$`, theResponseHeaderShouldExist)
}

// Step implementations

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	return tc.ensureServer()
}

func (tc *TestContext) send(method, endpoint string, body io.Reader) error {
	if err := tc.ensureServer(); err != nil {
		return err
	}

	req, err := http.NewRequest(method, tc.server.URL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Add headers
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}

	// Add credential if present
	if tc.credential != "" {
		req.Header.Set("Authorization", "Bearer "+tc.credential)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	return ctx, tc.send(method, endpoint, nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	return ctx, tc.send(method, endpoint, bytes.NewBufferString(body.Content))
}

func iSendARequestToTimes(ctx context.Context, method, endpoint string, times int) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	for i := 0; i < times; i++ {
		if err := tc.send(method, endpoint, nil); err != nil {
			return ctx, err
		}
	}
	return ctx, nil
}

func iSetHeaderTo(ctx context.Context, header, value string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.requestHeaders[header] = value
	return ctx, nil
}

// iAmAuthenticatedAs signs a token whose subject is the given identity.
// The signature is never verified locally, only the remote service checks it.
func iAmAuthenticatedAs(ctx context.Context, subject string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@example.com",
	})
	signed, err := token.SignedString([]byte("integration-secret"))
	if err != nil {
		return ctx, fmt.Errorf("failed to sign token: %w", err)
	}
	tc.credential = signed
	return ctx, nil
}

func iAmAuthenticatedWithOpaqueCredential(ctx context.Context, credential string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.credential = credential
	return ctx, nil
}

func iAmNotAuthenticated(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.credential = ""
	return ctx, nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := tc.responseField(field)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	if actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'. Body: %s", field, expected, actual, string(tc.responseBody))
	}

	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	_, err := tc.responseField(field)
	return err
}

func theResponseFieldShouldStartWith(ctx context.Context, field, prefix string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := tc.responseField(field)
	if err != nil {
		return err
	}

	if actual := fmt.Sprintf("%v", value); !strings.HasPrefix(actual, prefix) {
		return fmt.Errorf("field '%s' expected to start with '%s', got '%s'", field, prefix, actual)
	}
	return nil
}

func theResponseHeaderShouldExist(ctx context.Context, header string) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.Header.Get(header) == "" {
		return fmt.Errorf("header '%s' not found in response", header)
	}
	return nil
}

// responseField resolves a dotted path such as "transactions.0.id" in the JSON body.
func (tc *TestContext) responseField(path string) (any, error) {
	var data any
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response. Body: %s", path, string(tc.responseBody))
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index '%s' of '%s' out of range. Body: %s", part, path, string(tc.responseBody))
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s' not found in response. Body: %s", path, string(tc.responseBody))
		}
	}
	return current, nil
}
