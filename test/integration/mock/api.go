package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ApiMock stands in for the remote finance service. Responses are keyed by
// method+path and by call index; index -1 sets the default for every call.
type ApiMock struct {
	mu                    sync.Mutex
	server                *httptest.Server
	headersReceived       map[string]map[int]map[string]string
	queriesReceived       map[string]map[int]map[string]string
	requestsReceived      map[string]map[int]map[string]any
	responseMap           map[string]map[int]any
	defaultResponseMap    map[string]any
	responseStatus        map[string]map[int]int
	defaultResponseStatus map[string]int
}

func NewApiServer() *ApiMock {
	a := &ApiMock{}
	a.reset()
	return a
}

func (a *ApiMock) reset() {
	a.headersReceived = map[string]map[int]map[string]string{}
	a.queriesReceived = map[string]map[int]map[string]string{}
	a.requestsReceived = map[string]map[int]map[string]any{}
	a.responseMap = map[string]map[int]any{}
	a.defaultResponseMap = map[string]any{}
	a.responseStatus = map[string]map[int]int{}
	a.defaultResponseStatus = map[string]int{}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	a.mu.Lock()
	index := len(a.requestsReceived[key])
	if a.requestsReceived[key] == nil {
		a.requestsReceived[key] = map[int]map[string]any{}
		a.headersReceived[key] = map[int]map[string]string{}
		a.queriesReceived[key] = map[int]map[string]string{}
	}
	a.requestsReceived[key][index] = request

	a.headersReceived[key][index] = map[string]string{}
	for name, value := range r.Header {
		a.headersReceived[key][index][name] = value[0]
	}
	a.queriesReceived[key][index] = map[string]string{}
	for name, value := range r.URL.Query() {
		a.queriesReceived[key][index][name] = value[0]
	}

	status := a.responseStatusLocked(r.Method, r.URL.Path, index)
	response := a.responseBodyLocked(r.Method, r.URL.Path, index)
	a.mu.Unlock()

	payload, _ := json.Marshal(response)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func (a *ApiMock) SetResponse(index int, method, path string, status int, response any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaultResponseStatus[key] = status
		a.defaultResponseMap[key] = response
		return
	}
	if a.responseMap[key] == nil {
		a.responseMap[key] = map[int]any{}
		a.responseStatus[key] = map[int]int{}
	}
	a.responseMap[key][index] = response
	a.responseStatus[key][index] = status
}

// CallCount returns how many requests hit method+path.
func (a *ApiMock) CallCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requestsReceived[method+path])
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requestsReceived[method+path][index]
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.headersReceived[method+path][index]
}

func (a *ApiMock) GetRequestQueries(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queriesReceived[method+path][index]
}

// ClearAll forgets every configured response and received request.
func (a *ApiMock) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *ApiMock) ClearResponses(method, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := method + path
	for key := range a.responseMap {
		if strings.HasPrefix(key, prefix) {
			delete(a.responseMap, key)
			delete(a.responseStatus, key)
		}
	}
	for key := range a.defaultResponseMap {
		if strings.HasPrefix(key, prefix) {
			delete(a.defaultResponseMap, key)
			delete(a.defaultResponseStatus, key)
		}
	}
}

func (a *ApiMock) responseBodyLocked(method, path string, index int) any {
	if key := a.findMatchingKey(keysOf(a.responseMap), method, path); key != "" {
		if response, exists := a.responseMap[key][index]; exists && response != nil {
			return response
		}
	}
	if key := a.findMatchingKey(keysOf(a.defaultResponseMap), method, path); key != "" {
		if response := a.defaultResponseMap[key]; response != nil {
			return response
		}
	}
	return map[string]any{}
}

func (a *ApiMock) responseStatusLocked(method, path string, index int) int {
	if key := a.findMatchingKey(keysOf(a.responseStatus), method, path); key != "" {
		if status := a.responseStatus[key][index]; status != 0 {
			return status
		}
	}
	if key := a.findMatchingKey(keysOf(a.defaultResponseStatus), method, path); key != "" {
		if status := a.defaultResponseStatus[key]; status != 0 {
			return status
		}
	}

	// Return 200 as a safe default to prevent panic from WriteHeader(0)
	return http.StatusOK
}

func (a *ApiMock) matchPath(pattern string, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")

	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}

	return true
}

func (a *ApiMock) findMatchingKey(keys []string, method string, path string) string {
	exactKey := method + path
	for _, key := range keys {
		if key == exactKey {
			return key
		}
	}

	for _, key := range keys {
		if strings.HasPrefix(key, method+"/") && a.matchPath(strings.TrimPrefix(key, method), path) {
			return key
		}
	}

	return ""
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
