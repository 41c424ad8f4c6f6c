package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	apiPrefix      = "/v1"
	requestTimeout = 2 * time.Minute
)

// daemonError is the body of any non-2xx response of the daemon.
type daemonError struct {
	Status    int    `json:"-"`
	Message   string `json:"error"`
	RequestID string `json:"requestId"`
}

func (e *daemonError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("daemon responded with status %d", e.Status)
	}
	return e.Message
}

type restClient struct {
	baseURL string
	client  *http.Client
}

func getClient() (*restClient, error) {
	address, err := getRPCServer()
	if err != nil {
		return nil, err
	}
	return newRestClient(address), nil
}

func newRestClient(address string) *restClient {
	baseURL := strings.TrimSuffix(address, "/")
	if !strings.HasPrefix(baseURL, "http://") &&
		!strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return &restClient{
		baseURL: baseURL + apiPrefix,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// call sends body as JSON and decodes the JSON response into out, if not nil.
func (c *restClient) call(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	resp, err := c.do(method, path, "application/json", reader)
	if err != nil {
		return err
	}
	if out == nil || len(resp) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("malformed daemon response: %w", err)
	}
	return nil
}

// raw sends data as is and returns the undecoded response body.
func (c *restClient) raw(
	method, path, contentType string, data []byte,
) ([]byte, error) {
	var reader io.Reader
	if data != nil {
		reader = bytes.NewReader(data)
	}
	return c.do(method, path, contentType, reader)
}

func (c *restClient) upload(path, name string, data []byte, out interface{}) error {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	resp, err := c.do(http.MethodPost, path, w.FormDataContentType(), body)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp, out)
}

func (c *restClient) do(
	method, path, contentType string, body io.Reader,
) ([]byte, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		daemonErr := &daemonError{Status: resp.StatusCode}
		if err := json.Unmarshal(buf, daemonErr); err != nil || daemonErr.Message == "" {
			daemonErr.Message = strings.TrimSpace(string(buf))
		}
		return nil, daemonErr
	}
	return buf, nil
}
