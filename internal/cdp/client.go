package cdp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// Client speaks to one page target. A single goroutine owns the socket's read
// side and hands replies to callers by id, so a caller giving up on a reply
// never tears the connection down for the next call.
type Client struct {
	conn       *websocket.Conn
	cancelRead context.CancelFunc
	done       chan struct{}

	mu        sync.Mutex
	idCounter int64
	pending   map[int64]chan envelope
	readErr   error
}

type targetResponse struct {
	Type                 string `json:"type"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
}

type envelope struct {
	ID     int64           `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *responseError  `json:"error,omitempty"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	DefaultBaseURL         = "http://127.0.0.1:9222"
	defaultSelectorTimeout = 12 * time.Second
	defaultCallTimeout     = 20 * time.Second
	writeTimeout           = 10 * time.Second
	pollInterval           = 150 * time.Millisecond
)

func Dial(ctx context.Context, baseURL string) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	trimmed = strings.TrimSuffix(trimmed, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trimmed+"/json/list", nil)
	if err != nil {
		return nil, fmt.Errorf("build target request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query cdp target endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cdp target endpoint returned status %d", resp.StatusCode)
	}

	var targets []targetResponse
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		return nil, fmt.Errorf("decode cdp target response: %w", err)
	}

	var pageSocketURL string
	for _, target := range targets {
		if target.Type == "page" && strings.TrimSpace(target.WebSocketDebuggerURL) != "" {
			pageSocketURL = target.WebSocketDebuggerURL
			break
		}
	}
	if pageSocketURL == "" {
		return nil, errors.New("no page target websocket found")
	}

	conn, _, err := websocket.Dial(ctx, pageSocketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial cdp websocket: %w", err)
	}
	// Full-page HTML and screenshots of result pages run to several MB.
	conn.SetReadLimit(64 << 20)

	readCtx, cancelRead := context.WithCancel(context.Background())
	client := &Client{
		conn:       conn,
		cancelRead: cancelRead,
		done:       make(chan struct{}),
		pending:    make(map[int64]chan envelope),
	}
	go client.readLoop(readCtx)
	return client, nil
}

func (c *Client) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "closing")
	c.cancelRead()
	<-c.done
	return err
}

func (c *Client) readLoop(ctx context.Context) {
	defer close(c.done)
	for {
		_, message, err := c.conn.Read(ctx)
		if err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}

		var env envelope
		if err := json.Unmarshal(message, &env); err != nil || env.ID == 0 {
			// Events carry no id.
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[env.ID]
		delete(c.pending, env.ID)
		c.mu.Unlock()
		if ok {
			reply <- env
		}
	}
}

func (c *Client) Navigate(ctx context.Context, targetURL string) error {
	if err := c.Call(ctx, "Page.enable", nil, nil); err != nil {
		return err
	}
	var response struct {
		ErrorText string `json:"errorText"`
	}
	if err := c.Call(ctx, "Page.navigate", map[string]any{"url": targetURL}, &response); err != nil {
		return err
	}
	if response.ErrorText != "" {
		return fmt.Errorf("navigate %s: %s", targetURL, response.ErrorText)
	}
	return nil
}

// CaptureScreenshot returns the current viewport as PNG bytes.
func (c *Client) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	if err := c.Call(ctx, "Page.enable", nil, nil); err != nil {
		return nil, err
	}
	var response struct {
		Data string `json:"data"`
	}
	if err := c.Call(ctx, "Page.captureScreenshot", map[string]any{"format": "png"}, &response); err != nil {
		return nil, err
	}
	if strings.TrimSpace(response.Data) == "" {
		return nil, errors.New("empty screenshot data")
	}
	decoded, err := base64.StdEncoding.DecodeString(response.Data)
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	return decoded, nil
}

// Evaluate runs expression in the page and decodes its by-value result into
// out. A nil out discards the result.
func (c *Client) Evaluate(ctx context.Context, expression string, out any) error {
	if err := c.Call(ctx, "Runtime.enable", nil, nil); err != nil {
		return err
	}
	var response struct {
		Result struct {
			Type  string          `json:"type"`
			Value json.RawMessage `json:"value"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text      string `json:"text"`
			Exception *struct {
				Description string `json:"description"`
			} `json:"exception"`
		} `json:"exceptionDetails"`
	}
	if err := c.Call(ctx, "Runtime.evaluate", map[string]any{
		"expression":    expression,
		"returnByValue": true,
	}, &response); err != nil {
		return err
	}
	if details := response.ExceptionDetails; details != nil {
		message := details.Text
		if details.Exception != nil && details.Exception.Description != "" {
			message = details.Exception.Description
		}
		return fmt.Errorf("evaluate: %s", message)
	}
	if out == nil || len(response.Result.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(response.Result.Value, out); err != nil {
		return fmt.Errorf("decode evaluate result: %w", err)
	}
	return nil
}

func (c *Client) EvaluateString(ctx context.Context, expression string) (string, error) {
	var value any
	if err := c.Evaluate(ctx, expression, &value); err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return fmt.Sprint(value), nil
}

func (c *Client) OuterHTML(ctx context.Context) (string, error) {
	return c.EvaluateString(ctx, `document.documentElement ? document.documentElement.outerHTML : ""`)
}

// WaitForSelector polls until an element matching selector is attached to the
// document.
func (c *Client) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return errors.New("selector is required")
	}
	if timeout <= 0 {
		timeout = defaultSelectorTimeout
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	expression := fmt.Sprintf(`(() => {
	try {
		return document.querySelector(%q) !== null;
	} catch (_error) {
		return false;
	}
	})()`, selector)
	for {
		var found bool
		if err := c.Evaluate(waitCtx, expression, &found); err != nil {
			if waitCtx.Err() != nil {
				return fmt.Errorf("timeout waiting for selector %q", selector)
			}
			return err
		}
		if found {
			return nil
		}

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("timeout waiting for selector %q", selector)
		case <-time.After(pollInterval):
		}
	}
}

func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cdp %s: %w", method, err)
	}

	reply := make(chan envelope, 1)
	c.mu.Lock()
	c.idCounter++
	requestID := c.idCounter
	c.pending[requestID] = reply
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, requestID)
		c.mu.Unlock()
	}()

	payload := map[string]any{
		"id":     requestID,
		"method": method,
	}
	if params != nil {
		payload["params"] = params
	}

	// An expired write context closes the socket, so writes get their own
	// short deadline instead of the caller's.
	writeCtx, cancelWrite := context.WithTimeout(context.Background(), writeTimeout)
	defer cancelWrite()
	if err := c.conn.Write(writeCtx, websocket.MessageText, mustMarshal(payload)); err != nil {
		return fmt.Errorf("write cdp request: %w", err)
	}

	callCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, defaultCallTimeout)
		defer cancel()
	}

	select {
	case env := <-reply:
		if env.Error != nil {
			return fmt.Errorf("cdp %s failed (%d): %s", method, env.Error.Code, env.Error.Message)
		}
		if out != nil && len(env.Result) > 0 {
			if err := json.Unmarshal(env.Result, out); err != nil {
				return fmt.Errorf("decode %s response: %w", method, err)
			}
		}
		return nil
	case <-c.done:
		c.mu.Lock()
		err := c.readErr
		c.mu.Unlock()
		return fmt.Errorf("read cdp response: %w", err)
	case <-callCtx.Done():
		return fmt.Errorf("cdp %s: %w", method, callCtx.Err())
	}
}

func mustMarshal(value any) []byte {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return raw
}
