package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type tokenKey struct{}

// WithToken returns a context carrying the session token. Every request
// built from that context sends the token as its Authorization header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the session token from the context, if any.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client posts GraphQL documents to a single endpoint. It performs no
// retries: a failed request surfaces immediately to the caller.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Error is a top-level GraphQL error, as opposed to the typed business
// errors embedded in union payloads.
type Error struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Do executes the document against the endpoint and decodes the response's
// data field into out. Query variables may be nil.
func (c *Client) Do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("GraphQL request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("GraphQL endpoint returned error",
			zap.String("endpoint", c.endpoint),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("graphql endpoint error: %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []*Error        `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.logger.Error("Failed to decode GraphQL response", zap.Error(err))
		return err
	}

	if len(envelope.Errors) > 0 {
		c.logger.Error("GraphQL query rejected",
			zap.String("endpoint", c.endpoint),
			zap.String("message", envelope.Errors[0].Message))
		return envelope.Errors[0]
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			c.logger.Error("Failed to decode GraphQL data", zap.Error(err))
			return err
		}
	}

	return nil
}
