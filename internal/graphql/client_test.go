package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClient_PostsEnvelopeAndDecodesData(t *testing.T) {
	var got request
	var method, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"data": {"me": {"id": 7, "email": "a@b.c"}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zap.NewNop())

	var out struct {
		Me struct {
			ID    int    `json:"id"`
			Email string `json:"email"`
		} `json:"me"`
	}
	err := client.Do(context.Background(), "query { me { id email } }",
		map[string]interface{}{"first": 8}, &out)
	if err != nil {
		t.Fatal(err)
	}

	if method != http.MethodPost {
		t.Fatalf("method = %s", method)
	}
	if contentType != "application/json" {
		t.Fatalf("content type = %q", contentType)
	}
	if got.Query != "query { me { id email } }" {
		t.Fatalf("query = %q", got.Query)
	}
	if got.Variables["first"] != float64(8) {
		t.Fatalf("variables = %v", got.Variables)
	}
	if out.Me.ID != 7 || out.Me.Email != "a@b.c" {
		t.Fatalf("decoded %+v", out.Me)
	}
}

func TestClient_SendsTokenFromContext(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zap.NewNop())

	ctx := WithToken(context.Background(), "session-token")
	if err := client.Do(ctx, "query { ping }", nil, nil); err != nil {
		t.Fatal(err)
	}
	if auth != "session-token" {
		t.Fatalf("authorization = %q", auth)
	}
}

func TestClient_NoTokenMeansNoHeader(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zap.NewNop())
	if err := client.Do(context.Background(), "query { ping }", nil, nil); err != nil {
		t.Fatal(err)
	}
	if hasAuth {
		t.Fatal("unauthenticated request carried an Authorization header")
	}
}

func TestClient_TopLevelErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null, "errors": [{"message": "Signature has expired"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zap.NewNop())

	err := client.Do(context.Background(), "query { me { id } }", nil, nil)
	var gqlErr *Error
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if gqlErr.Message != "Signature has expired" {
		t.Fatalf("message = %q", gqlErr.Message)
	}
}

func TestClient_NonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, zap.NewNop())
	if err := client.Do(context.Background(), "query { ping }", nil, nil); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
