package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront-client/gateway"
	"github.com/jrsteele09/go-storefront-client/session"
	"github.com/jrsteele09/go-storefront-client/tokenstore/storefakes"
)

func newLoginController(t *testing.T, handler http.Handler) (*session.Controller, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	gw, err := gateway.New(server.URL, storefakes.NewFakeStore())
	require.NoError(t, err)
	controller, err := session.New(gw)
	require.NoError(t, err)
	return controller, &calls
}

func TestLoginCommand(t *testing.T) {
	t.Run("callback without provider tokens fails before any backend call", func(t *testing.T) {
		controller, calls := newLoginController(t, http.NotFoundHandler())

		err := login(context.Background(), controller, "https://host/cb?state=only")
		require.Error(t, err)
		require.Contains(t, err.Error(), "provider tokens")
		require.Equal(t, int32(0), calls.Load())
	})

	t.Run("valid callback reaches the exchange", func(t *testing.T) {
		controller, calls := newLoginController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, gateway.RouteAuthCallback, r.URL.Path)
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": map[string]any{
					"token": "T1",
					"user":  map[string]any{"id": "u1", "username": "Foo", "gameName": "Foo", "tagLine": "NA1"},
				},
			}))
		}))

		err := login(context.Background(), controller, "https://host/cb#access_token=AAA&id_token=BBB&token_type=Bearer")
		require.NoError(t, err)
		require.NotNil(t, controller.CurrentUser())
		require.Equal(t, int32(1), calls.Load())
	})
}
