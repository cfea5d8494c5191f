/*
Copyright 2022 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package oracletest is a fake oracle HTTP endpoint used by
// pkg/ecg/oracle's adapter tests. It is not part of the digitizer core;
// it stands in for the real LVM service (§1 "out of scope: the remote
// LVM service").
package oracletest

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mechiko/ecgdigitizer/internal/zap4echo"
)

// Handler decides how the fake server responds to one analyze request.
// Tests plug in canned JSON, malformed JSON, HTTP error codes, or
// artificial delays.
type Handler func(body []byte) (status int, body2 string)

// Server wraps an *httptest.Server running echo with the same
// zap4echo logging/recovery middleware pdfcpu wires into its own
// internal/spaserver (§2 ambient stack).
type Server struct {
	echo *echo.Echo
	http *httptest.Server
}

// New starts a listening fake oracle server and returns it; call
// Close when done. h decides the response for every POST /analyze.
func New(h Handler) *Server {
	e := echo.New()
	e.Logger.SetOutput(io.Discard)

	zl, _ := zap.NewDevelopment()
	e.Use(zap4echo.Logger(zl), zap4echo.Recover(zl))

	e.POST("/analyze", func(c echo.Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		status, respBody := h(body)
		return c.String(status, respBody)
	})

	listener, _ := net.Listen("tcp", "127.0.0.1:0")
	ts := httptest.NewUnstartedServer(e)
	ts.Listener.Close()
	ts.Listener = listener
	ts.Start()

	return &Server{echo: e, http: ts}
}

// URL is the /analyze endpoint to configure an HTTPProvider against.
func (s *Server) URL() string {
	return s.http.URL + "/analyze"
}

// Close shuts the server down.
func (s *Server) Close() {
	s.http.Close()
}

// Delayed wraps h so every response is delayed by d, useful for
// exercising the adapter's deadline handling (§4.6 "Timeout /
// cancellation").
func Delayed(d time.Duration, h Handler) Handler {
	return func(body []byte) (int, string) {
		time.Sleep(d)
		return h(body)
	}
}
