package cmd

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServeBytes(t *testing.T) {
	handler := serveBytes("text/html; charset=utf-8", []byte("<html>ok</html>"))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, "<html>ok</html>", rec.Body.String())
}

func TestServeURL(t *testing.T) {
	loopback, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer loopback.Close()

	require.Equal(t, "http://"+loopback.Addr().String(), serveURL(loopback))

	any, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer any.Close()

	_, port, err := net.SplitHostPort(any.Addr().String())
	require.NoError(t, err)
	require.Equal(t, "http://localhost:"+port, serveURL(any))
}
