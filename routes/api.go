package routes

import (
	"log/slog"
	"time"

	"github.com/freekieb7/rawhttp/http"
)

type jsonMessage struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type timeReport struct {
	UTC      string `json:"utc"`
	Local    string `json:"local"`
	Timezone string `json:"timezone"`
}

// JSON answers with a small greeting document.
func JSON(now func() time.Time) http.HandlerFunc {
	return func(reqCtx *http.RequestCtx) http.Response {
		return jsonResponse(reqCtx, jsonMessage{
			Message:   "Hello from the server!",
			Timestamp: now().Format(time.DateTime),
			Version:   "1.0",
		})
	}
}

// Time reports the current time in UTC and in the server's local zone.
func Time(now func() time.Time) http.HandlerFunc {
	return func(reqCtx *http.RequestCtx) http.Response {
		local := now().Local()
		zone, _ := local.Zone()

		return jsonResponse(reqCtx, timeReport{
			UTC:      local.UTC().Format(time.RFC3339Nano),
			Local:    local.Format(time.RFC3339Nano),
			Timezone: zone,
		})
	}
}

// Hello greets the "name" query parameter, or "Guest".
func Hello(reqCtx *http.RequestCtx) http.Response {
	return http.Text(http.StatusOK, "Hello "+reqCtx.QueryValue("name", "Guest"))
}

func jsonResponse(reqCtx *http.RequestCtx, payload any) http.Response {
	res, err := http.JSON(http.StatusOK, payload)
	if err != nil {
		slog.ErrorContext(reqCtx.Context(), "encoding response failed", "path", reqCtx.Path, "error", err)
		return http.InternalServerError()
	}
	return res
}
