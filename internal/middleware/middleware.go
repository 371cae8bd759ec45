package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/handlers"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

type authSettings struct {
	AuthToken string
	NoAuth    bool
}

var (
	current  authSettings
	initOnce sync.Once
)

// Init takes the auth settings once, before the server starts.
func Init(settings config.Settings) {
	initOnce.Do(func() {
		current = authSettings{AuthToken: settings.AuthToken, NoAuth: settings.NoAuth}
		if current.NoAuth {
			logger_i.NewLogger("middleware").Warn("Authentication is disabled")
		}
	})
}

var AskHandler = Wrap(handlers.AskHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")

	steps := []func(requestResponseStruct) requestResponseStruct{
		injectTrace,
		rateLimiter,
		authenticate,
		attachCaller,
	}
	for _, step := range steps {
		re = step(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	return re
}

// handleBadRequest writes the failure response and reports whether the
// request may continue.
func handleBadRequest(re requestResponseStruct) bool {
	if re.badRequest.isBadRequest {
		re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", re.req.RemoteAddr)
		handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, "", re.badRequest.errorMessage)
		return false
	}
	return true
}
