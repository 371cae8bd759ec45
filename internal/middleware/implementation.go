package middleware

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/akolanti/propdocs/internal/adapter/utils"
	"github.com/akolanti/propdocs/internal/auth"
	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

const (
	traceHeader  = "X-Trace-Id"
	callerHeader = "X-User-Id"
	anonymousID  = "anonymous"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Injecting trace middleware")
	req := re.req
	if req == nil {
		//this is a bad request
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get(traceHeader)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(traceHeader, trace)
	re.writer.Header().Set(traceHeader, trace)
	re.req = req.WithContext(ctx)

	re.logger.Debug("trace middleware injected")
	return re
}

func authenticate(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Authenticating request")

	if !IsValidBearerToken(re.req.Header.Get("Authorization"), re.logger) {
		re.badRequest.isBadRequest = true
		re.badRequest.errorMessage = "invalid or missing bearer token"
		re.badRequest.httpCode = http.StatusUnauthorized
		return re
	}
	re.logger.Debug("Authorized")
	return re
}

func IsValidBearerToken(authHeader string, log *logger_i.Logger) bool {
	if current.NoAuth {
		log.Warn("auth bypass enabled")
		return true
	}
	if current.AuthToken == "" {
		log.Error("No auth token configured, rejecting request")
		return false
	}
	if authHeader == "" {
		log.Error("Empty authorization header")
		return false
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		log.Error("No Bearer header")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(authHeader, "Bearer ")), []byte(current.AuthToken)) != 1 {
		log.Error("Invalid authorization header")
		return false
	}

	return true
}

// attachCaller forwards the identity set by the gateway in front of us. In
// no-auth mode a missing header becomes the anonymous caller.
func attachCaller(re requestResponseStruct) requestResponseStruct {
	userID := strings.TrimSpace(re.req.Header.Get(callerHeader))
	if userID == "" && current.NoAuth {
		userID = anonymousID
	}
	if userID == "" {
		re.logger.Debug("No caller identity on request")
		return re
	}
	re.logger = re.logger.With("userId", userID)
	re.req = re.req.WithContext(auth.WithCaller(re.req.Context(), auth.Caller{UserID: userID}))
	return re
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	re.logger.Debug("Rate limiter middleware")
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !limiterInstance.Allow(ip) {
		re.logger.Error("Too many requests", "Rate Limiter exceeded", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded, try again shortly",
		}
		return re
	}
	re.logger.Debug("Rate limiter middleware authorized")
	return re
}
