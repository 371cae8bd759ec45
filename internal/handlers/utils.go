package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akolanti/propdocs/internal/adapter"
	"github.com/akolanti/propdocs/internal/adapter/utils"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "err", err)
	}
}

func validateId(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if !utils.IsUUID(id) {
		logRH.WithTrace(ctx).Warn("Malformed Job ID", "jobId", id)
		return jobModel.Job{}, false
	}
	return GetJobStatus(ctx, id)
}

func validateContext(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		logRH.WithTrace(ctx).Warn("context cancelled", "err", ctx.Err())
		return false
	default:
		return true
	}
}

func askStatus(outcome commonModels.ProcessingOutcome) int {
	switch outcome.PathTaken {
	case commonModels.PathQuick:
		return http.StatusOK
	case commonModels.PathBackground:
		return http.StatusAccepted
	default:
		return http.StatusUnprocessableEntity
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}
