package handlers

import (
	"context"
	"sync"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/docqa"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/job"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           = logger_i.NewLogger("JobHandler")
	logRH           = logger_i.NewLogger("RequestHandler")
)

type JobHandler struct {
	service        *job.Service
	docqa          docqa.Service
	maxUploadBytes int64
}

func InitJobHandler(jobService *job.Service, docqaService docqa.Service, maxUploadBytes int64) {
	once.Do(func() {
		if maxUploadBytes <= 0 {
			maxUploadBytes = config.MaxUploadSizeBytes
		}
		handlerInstance = &JobHandler{service: jobService, docqa: docqaService, maxUploadBytes: maxUploadBytes}
		logJH.Info("Starting job handler", "maxUploadBytes", maxUploadBytes)
	})
}

func AskQuestion(ctx context.Context, doc commonModels.UploadedDocument, q docqa.Question) commonModels.ProcessingOutcome {
	logJH.WithTrace(ctx).Info("Processing document question", "file", doc.FileName)
	return handlerInstance.docqa.ProcessUpload(ctx, doc, q)
}

func GetJobStatus(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if handlerInstance != nil {
		return handlerInstance.service.GetJob(ctx, id)
	}
	return result, false
}
