// @title           Property Document Q&A API
// @version         1.0
// @description     Answers questions about uploaded property documents, live when possible and in the background otherwise.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/data/blob"
	"github.com/akolanti/propdocs/internal/data/store"
	"github.com/akolanti/propdocs/internal/docqa"
	"github.com/akolanti/propdocs/internal/extraction"
	"github.com/akolanti/propdocs/internal/extraction/ocr"
	"github.com/akolanti/propdocs/internal/handlers"
	"github.com/akolanti/propdocs/internal/job"
	"github.com/akolanti/propdocs/internal/llm/providers"
	"github.com/akolanti/propdocs/internal/middleware"
	"github.com/akolanti/propdocs/internal/server"
	"github.com/akolanti/propdocs/internal/worker"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

var (
	configPath        string
	listenAddr        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&configPath, "config", "", "optional YAML settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides settings")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		logger.Error("Could not load settings", "error", err)
		os.Exit(1)
	}
	if level := logger_i.ParseLevel(settings.LogLevel); level != nil {
		logger_i.InitWith(logger_i.Options{Level: level})
	}
	if listenAddr == "" {
		listenAddr = settings.ListenAddr
	}
	middleware.Init(settings)

	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	jobStore, ok := store.NewJobStore(serviceContext, settings.Redis)
	if !ok {
		logger.Error("Job store is offline and fallback is disabled")
		return
	}
	queue, ok := store.NewQueue(serviceContext, settings.Redis)
	if !ok {
		logger.Error("Job queue is offline and fallback is disabled")
		return
	}
	blobs, err := blob.New(serviceContext, settings.Blob)
	if err != nil {
		logger.Error("Blob store failed to initialize", "error", err)
		return
	}

	logger.Info("Starting job service")
	jobService := job.InitJobService(job.ServiceConfig{
		JobStore:          jobStore,
		Queue:             queue,
		Blobs:             blobs,
		DispatcherChannel: dispatcherChannel,
		Timeout:           settings.SubmissionTimeout,
	})

	models, err := providers.New(serviceContext, settings.LLM)
	if err != nil {
		logger.Error("Language model failed to initialize. Shutting down.", "provider", settings.LLM.Provider, "error", err)
		return
	}
	logger.Debug("Available services : ", "Provider", settings.LLM.Provider, "Vision", models.Vision != nil)

	ocrService := ocr.NewService(ocr.Config{
		Tesseract: settings.OCR.Tesseract,
		Pdftoppm:  settings.OCR.Pdftoppm,
		Lang:      settings.OCR.Lang,
		DPI:       settings.OCR.DPI,
		MaxPages:  settings.OCR.MaxPages,
	})

	docqaService := docqa.NewService(docqa.Dependencies{
		Extraction: extraction.Services{
			PDF:    extraction.PDFText{},
			Doc:    extraction.DocText{},
			Vision: models.Vision,
			OCR:    ocrService,
		},
		Provider:         models.Provider,
		Submitter:        jobService,
		Blobs:            blobs,
		MaxUploadBytes:   settings.MaxUploadBytes,
		QuickPathTimeout: settings.QuickPathTimeout,
		AnalysisTimeout:  settings.AnalysisTimeout,
	})

	handlers.InitJobHandler(jobService, docqaService, settings.MaxUploadBytes)

	//init worker pool
	worker.InitServices(jobService, docqaService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	if c, ok := blobs.(io.Closer); ok {
		shutdownParams.Closers = append(shutdownParams.Closers, c)
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
