package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store/queue
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	RateLimiterIdleTTL              = 10 * time.Minute

	//document intake
	MaxUploadSizeBytes int64 = 10 << 20 //10 MiB
	MaxMultipartMemory int64 = 32 << 20

	//escalation thresholds
	QuickPathAlwaysBytes   int64 = 2 << 20 //anything up to this goes quick regardless of question
	QuickPathTargetedBytes int64 = 5 << 20 //between 2 and 5 MiB only targeted questions go quick

	//quick path deadlines - the analysis deadline is always derived from the extraction one
	QuickPathTimeout      = 90 * time.Second
	AnalysisTimeout       = 30 * time.Second
	SubmissionTimeout     = 30 * time.Second
	BackgroundJobTimeout  = 10 * time.Minute
	AnalysisInputCeiling  = 8000 //chars of extracted text sent to the answering model
	SummaryInputCeiling   = 3000
	VisionMaxInlineBytes  = 20 << 20 //inline payload limit for the vision model
	PageRangeCharsPerPage = 3000     //heuristic, no structural basis - see PageRangeMethod

	//estimated completion window for background jobs
	BackgroundBaseWindow    = 2 * time.Minute
	BackgroundWindowPerMiB  = 30 * time.Second
	BackgroundWindowSpread  = 2 //max = min * spread
	MaxAlternatives         = 4
	DefaultJobPriority      = "normal"
	HighPriorityWindowRatio = 2 //high priority jobs divide the window by this

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	QueuePollTimeout                = 1 * time.Second

	//serverTimeouts
	ReadTimeout            = 30 * time.Second
	WriteTimeout           = 120 * time.Second //quick path can take up to 90s
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//in-memory job queue buffer limit
	BufferLimit = 100

	//llm
	LLMProviderGemini  = "gemini"
	LLMProviderOpenAI  = "openai"
	DefaultLLMProvider = LLMProviderGemini

	GeminiModelName       = "gemini-2.5-flash-lite-preview-09-2025"
	GeminiVisionModelName = "gemini-2.5-flash"
	OpenAIModelName       = "gpt-4o-mini"
	AnswerMaxTokens       = 500
	SummaryMaxTokens      = 200

	ModelTemperature float32 = 0.2
	ModelContext             = "You are an assistant for a property management team. Answer questions about leases, compliance certificates and surveys using only the document text provided. Keep the tone professional. If the document does not contain the answer, say you don't know. Cite the page or section you relied on in square brackets, e.g. [Page 2] or [Section 4.1]."
	VisionPrompt             = "Transcribe all readable text in this document exactly as written. Preserve paragraphs. Do not summarise. If parts are unreadable, say so."
	SummaryPrompt            = "Summarise this property document in 2-3 sentences. Mention the document type, the parties or property involved, and any key dates or amounts."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//ocr
	TesseractBinary = "tesseract"
	PdftoppmBinary  = "pdftoppm"
	TesseractLang   = "eng"
	OCRDPI          = 300
	OCRMaxPages     = 20

	//blob storage for queued documents
	BlobBackendLocal = "local"
	BlobBackendGCS   = "gcs"
	LocalBlobDir     = "temporary_data"

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore = 0
	RedisJobQueue = 1

	RedisQueueKey = "propdocs:jobs:queue"

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)
