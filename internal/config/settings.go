package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings are the runtime knobs. Defaults come from the constants in this
// package, then an optional YAML file, then environment variables.
type Settings struct {
	ListenAddr string `yaml:"listen_addr"`
	AuthToken  string `yaml:"auth_token"`
	NoAuth     bool   `yaml:"no_auth"`
	LogLevel   string `yaml:"log_level"`

	MaxUploadBytes    int64         `yaml:"max_upload_bytes"`
	QuickPathTimeout  time.Duration `yaml:"quick_path_timeout"`
	AnalysisTimeout   time.Duration `yaml:"analysis_timeout"`
	SubmissionTimeout time.Duration `yaml:"submission_timeout"`

	Redis RedisSettings `yaml:"redis"`
	LLM   LLMSettings   `yaml:"llm"`
	OCR   OCRSettings   `yaml:"ocr"`
	Blob  BlobSettings  `yaml:"blob"`
}

type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type LLMSettings struct {
	Provider     string `yaml:"provider"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
	VisionModel  string `yaml:"vision_model"`
	OpenAIAPIKey string `yaml:"openai_api_key"`
	OpenAIModel  string `yaml:"openai_model"`
}

type OCRSettings struct {
	Tesseract string `yaml:"tesseract"`
	Pdftoppm  string `yaml:"pdftoppm"`
	Lang      string `yaml:"lang"`
	DPI       int    `yaml:"dpi"`
	MaxPages  int    `yaml:"max_pages"`
}

type BlobSettings struct {
	Backend  string `yaml:"backend"`
	LocalDir string `yaml:"local_dir"`
	Bucket   string `yaml:"bucket"`
}

// Defaults returns settings built purely from the package constants.
func Defaults() Settings {
	return Settings{
		ListenAddr:        ServerListenAddr,
		MaxUploadBytes:    MaxUploadSizeBytes,
		QuickPathTimeout:  QuickPathTimeout,
		AnalysisTimeout:   AnalysisTimeout,
		SubmissionTimeout: SubmissionTimeout,
		Redis:             RedisSettings{Addr: RedisAddr},
		LLM: LLMSettings{
			Provider:    DefaultLLMProvider,
			GeminiModel: GeminiModelName,
			VisionModel: GeminiVisionModelName,
			OpenAIModel: OpenAIModelName,
		},
		OCR: OCRSettings{
			Tesseract: TesseractBinary,
			Pdftoppm:  PdftoppmBinary,
			Lang:      TesseractLang,
			DPI:       OCRDPI,
			MaxPages:  OCRMaxPages,
		},
		Blob: BlobSettings{Backend: BlobBackendLocal, LocalDir: LocalBlobDir},
	}
}

// Load reads settings. An empty path skips the YAML layer.
func Load(path string) (Settings, error) {
	s := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := s.applyEnv(); err != nil {
		return s, err
	}
	if s.AnalysisTimeout > s.QuickPathTimeout {
		s.AnalysisTimeout = s.QuickPathTimeout
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	setString(&s.ListenAddr, "LISTEN_ADDR")
	setString(&s.AuthToken, "AUTH_TOKEN")
	setString(&s.LogLevel, "LOG_LEVEL")
	setString(&s.Redis.Addr, "REDIS_ADDR")
	setString(&s.Redis.Password, "REDIS_PASSWORD")
	setString(&s.LLM.Provider, "LLM_PROVIDER")
	setString(&s.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&s.LLM.GeminiModel, "GEMINI_MODEL")
	setString(&s.LLM.VisionModel, "GEMINI_VISION_MODEL")
	setString(&s.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&s.LLM.OpenAIModel, "OPENAI_MODEL")
	setString(&s.OCR.Tesseract, "TESSERACT_BIN")
	setString(&s.OCR.Pdftoppm, "PDFTOPPM_BIN")
	setString(&s.Blob.Backend, "BLOB_BACKEND")
	setString(&s.Blob.LocalDir, "BLOB_DIR")
	setString(&s.Blob.Bucket, "GCS_BUCKET")

	if v := os.Getenv("NO_AUTH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("NO_AUTH: %w", err)
		}
		s.NoAuth = b
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_BYTES: %w", err)
		}
		s.MaxUploadBytes = n
	}
	for key, target := range map[string]*time.Duration{
		"QUICK_PATH_TIMEOUT": &s.QuickPathTimeout,
		"ANALYSIS_TIMEOUT":   &s.AnalysisTimeout,
		"SUBMISSION_TIMEOUT": &s.SubmissionTimeout,
	} {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*target = d
		}
	}
	return nil
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
