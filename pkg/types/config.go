package types

import (
	"fmt"
	"net/url"
	"time"
)

// NormalizeConfig controls the optional steps of text normalization.
type NormalizeConfig struct {
	// Lemmatize reduces each token to its base form before stop-word filtering.
	Lemmatize bool `json:"lemmatize" yaml:"lemmatize" mapstructure:"lemmatize"`

	// RemoveStopwords drops English stop words and single-character tokens.
	RemoveStopwords bool `json:"remove_stopwords" yaml:"remove_stopwords" mapstructure:"remove_stopwords"`
}

// ClassifierConfig locates the frozen classifier artifacts. Both paths empty
// disables the lexical classifier; verdicts then come from the nearest
// reference.
type ClassifierConfig struct {
	// BinaryModel is the publishable/non-publishable artifact (YAML).
	BinaryModel string `json:"binary_model" yaml:"binary_model" mapstructure:"binary_model"`

	// VenueModel is the conference artifact consulted for publishable papers.
	VenueModel string `json:"venue_model" yaml:"venue_model" mapstructure:"venue_model"`
}

// Enabled reports whether classifier artifacts are configured.
func (c ClassifierConfig) Enabled() bool {
	return c.BinaryModel != "" || c.VenueModel != ""
}

// EmbeddingBackend selects the embedding model implementation.
type EmbeddingBackend string

const (
	EmbeddingHashing EmbeddingBackend = "hashing"
	EmbeddingOllama  EmbeddingBackend = "ollama"
)

// EmbeddingConfig holds settings for the embedding model.
type EmbeddingConfig struct {
	// Backend is hashing (offline, deterministic) or ollama.
	Backend EmbeddingBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Dim is the vector length of the hashing backend (default 384).
	Dim int `json:"dim" yaml:"dim" mapstructure:"dim"`

	// Model is the Ollama embedding model (default "nomic-embed-text:latest").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL is the Ollama server URL (default "http://localhost:11434").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// RequestsPerSecond bounds the rate of embedding requests (default 4).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the retry budget for HTTP 429 and 503 responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout is the HTTP request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// APIKey is sent as a bearer token when set. It is loaded from the
	// secrets directory and never serialized.
	APIKey string `json:"-" yaml:"-" mapstructure:"-"`
}

// CacheBackend selects where computed embeddings are persisted.
type CacheBackend string

const (
	CacheNone     CacheBackend = "none"
	CacheSQLite   CacheBackend = "sqlite"
	CachePGVector CacheBackend = "pgvector"
)

// StoreConfig holds settings for run history and the embedding cache.
type StoreConfig struct {
	// Dir contains the SQLite database (default "output/index").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Cache selects the embedding cache backend (default sqlite).
	Cache CacheBackend `json:"cache" yaml:"cache" mapstructure:"cache"`

	// PGVectorDSN is the PostgreSQL connection string for the pgvector cache.
	PGVectorDSN string `json:"pgvector_dsn,omitempty" yaml:"pgvector_dsn,omitempty" mapstructure:"pgvector_dsn"`

	// PGVectorTable is the cache table name (default "paper_embeddings").
	PGVectorTable string `json:"pgvector_table" yaml:"pgvector_table" mapstructure:"pgvector_table"`

	// MaxResults is the default history query limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// DatasetConfig describes the on-disk dataset layout.
type DatasetConfig struct {
	// Dir contains Reference/ and Papers/ (default "dataset").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// TextDir caches extracted text (default "output/text").
	TextDir string `json:"text_dir" yaml:"text_dir" mapstructure:"text_dir"`

	// Conferences are the venue directories created by init.
	Conferences []string `json:"conferences" yaml:"conferences" mapstructure:"conferences"`

	// Extractor selects PDF text extraction: native or container
	// (pdftotext in docker or podman). Default native.
	Extractor ExtractorBackend `json:"extractor" yaml:"extractor" mapstructure:"extractor"`

	// ContainerImage is the pdftotext image for the container extractor.
	ContainerImage string `json:"container_image,omitempty" yaml:"container_image,omitempty" mapstructure:"container_image"`

	// ExtractTimeout bounds one container extraction (default 2m).
	ExtractTimeout time.Duration `json:"extract_timeout" yaml:"extract_timeout" mapstructure:"extract_timeout"`
}

// ExtractorBackend selects how PDF text is extracted.
type ExtractorBackend string

const (
	ExtractorNative    ExtractorBackend = "native"
	ExtractorContainer ExtractorBackend = "container"
)

// OutputConfig holds report settings.
type OutputConfig struct {
	// Dir receives analysis_results.csv and detailed_report.txt (default "output").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// PipelineConfig holds orchestration settings.
type PipelineConfig struct {
	// Workers bounds per-document parallelism. Zero uses runtime.NumCPU().
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// PerDocumentTimeout bounds embed and classify calls per document.
	// Zero disables the bound.
	PerDocumentTimeout time.Duration `json:"per_document_timeout" yaml:"per_document_timeout" mapstructure:"per_document_timeout"`
}

// Config groups all settings.
type Config struct {
	Normalize  NormalizeConfig  `json:"normalize" yaml:"normalize" mapstructure:"normalize"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier" mapstructure:"classifier"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Dataset    DatasetConfig    `json:"dataset" yaml:"dataset" mapstructure:"dataset"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
	Pipeline   PipelineConfig   `json:"pipeline" yaml:"pipeline" mapstructure:"pipeline"`
}

// DefaultConferences are the venue directories bootstrapped by init.
var DefaultConferences = []string{"CVPR", "EMNLP", "KDD", "NeurIPS", "TMLR"}

// Defaults returns a Config with every default applied.
func Defaults() Config {
	var c Config
	c.Normalize.RemoveStopwords = true
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Embedding.Backend == "" {
		c.Embedding.Backend = EmbeddingHashing
	}
	if c.Embedding.Dim == 0 {
		c.Embedding.Dim = 384
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text:latest"
	}
	if c.Embedding.BaseURL == "" {
		c.Embedding.BaseURL = "http://localhost:11434"
	}
	if c.Embedding.RequestsPerSecond == 0 {
		c.Embedding.RequestsPerSecond = 4
	}
	if c.Embedding.MaxRetries == 0 {
		c.Embedding.MaxRetries = 3
	}
	if c.Embedding.Timeout == 0 {
		c.Embedding.Timeout = 60 * time.Second
	}

	if c.Store.Dir == "" {
		c.Store.Dir = "output/index"
	}
	if c.Store.Cache == "" {
		c.Store.Cache = CacheSQLite
	}
	if c.Store.PGVectorTable == "" {
		c.Store.PGVectorTable = "paper_embeddings"
	}
	if c.Store.MaxResults == 0 {
		c.Store.MaxResults = 20
	}

	if c.Dataset.Dir == "" {
		c.Dataset.Dir = "dataset"
	}
	if c.Dataset.TextDir == "" {
		c.Dataset.TextDir = "output/text"
	}
	if len(c.Dataset.Conferences) == 0 {
		c.Dataset.Conferences = append([]string(nil), DefaultConferences...)
	}
	if c.Dataset.Extractor == "" {
		c.Dataset.Extractor = ExtractorNative
	}
	if c.Dataset.ExtractTimeout == 0 {
		c.Dataset.ExtractTimeout = 2 * time.Minute
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "output"
	}
}

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports every invalid field. An empty slice means the
// configuration is usable.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Classifier.VenueModel != "" && c.Classifier.BinaryModel == "" {
		errs = append(errs, ValidationError{
			Field:   "classifier.binary_model",
			Message: "binary_model is required when venue_model is set",
		})
	}
	if c.Classifier.BinaryModel != "" && c.Classifier.VenueModel == "" {
		errs = append(errs, ValidationError{
			Field:   "classifier.venue_model",
			Message: "venue_model is required when binary_model is set",
		})
	}

	switch c.Embedding.Backend {
	case EmbeddingHashing:
		if c.Embedding.Dim < 1 {
			errs = append(errs, ValidationError{
				Field:   "embedding.dim",
				Message: "dim must be positive",
			})
		}
	case EmbeddingOllama:
		if u, err := url.Parse(c.Embedding.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "embedding.base_url",
				Message: "invalid Ollama base URL",
			})
		}
		if c.Embedding.RequestsPerSecond <= 0 {
			errs = append(errs, ValidationError{
				Field:   "embedding.requests_per_second",
				Message: "requests_per_second must be positive",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "embedding.backend",
			Message: fmt.Sprintf("unsupported backend %q: use hashing or ollama", c.Embedding.Backend),
		})
	}

	switch c.Store.Cache {
	case CacheNone, CacheSQLite:
	case CachePGVector:
		if c.Store.PGVectorDSN == "" {
			errs = append(errs, ValidationError{
				Field:   "store.pgvector_dsn",
				Message: "pgvector_dsn is required for the pgvector cache",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "store.cache",
			Message: fmt.Sprintf("unsupported cache %q: use none, sqlite, or pgvector", c.Store.Cache),
		})
	}

	switch c.Dataset.Extractor {
	case ExtractorNative, ExtractorContainer:
	default:
		errs = append(errs, ValidationError{
			Field:   "dataset.extractor",
			Message: fmt.Sprintf("unsupported extractor %q: use native or container", c.Dataset.Extractor),
		})
	}

	if c.Pipeline.Workers < 0 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.workers",
			Message: "workers must not be negative",
		})
	}
	if c.Pipeline.PerDocumentTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.per_document_timeout",
			Message: "per_document_timeout must not be negative",
		})
	}

	return errs
}
