package video

import (
	"log"
	"time"

	"github.com/ethanbaker/ytchat/internal/rag/composer"
	"github.com/ethanbaker/ytchat/internal/rag/embedding"
	"github.com/ethanbaker/ytchat/internal/rag/transcript"
	videostore "github.com/ethanbaker/ytchat/internal/stores/video"
	"github.com/ethanbaker/ytchat/pkg/utils"
	"github.com/robfig/cron/v3"
)

// Service wires the transcript client, embedding model, generative model, and
// session registry together for the HTTP controllers
type Service struct {
	store            *videostore.Store
	embeddingsLoaded bool
	modelLoaded      bool
	sweeper          *cron.Cron
}

var service *Service

// Init creates the service the video module runs off of. The embedding and
// generative models are constructed once here; a failed initialization leaves
// the service running in a degraded state that reports unavailable on use
func Init(cfg *utils.Config) {
	timeout := time.Duration(cfg.GetIntWithDefault("REQUEST_TIMEOUT_SECS", 60)) * time.Second
	apiKey := cfg.Get("OPENAI_API_KEY")
	baseURL := cfg.Get("OPENAI_BASE_URL")

	// Transcript acquisition client
	fetcher := transcript.NewClient(timeout)

	// Embedding model (process-wide, shared by all requests)
	var embedder embedding.Embedder = embedding.Unavailable{}
	embeddingsLoaded := false
	if impl, err := embedding.NewOpenAIEmbedder(apiKey, baseURL, cfg.Get("EMBEDDING_MODEL"), timeout); err != nil {
		log.Printf("[VIDEO]: Failed to load embedding model: %v", err)
	} else {
		embedder = impl
		embeddingsLoaded = true
		log.Printf("[VIDEO]: Embedding model loaded successfully")
	}

	// Generative model
	var generator composer.Generator
	modelLoaded := false
	if impl, err := composer.NewOpenAIGenerator(apiKey, baseURL, cfg.GetWithDefault("CHAT_MODEL", "gpt-4o-mini"), timeout); err != nil {
		log.Printf("[VIDEO]: Failed to initialize language model: %v", err)
	} else {
		generator = impl
		modelLoaded = true
		log.Printf("[VIDEO]: Language model initialized successfully")
	}

	// Answer template, overridable through a prompt file
	template := composer.DefaultTemplate
	if path := cfg.Get("ANSWER_PROMPT_PATH"); path != "" {
		template = utils.LoadPromptWithFallback(path, composer.DefaultTemplate)
	}

	store := videostore.NewStore(fetcher, embedder, composer.New(generator, template), videostore.Options{
		Languages:    cfg.GetStrings("TRANSCRIPT_LANGUAGES"),
		ChunkSize:    cfg.GetIntWithDefault("CHUNK_SIZE", 1000),
		ChunkOverlap: cfg.GetIntWithDefault("CHUNK_OVERLAP", 200),
		RetrievalK:   cfg.GetIntWithDefault("RETRIEVAL_K", 4),
	})

	service = &Service{
		store:            store,
		embeddingsLoaded: embeddingsLoaded,
		modelLoaded:      modelLoaded,
	}

	// Optional TTL eviction sweep; sessions live until evicted otherwise
	if ttlHours := cfg.GetInt("SESSION_TTL_HOURS"); ttlHours > 0 {
		ttl := time.Duration(ttlHours) * time.Hour
		sweeper := cron.New()
		if _, err := sweeper.AddFunc("@every 10m", func() { store.EvictExpired(ttl) }); err != nil {
			log.Printf("[VIDEO]: Failed to schedule TTL sweep: %v", err)
		} else {
			sweeper.Start()
			service.sweeper = sweeper
			log.Printf("[VIDEO]: Session TTL eviction enabled (%dh)", ttlHours)
		}
	}
}

// GetService returns the service instance
func GetService() *Service {
	if service == nil {
		log.Fatal("[VIDEO]: Service is not initialized")
	}
	return service
}

// Store returns the session registry
func (s *Service) Store() *videostore.Store {
	return s.store
}

// EmbeddingsLoaded reports whether the embedding model initialized at startup
func (s *Service) EmbeddingsLoaded() bool {
	return s.embeddingsLoaded
}

// ModelLoaded reports whether the generative model initialized at startup
func (s *Service) ModelLoaded() bool {
	return s.modelLoaded
}
