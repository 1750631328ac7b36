package stubserver

import (
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codeberg.org/snonux/lingoflow/internal/sentiment"
)

// Config configures the stub behaviour.
type Config struct {
	// ProcessingDelay simulates model latency on every POST.
	ProcessingDelay time.Duration
	// Dictionary maps English sentences to Telugu. Unknown text is returned
	// with a "[te] " prefix, and "[en] " for the reverse direction.
	Dictionary map[string]string
	// Failures forces a status code for a path, e.g. "/api2/translate": 500.
	Failures map[string]int

	Logger *zap.SugaredLogger
}

// DefaultConfig returns sensible defaults for testing.
func DefaultConfig() *Config {
	return &Config{
		Dictionary: map[string]string{
			"hello":                 "హలో",
			"Hello world.":          "హలో ప్రపంచం.",
			"How are you?":          "మీరు ఎలా ఉన్నారు?",
			"Thank you very much.":  "చాలా ధన్యవాదాలు.",
			"I love this song.":     "నాకు ఈ పాట అంటే ఇష్టం.",
			"The weather is sunny.": "వాతావరణం ఎండగా ఉంది.",
		},
	}
}

type server struct {
	config  *Config
	reverse map[string]string
	logger  *zap.SugaredLogger
}

type textRequest struct {
	Text string `json:"text"`
}

type multiRequest struct {
	Text1     string `json:"text1"`
	Text2     string `json:"text2"`
	Direction string `json:"direction"`
}

type posTag struct {
	Token string `json:"token"`
	POS   string `json:"pos"`
}

type keyword struct {
	Keyword           string  `json:"keyword"`
	TranslatedKeyword string  `json:"translated_keyword"`
	Score             float64 `json:"score"`
}

// NewRouter builds the gin engine serving every endpoint.
func NewRouter(config *Config) *gin.Engine {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &server{
		config:  config,
		reverse: make(map[string]string, len(config.Dictionary)),
		logger:  logger,
	}
	for en, te := range config.Dictionary {
		s.reverse[te] = en
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), s.injectFailures(), s.delay())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the unified API server!"})
	})

	api1 := r.Group("/api1")
	{
		api1.POST("/process_audio", s.processAudio)
		api1.POST("/process_text", s.processText)
	}

	api2 := r.Group("/api2")
	{
		api2.POST("/translate", s.translate)
		api2.POST("/pos", s.pos)
		api2.POST("/translate_keywords", s.translateKeywords)
		api2.POST("/translate_multiple", s.translateMultiple)
	}

	return r
}

func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"latency", time.Since(start),
		)
	}
}

func (s *server) injectFailures() gin.HandlerFunc {
	return func(c *gin.Context) {
		if status, ok := s.config.Failures[c.Request.URL.Path]; ok {
			c.AbortWithStatusJSON(status, gin.H{"error": "injected failure"})
			return
		}
		c.Next()
	}
}

func (s *server) delay() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.config.ProcessingDelay <= 0 || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		select {
		case <-time.After(s.config.ProcessingDelay):
			c.Next()
		case <-c.Request.Context().Done():
			c.AbortWithStatus(http.StatusServiceUnavailable)
		}
	}
}

// bindText reads {"text": ...} and answers 400 when it is missing or blank.
func bindText(c *gin.Context) (string, bool) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty JSON payload"})
		return "", false
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return "", false
	}
	return text, true
}

func (s *server) toTelugu(text string) string {
	if te, ok := s.config.Dictionary[text]; ok {
		return te
	}
	return "[te] " + text
}

func (s *server) toEnglish(text string) string {
	if en, ok := s.reverse[text]; ok {
		return en
	}
	return "[en] " + text
}

func (s *server) translate(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"translated_text": s.toTelugu(text)})
}

func (s *server) pos(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	tags := []posTag{}
	for _, token := range tokenize(s.toTelugu(text)) {
		tags = append(tags, posTag{Token: token, POS: tagToken(token)})
	}
	c.JSON(http.StatusOK, tags)
}

func (s *server) translateKeywords(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	ranked := rankKeywords(text, 6)
	if len(ranked) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No keywords found"})
		return
	}
	keywords := make([]keyword, len(ranked))
	for i, k := range ranked {
		keywords[i] = keyword{Keyword: k.word, TranslatedKeyword: s.toTelugu(k.word), Score: k.score}
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

func (s *server) translateMultiple(c *gin.Context) {
	var req multiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or empty JSON payload"})
		return
	}
	text1, text2 := strings.TrimSpace(req.Text1), strings.TrimSpace(req.Text2)
	if text1 == "" || text2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both text1 and text2 must be provided"})
		return
	}

	convert := s.toTelugu
	if req.Direction == "te-to-en" {
		convert = s.toEnglish
	}
	c.JSON(http.StatusOK, gin.H{
		"translated_text1": convert(text1),
		"translated_text2": convert(text2),
	})
}

func (s *server) processText(c *gin.Context) {
	text, ok := bindText(c)
	if !ok {
		return
	}
	scores := scoreSentiments(text)
	c.JSON(http.StatusOK, gin.H{
		"original_text":     text,
		"translated_text":   s.toTelugu(text),
		"sentiments":        scores,
		"overall_sentiment": sentiment.Overall(sentiment.Normalize(scores)),
		"summary":           summarize(text),
	})
}

// processAudio treats the uploaded bytes as the spoken text, which keeps the
// stub deterministic without a speech model.
func (s *server) processAudio(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part in the request"})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	transcript := strings.TrimSpace(strings.ToValidUTF8(string(data), ""))
	if transcript == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transcription failed."})
		return
	}

	scores := scoreSentiments(transcript)
	c.JSON(http.StatusOK, gin.H{
		"transcript":        transcript,
		"sentiments":        scores,
		"overall_sentiment": sentiment.Overall(sentiment.Normalize(scores)),
		"summary":           summarize(transcript),
	})
}

func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		word := strings.TrimRightFunc(field, unicode.IsPunct)
		if word != "" {
			tokens = append(tokens, word)
		}
		if punct := field[len(word):]; punct != "" {
			tokens = append(tokens, punct)
		}
	}
	return tokens
}

func tagToken(token string) string {
	r := []rune(token)
	switch {
	case len(r) > 0 && unicode.IsPunct(r[0]):
		return "PUNCT"
	case len(r) > 0 && unicode.IsDigit(r[0]):
		return "NUM"
	case strings.HasPrefix(token, "["):
		return "X"
	default:
		return "NOUN"
	}
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"and": true, "or": true, "of": true, "to": true, "in": true, "on": true,
	"it": true, "this": true, "that": true, "i": true, "you": true, "we": true,
	"for": true, "with": true, "be": true, "very": true, "my": true, "me": true,
}

type rankedWord struct {
	word  string
	score float64
	first int
}

// rankKeywords scores words by term frequency, ties broken by first
// occurrence.
func rankKeywords(text string, limit int) []rankedWord {
	counts := make(map[string]*rankedWord)
	total := 0
	for i, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) })
		if word == "" || stopWords[word] {
			continue
		}
		total++
		if rw, ok := counts[word]; ok {
			rw.score++
			continue
		}
		counts[word] = &rankedWord{word: word, score: 1, first: i}
	}

	ranked := make([]rankedWord, 0, len(counts))
	for _, rw := range counts {
		rw.score /= float64(total)
		ranked = append(ranked, *rw)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].first < ranked[j].first
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

var emotionWords = map[string]string{
	"happy": "joy", "glad": "joy", "great": "joy", "wonderful": "joy",
	"angry": "anger", "furious": "anger", "hate": "anger",
	"sad": "sadness", "unhappy": "sadness", "cry": "sadness",
	"afraid": "fear", "scared": "fear", "worried": "fear",
	"surprised": "surprise", "wow": "surprise",
	"disgusting": "disgust", "gross": "disgust",
	"love": "love", "adore": "love",
}

// scoreSentiments spreads a unit score over the emotions whose words appear.
// Text without emotion words is fully neutral.
func scoreSentiments(text string) map[string]float64 {
	scores := map[string]float64{
		"joy": 0, "anger": 0, "sadness": 0, "fear": 0,
		"neutral": 0, "surprise": 0, "disgust": 0, "love": 0,
	}
	hits := 0
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(field, func(r rune) bool { return !unicode.IsLetter(r) })
		if emotion, ok := emotionWords[word]; ok {
			scores[emotion]++
			hits++
		}
	}
	if hits == 0 {
		scores["neutral"] = 1
		return scores
	}
	for k, v := range scores {
		scores[k] = v / float64(hits)
	}
	return scores
}

// summarize returns the first sentence.
func summarize(text string) string {
	if i := strings.IndexAny(text, ".!?"); i >= 0 {
		return strings.TrimSpace(text[:i+1])
	}
	return text
}
