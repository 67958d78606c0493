package budget

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting backed by tiktoken.
// Encodings are cached per normalized model name.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates an empty token counter.
func NewCounter() *Counter {
	return &Counter{encodingCache: make(map[string]*tiktoken.Tiktoken)}
}

func (c *Counter) encodingFor(model string) (*tiktoken.Tiktoken, error) {
	name := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[name]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodingCache[name]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(name)
	if err != nil {
		slog.Debug("falling back to cl100k_base encoding",
			slog.String("model", model),
			slog.String("normalized", name),
			slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	c.encodingCache[name] = enc
	return enc, nil
}

// normalizeModelName maps provider model IDs onto tiktoken-compatible
// names. Ollama tags ("llama3:latest") and namespaced IDs are reduced to
// their family name first.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	if i := strings.Index(model, ":"); i >= 0 {
		model = model[:i]
	}

	if strings.Contains(model, "gpt-3.5") {
		return "gpt-3.5-turbo"
	}
	// Llama, Mixtral and Claude tokenize closely enough to cl100k for
	// estimation purposes; gpt-4 resolves to that encoding.
	return "gpt-4"
}

// CountText counts tokens in a plain string.
func (c *Counter) CountText(model, text string) (int, error) {
	enc, err := c.encodingFor(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountPrompt counts prompt tokens for a chat request: the user input plus
// prior conversation turns, including the per-message framing overhead
// used by OpenAI-compatible APIs. Encoder failures degrade to a chars/4
// heuristic.
func (c *Counter) CountPrompt(model, input string, history []string) int {
	enc, err := c.encodingFor(model)
	if err != nil {
		slog.Warn("token counting unavailable, using chars/4 heuristic",
			slog.String("model", model),
			slog.Any("error", err))
		total := len(input)
		for _, h := range history {
			total += len(h)
		}
		return total / 4
	}

	// 3 tokens of framing plus 1 for the role per message, and every
	// reply is primed with <|start|>assistant<|message|>.
	const perMessage = 4
	n := perMessage + len(enc.Encode(input, nil, nil))
	for _, h := range history {
		n += perMessage + len(enc.Encode(h, nil, nil))
	}
	return n + 3
}
