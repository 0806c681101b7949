package report

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
)

var (
	tokenizerCache   = make(map[string]*tiktoken.Tiktoken)
	tokenizerCacheMu sync.RWMutex
)

func tokenizerFor(model string) (*tiktoken.Tiktoken, error) {
	tokenizerCacheMu.RLock()
	if tkm, ok := tokenizerCache[model]; ok {
		tokenizerCacheMu.RUnlock()
		return tkm, nil
	}
	tokenizerCacheMu.RUnlock()

	tokenizerCacheMu.Lock()
	defer tokenizerCacheMu.Unlock()
	if tkm, ok := tokenizerCache[model]; ok {
		return tkm, nil
	}

	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Unknown models fall back to cl100k_base.
		tkm, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	tokenizerCache[model] = tkm
	return tkm, nil
}

// EstimateTokens counts the tokens text would occupy for model.
func EstimateTokens(text, model string) (int, error) {
	tkm, err := tokenizerFor(model)
	if err != nil {
		return 0, err
	}
	return len(tkm.Encode(text, nil, nil)), nil
}

// TrimToBudget drops trailing web hits until the serialized payload fits
// the token budget. Facts, markers and risks are never dropped; a payload
// that is still over budget with zero hits is sent as-is.
func TrimToBudget(payload Payload, model string, budget int, log zerolog.Logger) Payload {
	if budget <= 0 {
		return payload
	}
	for {
		body, err := payload.JSON()
		if err != nil {
			return payload
		}
		tokens, err := EstimateTokens(body, model)
		if err != nil {
			log.Warn().Err(err).Msg("token estimate unavailable, sending payload untrimmed")
			return payload
		}
		if tokens <= budget || len(payload.WebHits) == 0 {
			return payload
		}
		log.Debug().
			Int("tokens", tokens).
			Int("budget", budget).
			Int("hits", len(payload.WebHits)).
			Msg("payload over token budget, dropping last hit")
		payload.WebHits = payload.WebHits[:len(payload.WebHits)-1]
	}
}
