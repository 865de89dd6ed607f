package server

import (
	"fmt"
	"net/http"
	"time"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
	"codeberg.org/snonux/hanzirecall/internal/health"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every 4xx reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// ResultRequest is the body of POST /api/result
type ResultRequest struct {
	UserInput string `json:"user_input"`
}

// ResultResponse carries the lookup and the mnemonic. Connections holds
// the mnemonic text.
type ResultResponse struct {
	Result         string           `json:"result"`
	Character      string           `json:"character"`
	Pinyin         string           `json:"pinyin"`
	Meaning        string           `json:"meaning"`
	RadicalNumber  string           `json:"radical_number"`
	RadicalGlyph   string           `json:"radical_character"`
	RadicalMeaning string           `json:"radical_meaning"`
	StrokeCount    int              `json:"stroke_count,omitempty"`
	Difficulty     string           `json:"difficulty,omitempty"`
	Connections    string           `json:"connections"`
	Source         hanzi.ProviderID `json:"source"`
	MnemonicSource hanzi.ProviderID `json:"mnemonic_source"`
}

// StatusResponse is the body of GET /api/status
type StatusResponse struct {
	AIServices  []hanzi.ProviderID `json:"ai_services"`
	AIAvailable bool               `json:"ai_available"`
	Timestamp   time.Time          `json:"timestamp"`
}

func (s *Server) handleResult(c *gin.Context) {
	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	query, err := hanzi.NewCharacterQuery(req.UserInput)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "The input does not contain any Chinese characters."})
		return
	}

	ctx := c.Request.Context()
	info := s.resolver.ResolveCharacter(ctx, query.Glyph())
	mnemonic := s.resolver.ResolveMnemonic(ctx, info.MnemonicRequest())

	c.JSON(http.StatusOK, ResultResponse{
		Result:         fmt.Sprintf("\nYour character %s is pronounced %s and means %s.", info.Glyph, info.Pronunciation, info.Meaning),
		Character:      info.Glyph,
		Pinyin:         info.Pronunciation,
		Meaning:        info.Meaning,
		RadicalNumber:  info.RadicalID,
		RadicalGlyph:   info.RadicalGlyph,
		RadicalMeaning: info.RadicalMeaning,
		StrokeCount:    info.StrokeCount,
		Difficulty:     info.Difficulty,
		Connections:    mnemonic.Text,
		Source:         info.Source,
		MnemonicSource: mnemonic.Source,
	})
}

func (s *Server) handleMnemonic(c *gin.Context) {
	var req hanzi.MnemonicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	query, err := hanzi.NewCharacterQuery(req.Glyph)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "The input does not contain any Chinese characters."})
		return
	}
	req.Glyph = query.Glyph()

	c.JSON(http.StatusOK, s.resolver.ResolveMnemonic(c.Request.Context(), req))
}

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.health.Status()

	code := http.StatusOK
	if snap.Overall == health.Unhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, snap)
}

func (s *Server) handleStatus(c *gin.Context) {
	snap := s.health.Status()

	// the local fallback is not an AI service
	services := []hanzi.ProviderID{}
	for _, id := range snap.Available() {
		if id != hanzi.ProviderFallback {
			services = append(services, id)
		}
	}

	c.JSON(http.StatusOK, StatusResponse{
		AIServices:  services,
		AIAvailable: len(services) > 0,
		Timestamp:   snap.CheckedAt,
	})
}
