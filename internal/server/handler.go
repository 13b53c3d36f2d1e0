package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"

	"StarTrade/internal/agent"
	"StarTrade/internal/chart"
	"StarTrade/internal/collector"
	"StarTrade/internal/model"
	"StarTrade/internal/recorder"
	"StarTrade/internal/selection"
)

// Analyzer fetches series and derives indicators from them.
type Analyzer interface {
	Fetch(ctx context.Context, symbol string, q collector.Query) (*model.PriceSeries, error)
	Analyze(ctx context.Context, symbol string) (*model.Analysis, error)
	AnalyzeSeries(series *model.PriceSeries) *model.Analysis
}

// BoardService edits the grouped-symbol layout.
type BoardService interface {
	Groups() []model.Group
	Add(group, symbol string, index int) error
	Remove(group, symbol string) error
	Move(symbol, toGroup string, toIndex int) error
}

// SelectionService drives the fetch lifecycle of the selected symbol.
type SelectionService interface {
	Select(ctx context.Context, symbol string) selection.Ticket
	Current() selection.State
}

// ChatService relays chat messages and keeps transcripts.
type ChatService interface {
	Chat(ctx context.Context, req agent.Request) (string, agent.Entry, error)
	Transcript(conversationID string) ([]agent.Entry, bool)
}

// Handler serves the dashboard API.
type Handler struct {
	analyzer  Analyzer
	board     BoardService
	selection SelectionService
	chat      ChatService
	history   recorder.Recorder
}

func NewHandler(an Analyzer, board BoardService, sel SelectionService, chat ChatService, history recorder.Recorder) *Handler {
	if history == nil {
		history = recorder.NewNoopRecorder()
	}
	return &Handler{analyzer: an, board: board, selection: sel, chat: chat, history: history}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

var errBadRequest = errors.New("bad request")

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", errBadRequest, msg)
}

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.^=\-]{1,20}$`)

type chartQuery struct {
	Range      string `form:"range"`
	Interval   string `form:"interval" binding:"omitempty,oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
	Indicators string `form:"indicators"`
}

type historyQuery struct {
	Limit int `form:"limit" default:"30" binding:"gte=1,lte=500"`
}

func symbolParam(c *gin.Context) (string, error) {
	sym := strings.TrimSpace(c.Param("symbol"))
	if !symbolPattern.MatchString(sym) {
		return "", errBadRequest
	}
	return strings.ToUpper(sym), nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDataUnavailable),
		errors.Is(err, model.ErrUnknownGroup),
		errors.Is(err, model.ErrUnknownSymbol),
		errors.Is(err, model.ErrUnknownConversation):
		return http.StatusNotFound
	case errors.Is(err, model.ErrNetworkFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	msg := err.Error()
	if errors.Is(err, errBadRequest) {
		msg = strings.TrimPrefix(msg, errBadRequest.Error()+": ")
	}
	c.JSON(statusFor(err), ErrorResponse{Error: msg})
}

// Chart returns candles and indicator overlays.
//
// GET /api/chart/:symbol?range=6mo&interval=1d&indicators=sma,bb
func (h *Handler) Chart(c *gin.Context) {
	sym, err := symbolParam(c)
	if err != nil {
		writeError(c, badRequest("invalid symbol"))
		return
	}
	var cq chartQuery
	if err := c.ShouldBindQuery(&cq); err != nil {
		writeError(c, badRequest("unsupported interval "+c.Query("interval")))
		return
	}

	series, err := h.analyzer.Fetch(c.Request.Context(), sym, collector.Query{Range: cq.Range, Interval: cq.Interval})
	if err != nil {
		writeError(c, err)
		return
	}
	a := h.analyzer.AnalyzeSeries(series)

	var include []string
	if cq.Indicators != "" {
		include = strings.Split(cq.Indicators, ",")
	}
	c.JSON(http.StatusOK, chart.Build(series, a.Indicators, include))
}

// Analysis returns the snapshot, narrative and technical score for one symbol.
func (h *Handler) Analysis(c *gin.Context) {
	sym, err := symbolParam(c)
	if err != nil {
		writeError(c, badRequest("invalid symbol"))
		return
	}
	a, err := h.analyzer.Analyze(c.Request.Context(), sym)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// History returns recorded snapshots, newest first.
func (h *Handler) History(c *gin.Context) {
	sym, err := symbolParam(c)
	if err != nil {
		writeError(c, badRequest("invalid symbol"))
		return
	}
	var hq historyQuery
	if err := defaults.Set(&hq); err != nil {
		writeError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&hq); err != nil {
		writeError(c, badRequest(err.Error()))
		return
	}
	records, err := h.history.History(sym, hq.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []recorder.Record{}
	}
	c.JSON(http.StatusOK, records)
}

type selectRequest struct {
	Symbol string `json:"symbol"`
}

// Select makes a symbol current and starts loading it. An empty symbol clears the selection.
func (h *Handler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err.Error()))
		return
	}
	if req.Symbol != "" && !symbolPattern.MatchString(strings.TrimSpace(req.Symbol)) {
		writeError(c, badRequest("invalid symbol"))
		return
	}
	tk := h.selection.Select(c.Request.Context(), req.Symbol)
	c.JSON(http.StatusAccepted, tk)
}

// GetSelection returns the current lifecycle state.
func (h *Handler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.selection.Current())
}

// Board returns the grouped-symbol layout.
func (h *Handler) Board(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": h.board.Groups()})
}

type boardRequest struct {
	Group  string `json:"group" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	Index  *int   `json:"index"`
}

func (r boardRequest) index() int {
	if r.Index == nil {
		return -1
	}
	return *r.Index
}

func (h *Handler) bindBoard(c *gin.Context) (boardRequest, bool) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err.Error()))
		return req, false
	}
	if !symbolPattern.MatchString(strings.TrimSpace(req.Symbol)) {
		writeError(c, badRequest("invalid symbol"))
		return req, false
	}
	return req, true
}

func (h *Handler) boardResult(c *gin.Context, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.board.Groups()})
}

// BoardAdd inserts a symbol into a group. Index defaults to the end.
func (h *Handler) BoardAdd(c *gin.Context) {
	req, ok := h.bindBoard(c)
	if !ok {
		return
	}
	h.boardResult(c, h.board.Add(req.Group, req.Symbol, req.index()))
}

// BoardRemove deletes a symbol from a group.
func (h *Handler) BoardRemove(c *gin.Context) {
	req, ok := h.bindBoard(c)
	if !ok {
		return
	}
	h.boardResult(c, h.board.Remove(req.Group, req.Symbol))
}

// BoardMove reorders a symbol or moves it to another group.
func (h *Handler) BoardMove(c *gin.Context) {
	req, ok := h.bindBoard(c)
	if !ok {
		return
	}
	h.boardResult(c, h.board.Move(req.Symbol, req.Group, req.index()))
}

type chatRequest struct {
	Message        string   `json:"message" binding:"required"`
	Portfolio      []string `json:"portfolio"`
	ConversationID string   `json:"conversation_id"`
}

type chatResponse struct {
	ConversationID string      `json:"conversation_id"`
	Reply          agent.Entry `json:"reply"`
	Error          string      `json:"error,omitempty"`
}

// Chat forwards a message to the agent backend. A backend failure still returns the
// resolved transcript entry alongside the error.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, badRequest(err.Error()))
		return
	}
	convID, entry, err := h.chat.Chat(c.Request.Context(), agent.Request{
		Message:        req.Message,
		Portfolio:      req.Portfolio,
		ConversationID: req.ConversationID,
	})
	resp := chatResponse{ConversationID: convID, Reply: entry}
	if err != nil {
		_ = c.Error(err)
		resp.Error = err.Error()
		c.JSON(http.StatusBadGateway, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Transcript returns one conversation.
func (h *Handler) Transcript(c *gin.Context) {
	entries, ok := h.chat.Transcript(c.Param("conversation"))
	if !ok {
		writeError(c, model.ErrUnknownConversation)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation_id": c.Param("conversation"), "entries": entries})
}
