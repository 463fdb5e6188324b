package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"socialfolio/internal/auth"
	"socialfolio/internal/database"
	"socialfolio/internal/importer"
	"socialfolio/internal/marketdata"
	"socialfolio/internal/models"
	"socialfolio/internal/service"
)

// MarketData is the part of the market-data API served without caching.
type MarketData interface {
	Search(ctx context.Context, query string) ([]marketdata.SearchResult, error)
	History(ctx context.Context, symbol, period string) ([]marketdata.PricePoint, error)
}

type Handler struct {
	portfolios *service.PortfolioService
	social     *service.SocialService
	quotes     service.QuoteSource
	market     MarketData
	log        *logrus.Logger
}

func NewHandler(p *service.PortfolioService, s *service.SocialService, q service.QuoteSource, m MarketData, log *logrus.Logger) *Handler {
	return &Handler{portfolios: p, social: s, quotes: q, market: m, log: log}
}

// Register mounts every authenticated route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/portfolios", h.CreatePortfolio)
	r.GET("/users/:userId/portfolios", h.ListPortfolios)
	r.GET("/portfolios/:id", h.GetPortfolio)
	r.GET("/portfolios/:id/transactions", h.ListTransactions)
	r.POST("/portfolios/:id/transactions", h.PostTransaction)
	r.POST("/portfolios/:id/import", h.ImportTransactions)

	r.POST("/users/:userId/follow", h.FollowUser)
	r.DELETE("/users/:userId/follow", h.UnfollowUser)
	r.POST("/portfolios/:id/follow", h.FollowPortfolio)
	r.DELETE("/portfolios/:id/follow", h.UnfollowPortfolio)
	r.POST("/posts", h.CreatePost)
	r.GET("/feed", h.Feed)

	r.GET("/quotes", h.GetQuotes)
	r.GET("/search", h.Search)
	r.GET("/history/:symbol", h.History)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInsufficientQuantity):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidTransaction),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, importer.ErrEmpty),
		errors.Is(err, importer.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response. Internal errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, action string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.log.Errorf("%s failed: %v", action, err)
		c.JSON(code, gin.H{"error": action + " failed"})
		return
	}
	h.log.Warnf("%s: %v", action, err)
	c.JSON(code, gin.H{"error": err.Error()})
}

func (h *Handler) marketFail(c *gin.Context, action string, err error) {
	h.log.Warnf("%s failed: %v", action, err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "market data unavailable"})
}

func (h *Handler) CreatePortfolio(c *gin.Context) {
	var req service.PortfolioInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.portfolios.CreatePortfolio(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		h.fail(c, "create portfolio", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPortfolios(c *gin.Context) {
	items, err := h.portfolios.ListPortfolios(c.Request.Context(), auth.UserID(c), c.Param("userId"))
	if err != nil {
		h.fail(c, "list portfolios", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	v, err := h.portfolios.Valuation(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "get portfolio", err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	rows, err := h.portfolios.ListTransactions(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, "list transactions", err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type TransactionRequest struct {
	IdempotencyKey string     `json:"idempotency_key"`
	Ticker         string     `json:"ticker" binding:"required"`
	Side           string     `json:"side" binding:"required"`
	Quantity       string     `json:"quantity" binding:"required"`
	Price          string     `json:"price" binding:"required"`
	ExecutedAt     *time.Time `json:"executed_at"`
	Source         string     `json:"source"`
}

func (h *Handler) PostTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid transaction body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity format"})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price format"})
		return
	}
	executedAt := time.Now().UTC()
	if req.ExecutedAt != nil {
		executedAt = req.ExecutedAt.UTC()
	}
	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("Idempotency-Key")
	}

	id, created, err := h.portfolios.RecordTransaction(c.Request.Context(), auth.UserID(c), c.Param("id"), models.Transaction{
		Ticker:         req.Ticker,
		Side:           req.Side,
		Quantity:       q,
		Price:          price,
		ExecutedAt:     executedAt,
		IdempotencyKey: key,
		Source:         req.Source,
	})
	if err != nil {
		h.fail(c, "record transaction", err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"transaction_id": id, "status": "already_exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction_id": id})
}

func (h *Handler) ImportTransactions(c *gin.Context) {
	res, err := h.portfolios.Import(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Request.Body)
	if err != nil {
		code := statusFor(err)
		var rowErr *importer.RowError
		if code == http.StatusInternalServerError || !errors.As(err, &rowErr) {
			h.fail(c, "import transactions", err)
			return
		}
		h.log.Warnf("import into %s stopped: %v", c.Param("id"), err)
		c.JSON(code, gin.H{"error": err.Error(), "row": rowErr.Row, "imported": res.Imported, "skipped": res.Skipped})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) FollowUser(c *gin.Context) {
	if err := h.social.FollowUser(c.Request.Context(), auth.UserID(c), c.Param("userId")); err != nil {
		h.fail(c, "follow user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "following"})
}

func (h *Handler) UnfollowUser(c *gin.Context) {
	if err := h.social.UnfollowUser(c.Request.Context(), auth.UserID(c), c.Param("userId")); err != nil {
		h.fail(c, "unfollow user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unfollowed"})
}

func (h *Handler) FollowPortfolio(c *gin.Context) {
	if err := h.social.FollowPortfolio(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		h.fail(c, "follow portfolio", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "following"})
}

func (h *Handler) UnfollowPortfolio(c *gin.Context) {
	if err := h.social.UnfollowPortfolio(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		h.fail(c, "unfollow portfolio", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unfollowed"})
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req service.PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.social.CreatePost(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		h.fail(c, "create post", err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) Feed(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	posts, err := h.social.Feed(c.Request.Context(), auth.UserID(c), limit)
	if err != nil {
		h.fail(c, "feed", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) GetQuotes(c *gin.Context) {
	var tickers []string
	for _, s := range strings.Split(c.Query("symbols"), ",") {
		if t := models.NormalizeTicker(s); t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbols is required"})
		return
	}
	quotes, err := h.quotes.Quotes(c.Request.Context(), tickers)
	if err != nil {
		h.marketFail(c, "quotes", err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

func (h *Handler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	res, err := h.market.Search(c.Request.Context(), q)
	if err != nil {
		h.marketFail(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) History(c *gin.Context) {
	symbol := models.NormalizeTicker(c.Param("symbol"))
	points, err := h.market.History(c.Request.Context(), symbol, c.DefaultQuery("range", "1mo"))
	if err != nil {
		h.marketFail(c, "history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "points": points})
}
