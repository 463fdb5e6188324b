package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"socialfolio/internal/auth"
	"socialfolio/internal/database"
	"socialfolio/internal/marketdata"
	"socialfolio/internal/models"
	"socialfolio/internal/service"
	mock_service "socialfolio/internal/service/mocks"
)

const (
	secret      = "handler-secret"
	alice       = "alice"
	bob         = "bob"
	portfolioID = "0b7e5d34-2a55-4c61-9f0b-5e9a4c8d2f11"
)

type fakeMarket struct {
	search  []marketdata.SearchResult
	history []marketdata.PricePoint
	err     error
}

func (f *fakeMarket) Search(_ context.Context, _ string) ([]marketdata.SearchResult, error) {
	return f.search, f.err
}

func (f *fakeMarket) History(_ context.Context, _, _ string) ([]marketdata.PricePoint, error) {
	return f.history, f.err
}

type testServer struct {
	router *gin.Engine
	store  *mock_service.MockStore
	quotes *mock_service.MockQuoteSource
	market *fakeMarket
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	store := mock_service.NewMockStore(ctrl)
	quotes := mock_service.NewMockQuoteSource(ctrl)
	market := &fakeMarket{}
	log := logrus.New()

	h := NewHandler(
		service.NewPortfolioService(store, quotes, log),
		service.NewSocialService(store, log),
		quotes, market, log,
	)
	r := gin.New()
	h.Register(r.Group("/", auth.Middleware(secret)))
	return &testServer{router: r, store: store, quotes: quotes, market: market}
}

func (s *testServer) do(t *testing.T, user, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		token, err := auth.IssueToken(secret, user, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func alicePortfolio() *models.Portfolio {
	return &models.Portfolio{ID: portfolioID, OwnerID: alice, Name: "Core", IsPublic: false}
}

func TestRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, "", http.MethodGet, "/feed", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPortfolio(t *testing.T) {
	s := newTestServer(t)
	s.store.EXPECT().GetPortfolio(gomock.Any(), portfolioID).Return(alicePortfolio(), nil)
	s.store.EXPECT().GetHoldings(gomock.Any(), portfolioID).Return([]models.Holding{
		{PortfolioID: portfolioID, Ticker: "AAPL", Quantity: decimal.NewFromInt(10), AveragePrice: decimal.NewFromInt(100), TotalInvested: decimal.NewFromInt(1000)},
	}, nil)
	s.store.EXPECT().GetStoredValuation(gomock.Any(), portfolioID).Return(nil, nil)
	s.store.EXPECT().GetStoredPrices(gomock.Any(), []string{"AAPL"}).Return(map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(110)}, nil)
	s.quotes.EXPECT().Quotes(gomock.Any(), []string{"AAPL"}).Return(nil, errors.New("upstream down"))

	w := s.do(t, alice, http.MethodGet, "/portfolios/"+portfolioID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Core", body["name"])
	assert.Equal(t, true, body["is_loading_prices"])
	assert.Equal(t, "1100", body["total_value"])
	assert.Equal(t, "10", body["total_return_percentage"])
	assert.Equal(t, "calculated", body["value_source"])
	holdings := body["holdings"].([]any)
	require.Len(t, holdings, 1)
	assert.Equal(t, "stored", holdings[0].(map[string]any)["price_source"])
}

func TestGetPortfolio_ErrorCodes(t *testing.T) {
	t.Run("private", func(t *testing.T) {
		s := newTestServer(t)
		s.store.EXPECT().GetPortfolio(gomock.Any(), portfolioID).Return(alicePortfolio(), nil)
		w := s.do(t, bob, http.MethodGet, "/portfolios/"+portfolioID, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		s := newTestServer(t)
		s.store.EXPECT().GetPortfolio(gomock.Any(), "nope").Return(nil, database.ErrNotFound)
		w := s.do(t, bob, http.MethodGet, "/portfolios/nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("internal error is hidden", func(t *testing.T) {
		s := newTestServer(t)
		s.store.EXPECT().GetPortfolio(gomock.Any(), portfolioID).Return(nil, errors.New("pq: connection refused"))
		w := s.do(t, alice, http.MethodGet, "/portfolios/"+portfolioID, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"get portfolio failed"}`, w.Body.String())
	})
}

func TestPostTransaction(t *testing.T) {
	body := `{"ticker":"msft","side":"buy","quantity":"3","price":"410.5","idempotency_key":"k-1"}`

	t.Run("created then replayed", func(t *testing.T) {
		s := newTestServer(t)
		s.store.EXPECT().GetPortfolio(gomock.Any(), portfolioID).Return(alicePortfolio(), nil).Times(2)
		gomock.InOrder(
			s.store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, txn models.Transaction) (string, bool, error) {
					assert.Equal(t, "MSFT", txn.Ticker)
					assert.Equal(t, "k-1", txn.IdempotencyKey)
					assert.True(t, txn.Price.Equal(decimal.RequireFromString("410.5")))
					return "txn-1", true, nil
				}),
			s.store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).Return("txn-1", false, nil),
		)

		w := s.do(t, alice, http.MethodPost, "/portfolios/"+portfolioID+"/transactions", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.JSONEq(t, `{"transaction_id":"txn-1"}`, w.Body.String())

		w = s.do(t, alice, http.MethodPost, "/portfolios/"+portfolioID+"/transactions", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"transaction_id":"txn-1","status":"already_exists"}`, w.Body.String())
	})

	t.Run("oversell", func(t *testing.T) {
		s := newTestServer(t)
		s.store.EXPECT().GetPortfolio(gomock.Any(), portfolioID).Return(alicePortfolio(), nil)
		s.store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).Return("", false, models.ErrInsufficientQuantity)

		w := s.do(t, alice, http.MethodPost, "/portfolios/"+portfolioID+"/transactions",
			`{"ticker":"MSFT","side":"sell","quantity":"100","price":"1"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("bad quantity", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, alice, http.MethodPost, "/portfolios/"+portfolioID+"/transactions",
			`{"ticker":"MSFT","side":"buy","quantity":"lots","price":"1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid quantity format"}`, w.Body.String())
	})

	t.Run("not the owner", func(t *testing.T) {
		s := newTestServer(t)
		s.store.EXPECT().GetPortfolio(gomock.Any(), portfolioID).Return(alicePortfolio(), nil)
		w := s.do(t, bob, http.MethodPost, "/portfolios/"+portfolioID+"/transactions", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestImportTransactions(t *testing.T) {
	s := newTestServer(t)
	s.store.EXPECT().GetPortfolio(gomock.Any(), portfolioID).Return(alicePortfolio(), nil)
	s.store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).Return("t1", true, nil)
	s.store.EXPECT().RecordTransaction(gomock.Any(), gomock.Any()).Return("", false, models.ErrInsufficientQuantity)

	csv := "date,side,ticker,quantity,price\n2024-01-02,buy,AAPL,1,100\n2024-01-03,sell,AAPL,5,100\n"
	w := s.do(t, alice, http.MethodPost, "/portfolios/"+portfolioID+"/import", csv)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["row"])
	assert.EqualValues(t, 1, body["imported"])
}

func TestSocialRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, alice, http.MethodPost, "/users/alice/follow", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.store.EXPECT().EnsureUserExists(gomock.Any(), alice, "").Return(nil)
	s.store.EXPECT().FollowUser(gomock.Any(), alice, bob).Return(nil)
	w = s.do(t, alice, http.MethodPost, "/users/bob/follow", "")
	assert.Equal(t, http.StatusOK, w.Code)

	s.store.EXPECT().UnfollowUser(gomock.Any(), alice, bob).Return(nil)
	w = s.do(t, alice, http.MethodDelete, "/users/bob/follow", "")
	assert.Equal(t, http.StatusOK, w.Code)

	s.store.EXPECT().EnsureUserExists(gomock.Any(), alice, "").Return(nil)
	s.store.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(models.Post{ID: "p-1", AuthorID: alice, Body: "hi"}, nil)
	w = s.do(t, alice, http.MethodPost, "/posts", `{"body":"hi","ticker":"tsla"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	s.store.EXPECT().Feed(gomock.Any(), alice, 20).Return([]models.Post{{ID: "p-1"}}, nil)
	w = s.do(t, alice, http.MethodGet, "/feed?limit=20", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"p-1"`)

	w = s.do(t, alice, http.MethodGet, "/feed?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarketRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, alice, http.MethodGet, "/quotes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.quotes.EXPECT().Quotes(gomock.Any(), []string{"AAPL", "MSFT"}).Return(map[string]models.LiveQuote{
		"AAPL": {Symbol: "AAPL", Current: decimal.NewFromInt(190)},
	}, nil)
	w = s.do(t, alice, http.MethodGet, "/quotes?symbols=aapl,%20msft", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"current":"190"`)

	s.market.search = []marketdata.SearchResult{{Symbol: "AAPL", Name: "Apple Inc."}}
	w = s.do(t, alice, http.MethodGet, "/search?q=apple", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Apple Inc.")

	s.market.err = &marketdata.StatusError{StatusCode: http.StatusTooManyRequests}
	w = s.do(t, alice, http.MethodGet, "/history/aapl?range=1y", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
