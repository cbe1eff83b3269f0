package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appinventory "github.com/xiebiao/cafearoma/internal/application/inventory"
	appstaff "github.com/xiebiao/cafearoma/internal/application/staff"
	"github.com/xiebiao/cafearoma/internal/domain/inventory"
	"github.com/xiebiao/cafearoma/internal/domain/inventory/inventorytest"
	"github.com/xiebiao/cafearoma/internal/domain/staff"
	"github.com/xiebiao/cafearoma/internal/infrastructure/config"
	"github.com/xiebiao/cafearoma/internal/infrastructure/messaging"
	"github.com/xiebiao/cafearoma/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/cafearoma/internal/interface/http/handler"
	"github.com/xiebiao/cafearoma/internal/interface/http/middleware"
	"github.com/xiebiao/cafearoma/internal/interface/http/router"
	apperrors "github.com/xiebiao/cafearoma/pkg/errors"
	"github.com/xiebiao/cafearoma/pkg/jwt"
)

const (
	testEmail    = "lucia@cafearoma.co"
	testPassword = "secret123"
	testSKU      = "CAF-AR-001"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope 统一响应，data保留原始JSON
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type memoryStaffRepo struct {
	byEmail map[string]*staff.Staff
}

func (r *memoryStaffRepo) Create(ctx context.Context, s *staff.Staff) error {
	if _, ok := r.byEmail[s.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	s.ID = uint(len(r.byEmail) + 1)
	c := *s
	r.byEmail[s.Email] = &c
	return nil
}

func (r *memoryStaffRepo) FindByID(ctx context.Context, id uint) (*staff.Staff, error) {
	for _, s := range r.byEmail {
		if s.ID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, apperrors.ErrStaffNotFound
}

func (r *memoryStaffRepo) FindByEmail(ctx context.Context, email string) (*staff.Staff, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrStaffNotFound
	}
	c := *s
	return &c, nil
}

type testServer struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
	repo   *inventorytest.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	item, err := inventory.NewItem(testSKU, "Arábica Huila", inventory.GrainArabica,
		decimal.RequireFromString("12.5"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	repo := inventorytest.NewRepository(item)

	logger := zap.NewNop()
	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	sessions := redis.NewSessionStore(client)
	history := redis.NewHistoryStore(client, time.Hour, 100)
	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	staffService := staff.NewServiceWithCost(&memoryStaffRepo{byEmail: map[string]*staff.Staff{}}, bcrypt.MinCost)

	notifier := inventory.NewNotifier(appinventory.NewLowStockAlert(messaging.NewLogPublisher(logger), logger))
	invoker := appinventory.NewCommandInvoker(repo, history, &inventorytest.Transactor{}, notifier, time.Second, logger)

	staffHandler := handler.NewStaffHandler(
		appstaff.NewRegisterUseCase(staffService),
		appstaff.NewLoginUseCase(staffService, jwtManager, sessions, 8*time.Hour, logger),
		appstaff.NewRefreshUseCase(jwtManager, sessions, logger),
		appstaff.NewLogoutUseCase(sessions, history, logger),
	)
	inventoryHandler := handler.NewInventoryHandler(
		appinventory.NewCommandUseCase(invoker, decimal.RequireFromString("10")),
		appinventory.NewDashboardUseCase(repo, invoker),
		appinventory.NewReportUseCase(repo),
	)
	auth := middleware.NewAuthMiddleware(jwtManager, sessions)

	return &testServer{
		engine: router.New(cfg, logger, staffHandler, inventoryHandler, auth),
		mr:     mr,
		repo:   repo,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) envelope {
	t.Helper()
	w := s.do(t, method, path, token, body)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

type loginTokens struct {
	SessionID    string `json:"session_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// loginWithTokens 注册并登录，返回登录响应中的Token
func (s *testServer) loginWithTokens(t *testing.T) loginTokens {
	t.Helper()

	env := s.call(t, http.MethodPost, "/api/v1/staff/register", "", gin.H{
		"email": testEmail, "password": testPassword, "name": "Lucía",
	})
	require.Equal(t, 0, env.Code, env.Message)

	env = s.call(t, http.MethodPost, "/api/v1/staff/login", "", gin.H{
		"email": testEmail, "password": testPassword,
	})
	require.Equal(t, 0, env.Code, env.Message)

	var resp loginTokens
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp
}

// login 注册并登录，返回Access Token和会话ID
func (s *testServer) login(t *testing.T) (string, string) {
	t.Helper()
	tokens := s.loginWithTokens(t)
	return tokens.AccessToken, tokens.SessionID
}

func (s *testServer) stock(t *testing.T) string {
	t.Helper()
	stock, ok := s.repo.Stock(testSKU)
	require.True(t, ok)
	return stock
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	env := s.call(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), "pong")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.call(t, http.MethodGet, "/ping", "", nil)

	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/ping",status="200"}`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/ping", "", nil)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestHeaderID))
}

func TestAuth_Rejections(t *testing.T) {
	s := newTestServer(t)

	env := s.call(t, http.MethodGet, "/api/v1/inventory", "", nil)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, env.Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("Authorization", "Token abc")
	s.engine.ServeHTTP(w, req)
	var env2 envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env2))
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env2.Code)

	env = s.call(t, http.MethodGet, "/api/v1/inventory", "not-a-jwt", nil)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)
}

func TestAuth_SessionExpired(t *testing.T) {
	s := newTestServer(t)
	token, sessionID := s.login(t)

	s.mr.Del("session:" + sessionID)

	env := s.call(t, http.MethodGet, "/api/v1/inventory", token, nil)
	assert.Equal(t, apperrors.ErrCodeSessionExpired, env.Code)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestServer(t)

	env := s.call(t, http.MethodPost, "/api/v1/staff/register", "", gin.H{
		"email": "not-an-email", "password": testPassword, "name": "Lucía",
	})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/staff/register", "", gin.H{
		"email": testEmail, "password": "onlyletters", "name": "Lucía",
	})
	assert.Equal(t, apperrors.ErrCodeWeakPassword, env.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	env := s.call(t, http.MethodPost, "/api/v1/staff/login", "", gin.H{
		"email": testEmail, "password": "wrong1234",
	})
	assert.Equal(t, apperrors.ErrCodeInvalidPassword, env.Code)
}

func TestInventory_ConsumeUndoFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	env := s.call(t, http.MethodPost, "/api/v1/inventory/stock/consume", token, gin.H{
		"sku": testSKU, "kg": "0.5",
	})
	require.Equal(t, 0, env.Code, env.Message)
	assert.Equal(t, "12", s.stock(t))

	var result struct {
		Message string `json:"message"`
		Item    struct {
			StockKg string `json:"stock_kg"`
		} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, env.Message, result.Message)
	assert.Equal(t, "12", result.Item.StockKg)

	// kg也可以是JSON数字
	env = s.call(t, http.MethodPost, "/api/v1/inventory/stock/add", token, gin.H{
		"sku": testSKU, "kg": 3,
	})
	require.Equal(t, 0, env.Code, env.Message)
	assert.Equal(t, "15", s.stock(t))

	env = s.call(t, http.MethodGet, "/api/v1/inventory/history", token, nil)
	require.Equal(t, 0, env.Code)
	var history struct {
		List []struct {
			Type string `json:"type"`
		} `json:"list"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Equal(t, 2, history.Total)
	assert.Equal(t, "consume_stock", history.List[0].Type)
	assert.Equal(t, "add_stock", history.List[1].Type)

	// LIFO
	env = s.call(t, http.MethodPost, "/api/v1/inventory/undo", token, nil)
	require.Equal(t, 0, env.Code)
	assert.Equal(t, "12", s.stock(t))

	env = s.call(t, http.MethodPost, "/api/v1/inventory/undo", token, nil)
	require.Equal(t, 0, env.Code)
	assert.Equal(t, "12.5", s.stock(t))

	env = s.call(t, http.MethodPost, "/api/v1/inventory/undo", token, nil)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, appinventory.MsgNothingToUndo, env.Message)
	assert.Equal(t, "12.5", s.stock(t))
}

func TestInventory_CommandErrors(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	env := s.call(t, http.MethodPost, "/api/v1/inventory/stock/consume", token, gin.H{
		"sku": testSKU, "kg": "1000",
	})
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, env.Code)
	assert.Equal(t, "12.5", s.stock(t))

	env = s.call(t, http.MethodPost, "/api/v1/inventory/stock/add", token, gin.H{
		"sku": "NOPE", "kg": "1",
	})
	assert.Equal(t, apperrors.ErrCodeItemNotFound, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/inventory/stock/add", token, gin.H{
		"sku": testSKU, "kg": "0",
	})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/inventory/stock/add", token, gin.H{
		"sku": testSKU, "kg": "abc",
	})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)

	// 失败的命令不进入历史
	env = s.call(t, http.MethodGet, "/api/v1/inventory/history", token, nil)
	assert.Contains(t, string(env.Data), `"total":0`)
}

func TestInventory_AddProductAndUndo(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	env := s.call(t, http.MethodPost, "/api/v1/inventory/products", token, gin.H{
		"sku": "CAF-BL-010", "name": "Blend de la Casa", "grain_type": "XX", "stock_kg": "5",
	})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/inventory/products", token, gin.H{
		"sku": "CAF-BL-010", "name": "Blend de la Casa", "grain_type": "BL", "stock_kg": "5",
	})
	require.Equal(t, 0, env.Code, env.Message)
	_, ok := s.repo.Stock("CAF-BL-010")
	assert.True(t, ok)

	env = s.call(t, http.MethodGet, "/api/v1/inventory/items/CAF-BL-010", token, nil)
	require.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), `"needs_restock":true`)

	env = s.call(t, http.MethodGet, "/api/v1/inventory/low-stock", token, nil)
	require.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), "CAF-BL-010")

	env = s.call(t, http.MethodPost, "/api/v1/inventory/products", token, gin.H{
		"sku": testSKU, "name": "dup", "grain_type": "AR", "stock_kg": "1",
	})
	assert.Equal(t, apperrors.ErrCodeSKUDuplicate, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/inventory/undo", token, nil)
	require.Equal(t, 0, env.Code)
	_, ok = s.repo.Stock("CAF-BL-010")
	assert.False(t, ok)

	env = s.call(t, http.MethodGet, "/api/v1/inventory/items/CAF-BL-010", token, nil)
	assert.Equal(t, apperrors.ErrCodeItemNotFound, env.Code)
}

func TestInventory_HistoryIsolatedPerSession(t *testing.T) {
	s := newTestServer(t)
	first, _ := s.login(t)

	env := s.call(t, http.MethodPost, "/api/v1/staff/login", "", gin.H{
		"email": testEmail, "password": testPassword,
	})
	require.Equal(t, 0, env.Code)
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	second := resp.AccessToken

	env = s.call(t, http.MethodPost, "/api/v1/inventory/stock/consume", first, gin.H{"sku": testSKU, "kg": "1"})
	require.Equal(t, 0, env.Code)

	// 另一个会话没有可撤销的命令
	env = s.call(t, http.MethodPost, "/api/v1/inventory/undo", second, nil)
	assert.Equal(t, appinventory.MsgNothingToUndo, env.Message)
	assert.Equal(t, "11.5", s.stock(t))
}

func TestInventory_ClearHistory(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	s.call(t, http.MethodPost, "/api/v1/inventory/stock/consume", token, gin.H{"sku": testSKU, "kg": "1"})

	env := s.call(t, http.MethodDelete, "/api/v1/inventory/history", token, nil)
	require.Equal(t, 0, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/inventory/undo", token, nil)
	assert.Equal(t, appinventory.MsgNothingToUndo, env.Message)
	assert.Equal(t, "11.5", s.stock(t))
}

func TestInventory_Dashboard(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	s.call(t, http.MethodPost, "/api/v1/inventory/stock/consume", token, gin.H{"sku": testSKU, "kg": "0.5"})

	env := s.call(t, http.MethodGet, "/api/v1/inventory", token, nil)
	require.Equal(t, 0, env.Code)

	var d struct {
		Items         []json.RawMessage `json:"items"`
		History       []json.RawMessage `json:"history"`
		TotalItems    int               `json:"total_items"`
		LowStockCount int               `json:"low_stock_count"`
		TotalStockKg  string            `json:"total_stock_kg"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, 1, d.TotalItems)
	assert.Len(t, d.History, 1)
	assert.Equal(t, 0, d.LowStockCount)
	assert.Equal(t, "12", d.TotalStockKg)
}

func TestInventory_Report(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t)

	w := s.do(t, http.MethodGet, "/api/v1/inventory/report", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "inventory_report_")

	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "库存报表 - Café Aroma"))
	assert.Contains(t, body, "CAF-AR-001,Arábica Huila,Arábica,12.500,10.000,正常")
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	token, sessionID := s.login(t)

	s.call(t, http.MethodPost, "/api/v1/inventory/stock/consume", token, gin.H{"sku": testSKU, "kg": "1"})

	env := s.call(t, http.MethodPost, "/api/v1/staff/logout", token, nil)
	require.Equal(t, 0, env.Code, env.Message)

	assert.False(t, s.mr.Exists("session:"+sessionID))
	assert.False(t, s.mr.Exists("command_history:"+sessionID))

	env = s.call(t, http.MethodGet, "/api/v1/inventory", token, nil)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, env.Code)

	// 登出不回滚已执行的命令
	assert.Equal(t, "11.5", s.stock(t))
}

func TestRefreshToken(t *testing.T) {
	s := newTestServer(t)
	tokens := s.loginWithTokens(t)

	// Refresh Token不能当Access Token用
	env := s.call(t, http.MethodGet, "/api/v1/inventory", tokens.RefreshToken, nil)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)

	// Access Token不能用来刷新
	env = s.call(t, http.MethodPost, "/api/v1/staff/refresh", "", gin.H{"refresh_token": tokens.AccessToken})
	assert.Equal(t, apperrors.ErrCodeInvalidToken, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/staff/refresh", "", gin.H{})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, env.Code)

	env = s.call(t, http.MethodPost, "/api/v1/staff/refresh", "", gin.H{"refresh_token": tokens.RefreshToken})
	require.Equal(t, 0, env.Code, env.Message)
	var renewed struct {
		SessionID   string `json:"session_id"`
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &renewed))
	assert.Equal(t, tokens.SessionID, renewed.SessionID)
	assert.Equal(t, int64(3600), renewed.ExpiresIn)

	// 新Token属于同一会话，能看到原来的命令历史
	env = s.call(t, http.MethodPost, "/api/v1/inventory/stock/consume", tokens.AccessToken,
		gin.H{"sku": testSKU, "kg": "0.5"})
	require.Equal(t, 0, env.Code, env.Message)
	env = s.call(t, http.MethodPost, "/api/v1/inventory/undo", renewed.AccessToken, nil)
	require.Equal(t, 0, env.Code, env.Message)
	assert.Equal(t, "12.5", s.stock(t))

	// 登出后会话不存在，Refresh Token失效
	env = s.call(t, http.MethodPost, "/api/v1/staff/logout", renewed.AccessToken, nil)
	require.Equal(t, 0, env.Code, env.Message)
	env = s.call(t, http.MethodPost, "/api/v1/staff/refresh", "", gin.H{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, apperrors.ErrCodeSessionExpired, env.Code)
}
