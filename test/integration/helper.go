//go:build integration

// Package integration 针对运行中的服务（MySQL + Redis）的端到端测试
//
//	go run ./cmd/api   # 需要MySQL和Redis
//	go test -tags=integration -v ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL API基础URL，可用CAFEAROMA_BASE_URL覆盖
var BaseURL = func() string {
	if url := os.Getenv("CAFEAROMA_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080/api/v1"
}()

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	SessionID   string `json:"session_id"`
	AccessToken string `json:"access_token"`
}

// ItemData 商品
type ItemData struct {
	SKU          string `json:"sku"`
	StockKg      string `json:"stock_kg"`
	MinStockKg   string `json:"min_stock_kg"`
	NeedsRestock bool   `json:"needs_restock"`
}

// CommandData 命令执行结果
type CommandData struct {
	Message string    `json:"message"`
	Item    *ItemData `json:"item"`
}

var client = &http.Client{Timeout: Timeout}

// Do 发送请求并解析统一响应
func Do(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	return Do(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return Do(t, http.MethodGet, url, nil, token)
}

// Unique 时间戳后缀，保证重复运行时邮箱和SKU不冲突
func Unique(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()%1e10)
}

// LoginTestStaff 注册并登录测试店员，返回Access Token
func LoginTestStaff(t *testing.T, name string) (email, token string) {
	t.Helper()

	email = Unique(name) + "@test.com"
	resp := PostJSON(t, BaseURL+"/staff/register", map[string]string{
		"email": email, "password": "Test1234", "name": name,
	}, "")
	require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

	resp = PostJSON(t, BaseURL+"/staff/login", map[string]string{
		"email": email, "password": "Test1234",
	}, "")
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析登录响应失败")
	return email, data.AccessToken
}

// CreateTestProduct 新增测试商品并返回SKU
func CreateTestProduct(t *testing.T, token, stockKg string) string {
	t.Helper()

	sku := Unique("IT")
	resp := PostJSON(t, BaseURL+"/inventory/products", map[string]string{
		"sku": sku, "name": "集成测试咖啡豆", "grain_type": "AR", "stock_kg": stockKg, "min_stock_kg": "1",
	}, token)
	require.Equal(t, 0, resp.Code, "新增商品失败: %s", resp.Message)
	return sku
}

// StockOf 查询商品当前库存
func StockOf(t *testing.T, token, sku string) string {
	t.Helper()

	resp := GetJSON(t, BaseURL+"/inventory/items/"+sku, token)
	require.Equal(t, 0, resp.Code, "查询商品失败: %s", resp.Message)

	var item ItemData
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	return item.StockKg
}
