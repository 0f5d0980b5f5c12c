//go:build integration

// Package integration 针对运行中服务的黑盒测试
//
// 运行方式：
//
//	go run ./cmd/api &
//	go test -tags=integration ./test/integration/...
//
// 服务地址默认 http://localhost:8080，可用 LIBRARY_BASE_URL 覆盖。
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

// BaseURL 被测服务地址
var BaseURL = func() string {
	if u := os.Getenv("LIBRARY_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}()

// ErrorBody 错误响应
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// BookData 图书
type BookData struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	IsBorrowed bool   `json:"is_borrowed"`
	BorrowerID *uint  `json:"borrower_id"`
}

// UserData 用户
type UserData struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Detail 操作确认
type Detail struct {
	Detail string `json:"detail"`
}

var client = &http.Client{Timeout: Timeout}

// Do 发送请求，返回状态码和响应体
func Do(t *testing.T, method, path string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "JSON序列化失败")
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, BaseURL+path, reader)
	require.NoError(t, err, "创建HTTP请求失败")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败，服务是否已启动？")
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")
	return resp.StatusCode, data
}

// DoJSON 发送请求并把响应体解析到out
func DoJSON(t *testing.T, method, path string, body, out interface{}) int {
	t.Helper()

	status, data := Do(t, method, path, body)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), "解析JSON响应失败: %s", string(data))
	}
	return status
}

// UniqueName 生成唯一的用户名，避免重复运行时重名
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// CreateTestBook 创建测试图书
func CreateTestBook(t *testing.T, title, author string) BookData {
	t.Helper()

	var b BookData
	status := DoJSON(t, http.MethodPost, "/books", map[string]string{"title": title, "author": author}, &b)
	require.Equal(t, http.StatusOK, status)
	require.NotZero(t, b.ID)
	return b
}

// CreateTestUser 创建测试用户
func CreateTestUser(t *testing.T, prefix string) UserData {
	t.Helper()

	var u UserData
	status := DoJSON(t, http.MethodPost, "/users", map[string]string{"name": UniqueName(prefix)}, &u)
	require.Equal(t, http.StatusOK, status)
	require.NotZero(t, u.ID)
	return u
}
