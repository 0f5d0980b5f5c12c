package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/library/internal/application/book"
	applending "github.com/xiebiao/library/internal/application/lending"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/pkg/keylock"
)

// =========================================
// 测试辅助
// =========================================

// Book 图书响应
type Book struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	IsBorrowed bool   `json:"is_borrowed"`
	BorrowerID *uint  `json:"borrower_id"`
}

// User 用户响应
type User struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ErrorBody 错误响应
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// newTestServer 组装完整的服务（临时sqlite数据库 + 进程内锁）
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "library.db"),
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}

	db, err := gormdb.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	locker := keylock.NewMemoryLocker()
	bookRepo := gormdb.NewBookRepository(db)
	userRepo := gormdb.NewUserRepository(db)

	bookService := book.NewService(bookRepo, locker)
	userService := user.NewService(userRepo, locker)
	lendingService := lending.NewService(bookRepo, userRepo, gormdb.NewTxManager(db), locker)

	return New(cfg,
		handler.NewBookHandler(
			appbook.NewCreateBookUseCase(bookService),
			appbook.NewGetBookUseCase(bookService),
			appbook.NewListBooksUseCase(bookService),
			appbook.NewUpdateBookUseCase(bookService),
			appbook.NewDeleteBookUseCase(bookService),
		),
		handler.NewUserHandler(
			appuser.NewCreateUserUseCase(userService),
			appuser.NewGetUserUseCase(userService),
			appuser.NewListUsersUseCase(userService),
		),
		handler.NewLendingHandler(
			applending.NewBorrowBookUseCase(lendingService),
			applending.NewReturnBookUseCase(lendingService),
		),
	)
}

// do 发送请求，body为string时原样发送，其他类型编码为JSON
func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		data, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createBook(t *testing.T, r *gin.Engine, title, author string) Book {
	t.Helper()
	w := do(t, r, http.MethodPost, "/books", map[string]string{"title": title, "author": author})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[Book](t, w)
}

func createUser(t *testing.T, r *gin.Engine, name string) User {
	t.Helper()
	w := do(t, r, http.MethodPost, "/users", map[string]string{"name": name})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[User](t, w)
}

func getBook(t *testing.T, r *gin.Engine, id uint) Book {
	t.Helper()
	w := do(t, r, http.MethodGet, fmt.Sprintf("/books/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[Book](t, w)
}

func borrow(t *testing.T, r *gin.Engine, bookID, userID uint) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, r, http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=%d", bookID, userID), nil)
}

func giveBack(t *testing.T, r *gin.Engine, bookID uint) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, r, http.MethodPost, fmt.Sprintf("/books/%d/return", bookID), nil)
}

// =========================================
// 端到端场景
// =========================================

// TestEndToEnd_DuneAndBob 新建图书和用户 → 借出 → 重复借出 → 归还 → 重复归还
func TestEndToEnd_DuneAndBob(t *testing.T) {
	r := newTestServer(t)

	dune := createBook(t, r, "Dune", "Herbert")
	assert.Equal(t, uint(1), dune.ID)
	assert.False(t, dune.IsBorrowed)
	assert.Nil(t, dune.BorrowerID)

	bob := createUser(t, r, "Bob")
	assert.Equal(t, uint(1), bob.ID)
	assert.Equal(t, "Bob", bob.Name)

	w := borrow(t, r, 1, 1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"detail":"Book borrowed"}`, w.Body.String())

	got := getBook(t, r, 1)
	assert.True(t, got.IsBorrowed)
	require.NotNil(t, got.BorrowerID)
	assert.Equal(t, uint(1), *got.BorrowerID)

	w = borrow(t, r, 1, 1)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Book already borrowed", decode[ErrorBody](t, w).Message)

	w = giveBack(t, r, 1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"detail":"Book returned"}`, w.Body.String())

	got = getBook(t, r, 1)
	assert.False(t, got.IsBorrowed)
	assert.Nil(t, got.BorrowerID)

	w = giveBack(t, r, 1)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Book is not borrowed", decode[ErrorBody](t, w).Message)

	t.Log("✓ 借阅流程验证通过")
}

// =========================================
// 图书
// =========================================

func TestCreateBook(t *testing.T) {
	r := newTestServer(t)

	t.Run("新书在架且ID唯一", func(t *testing.T) {
		seen := map[uint]bool{}
		for i := 0; i < 5; i++ {
			b := createBook(t, r, fmt.Sprintf("Book %d", i), "Author")
			assert.False(t, b.IsBorrowed)
			assert.Nil(t, b.BorrowerID)
			assert.False(t, seen[b.ID], "ID重复: %d", b.ID)
			seen[b.ID] = true
		}
	})

	t.Run("请求中的借阅状态被忽略", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/books", map[string]interface{}{
			"title": "Emma", "author": "Austen", "is_borrowed": true, "borrower_id": 3,
		})
		require.Equal(t, http.StatusOK, w.Code)
		b := decode[Book](t, w)
		assert.False(t, b.IsBorrowed)
		assert.Nil(t, b.BorrowerID)
	})

	invalid := []struct {
		name string
		body interface{}
	}{
		{"缺少title", map[string]string{"author": "Herbert"}},
		{"缺少author", map[string]string{"title": "Dune"}},
		{"title类型错误", map[string]interface{}{"title": 123, "author": "Herbert"}},
		{"title为空", map[string]string{"title": "", "author": "Herbert"}},
		{"title全为空白", map[string]string{"title": "   ", "author": "Herbert"}},
		{"非JSON", "not json"},
	}
	t.Run("长书名和作者", func(t *testing.T) {
		title := strings.Repeat("书", 1000)
		author := strings.Repeat("a", 500)
		b := createBook(t, r, title, author)
		assert.Equal(t, title, getBook(t, r, b.ID).Title, "不截断")
		assert.Equal(t, author, b.Author)
	})

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/books", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Equal(t, 42200, decode[ErrorBody](t, w).Code)
		})
	}
}

func TestListBooks(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String(), "空列表返回[]而不是null")

	createBook(t, r, "Dune", "Herbert")
	createBook(t, r, "Emma", "Austen")
	createBook(t, r, "Persuasion", "Austen")

	t.Run("全部", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/books", nil)
		require.Equal(t, http.StatusOK, w.Code)
		books := decode[[]Book](t, w)
		require.Len(t, books, 3)
		assert.Equal(t, "Dune", books[0].Title)
		assert.Equal(t, "3", w.Header().Get("X-Total-Count"))
	})

	t.Run("分页与关键词", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/books?keyword=Austen&page=2&page_size=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		books := decode[[]Book](t, w)
		require.Len(t, books, 1)
		assert.Equal(t, "Persuasion", books[0].Title)
		assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
	})

	t.Run("关键词中的通配符按字面匹配", func(t *testing.T) {
		createBook(t, r, "100% Pure", "Anon")

		w := do(t, r, http.MethodGet, "/books?keyword=%25", nil)
		require.Equal(t, http.StatusOK, w.Code)
		books := decode[[]Book](t, w)
		require.Len(t, books, 1)
		assert.Equal(t, "100% Pure", books[0].Title)

		w = do(t, r, http.MethodGet, "/books?keyword=_", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("非法分页参数", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/books?page_size=1000", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestGetBook(t *testing.T) {
	r := newTestServer(t)
	createBook(t, r, "Dune", "Herbert")

	w := do(t, r, http.MethodGet, "/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"Herbert","is_borrowed":false,"borrower_id":null}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/books/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorBody{Code: 40401, Message: "Book not found"}, decode[ErrorBody](t, w))

	for _, id := range []string{"abc", "-1"} {
		w = do(t, r, http.MethodGet, "/books/"+id, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "id=%s", id)
	}
}

func TestUpdateBook(t *testing.T) {
	r := newTestServer(t)
	b := createBook(t, r, "Dune", "Herbert")
	bob := createUser(t, r, "Bob")

	t.Run("只修改title", func(t *testing.T) {
		w := do(t, r, http.MethodPut, fmt.Sprintf("/books/%d", b.ID), map[string]string{"title": "New Title"})
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[Book](t, w)
		assert.Equal(t, "New Title", got.Title)
		assert.Equal(t, "Herbert", got.Author)
		assert.Equal(t, got, getBook(t, r, b.ID))
	})

	t.Run("不影响借阅状态", func(t *testing.T) {
		require.Equal(t, http.StatusOK, borrow(t, r, b.ID, bob.ID).Code)

		w := do(t, r, http.MethodPut, fmt.Sprintf("/books/%d", b.ID), map[string]interface{}{
			"author": "Frank Herbert", "is_borrowed": false,
		})
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[Book](t, w)
		assert.Equal(t, "Frank Herbert", got.Author)
		assert.True(t, got.IsBorrowed)
		require.NotNil(t, got.BorrowerID)
		assert.Equal(t, bob.ID, *got.BorrowerID)
	})

	t.Run("不存在", func(t *testing.T) {
		w := do(t, r, http.MethodPut, "/books/99", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("空title", func(t *testing.T) {
		w := do(t, r, http.MethodPut, fmt.Sprintf("/books/%d", b.ID), map[string]string{"title": ""})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "New Title", getBook(t, r, b.ID).Title)
	})
}

func TestDeleteBook(t *testing.T) {
	r := newTestServer(t)
	b := createBook(t, r, "Dune", "Herbert")
	bob := createUser(t, r, "Bob")
	require.Equal(t, http.StatusOK, borrow(t, r, b.ID, bob.ID).Code)

	// 已借出的图书也可以删除
	w := do(t, r, http.MethodDelete, fmt.Sprintf("/books/%d", b.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"detail":"Book deleted"}`, w.Body.String())

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/books/%d", b.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "重复删除")

	w = do(t, r, http.MethodDelete, "/books/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/books/%d", b.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 用户不受影响
	w = do(t, r, http.MethodGet, fmt.Sprintf("/users/%d", bob.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// =========================================
// 用户
// =========================================

func TestCreateUser(t *testing.T) {
	r := newTestServer(t)

	alice := createUser(t, r, "  Alice  ")
	assert.Equal(t, "Alice", alice.Name, "存储去除空白后的名字")

	t.Run("去除空白后重名", func(t *testing.T) {
		for _, name := range []string{"Alice", "  Alice  "} {
			w := do(t, r, http.MethodPost, "/users", map[string]string{"name": name})
			assert.Equal(t, http.StatusConflict, w.Code, "name=%q", name)
			assert.Equal(t, 40901, decode[ErrorBody](t, w).Code)
		}
	})

	invalid := []struct {
		name string
		body interface{}
	}{
		{"缺少name", map[string]string{}},
		{"name类型错误", map[string]interface{}{"name": 1}},
		{"name为空", map[string]string{"name": ""}},
		{"name全为空白", map[string]string{"name": "   "}},
		{"超长空白", map[string]string{"name": string(bytes.Repeat([]byte(" "), 500))}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/users", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		})
	}

	t.Run("列表", func(t *testing.T) {
		createUser(t, r, "Bob")
		w := do(t, r, http.MethodGet, "/users", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]`, w.Body.String())
	})

	t.Run("详情", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/users/99", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decode[ErrorBody](t, w).Message)
	})

	t.Run("没有修改和删除接口", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/users/1", nil).Code)
		assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/users/1", map[string]string{"name": "x"}).Code)
	})
}

// TestCreateUser_ExactName 名字去除空白后按原样比较，不限制长度
func TestCreateUser_ExactName(t *testing.T) {
	r := newTestServer(t)
	alice := createUser(t, r, "Alice")

	t.Run("大小写不同不算重名", func(t *testing.T) {
		u := createUser(t, r, "alice")
		assert.Equal(t, "alice", u.Name)
		assert.NotEqual(t, alice.ID, u.ID)
	})

	t.Run("重音字符不同不算重名", func(t *testing.T) {
		createUser(t, r, "Zoe")
		assert.Equal(t, "Zoë", createUser(t, r, "Zoë").Name)
	})

	t.Run("长名字", func(t *testing.T) {
		name := strings.Repeat("名", 300)
		assert.Equal(t, name, createUser(t, r, name).Name)

		w := do(t, r, http.MethodPost, "/users", map[string]string{"name": " " + name + " "})
		assert.Equal(t, http.StatusConflict, w.Code, "长名字同样检查重名")
	})
}

// =========================================
// 借阅
// =========================================

func TestBorrow_Errors(t *testing.T) {
	r := newTestServer(t)
	b := createBook(t, r, "Dune", "Herbert")
	bob := createUser(t, r, "Bob")

	t.Run("图书不存在", func(t *testing.T) {
		w := borrow(t, r, 99, bob.ID)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Book not found", decode[ErrorBody](t, w).Message)
	})

	t.Run("用户不存在", func(t *testing.T) {
		w := borrow(t, r, b.ID, 99)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decode[ErrorBody](t, w).Message)
		assert.False(t, getBook(t, r, b.ID).IsBorrowed)
	})

	t.Run("归还从未借出的图书", func(t *testing.T) {
		fresh := createBook(t, r, "Middlemarch", "Eliot")
		w := giveBack(t, r, fresh.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 40002, decode[ErrorBody](t, w).Code)

		got := getBook(t, r, fresh.ID)
		assert.False(t, got.IsBorrowed)
		assert.Nil(t, got.BorrowerID)
	})

	t.Run("缺少user_id", func(t *testing.T) {
		w := do(t, r, http.MethodPost, fmt.Sprintf("/books/%d/borrow", b.ID), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("user_id非数字", func(t *testing.T) {
		w := do(t, r, http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=abc", b.ID), nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("其他用户借已借出的书", func(t *testing.T) {
		alice := createUser(t, r, "Alice")
		require.Equal(t, http.StatusOK, borrow(t, r, b.ID, bob.ID).Code)

		w := borrow(t, r, b.ID, alice.ID)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, bob.ID, *getBook(t, r, b.ID).BorrowerID, "状态不变")
	})

	t.Run("同一用户可以借多本书", func(t *testing.T) {
		other := createBook(t, r, "Emma", "Austen")
		assert.Equal(t, http.StatusOK, borrow(t, r, other.ID, bob.ID).Code)
	})

	t.Run("归还不存在的图书", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, giveBack(t, r, 99).Code)
	})
}

// TestBorrow_ConcurrentHTTP 并发借同一本书只有一个200
func TestBorrow_ConcurrentHTTP(t *testing.T) {
	r := newTestServer(t)
	b := createBook(t, r, "Dune", "Herbert")

	const n = 8
	userIDs := make([]uint, n)
	for i := range userIDs {
		userIDs[i] = createUser(t, r, fmt.Sprintf("user-%d", i)).ID
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for _, id := range userIDs {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=%d", b.ID, userID), nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			mu.Lock()
			codes[w.Code]++
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, codes[http.StatusOK])
	assert.Equal(t, n-1, codes[http.StatusBadRequest])
	assert.True(t, getBook(t, r, b.ID).IsBorrowed)
}

// =========================================
// 基础路由
// =========================================

func TestInfraRoutes(t *testing.T) {
	r := newTestServer(t)

	w := do(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	createBook(t, r, "Dune", "Herbert")
	w = do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = do(t, r, http.MethodGet, "/swagger/doc.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/books/{id}/borrow")

	w = do(t, r, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, decode[ErrorBody](t, w).Code)
}
