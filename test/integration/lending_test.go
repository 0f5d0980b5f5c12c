//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLendingFlow 借出、重复借出、归还、重复归还
func TestLendingFlow(t *testing.T) {
	b := CreateTestBook(t, "Dune", "Frank Herbert")
	bob := CreateTestUser(t, "bob")
	alice := CreateTestUser(t, "alice")

	t.Run("借出成功", func(t *testing.T) {
		var d Detail
		status := DoJSON(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=%d", b.ID, bob.ID), nil, &d)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Book borrowed", d.Detail)

		var got BookData
		require.Equal(t, http.StatusOK, DoJSON(t, http.MethodGet, fmt.Sprintf("/books/%d", b.ID), nil, &got))
		assert.True(t, got.IsBorrowed)
		require.NotNil(t, got.BorrowerID)
		assert.Equal(t, bob.ID, *got.BorrowerID)
		t.Logf("✓ 图书%d借给用户%d", b.ID, bob.ID)
	})

	t.Run("已借出不能再借", func(t *testing.T) {
		var e ErrorBody
		status := DoJSON(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=%d", b.ID, alice.ID), nil, &e)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, 40001, e.Code)
	})

	t.Run("归还成功", func(t *testing.T) {
		var d Detail
		status := DoJSON(t, http.MethodPost, fmt.Sprintf("/books/%d/return", b.ID), nil, &d)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Book returned", d.Detail)
	})

	t.Run("未借出不能归还", func(t *testing.T) {
		var e ErrorBody
		status := DoJSON(t, http.MethodPost, fmt.Sprintf("/books/%d/return", b.ID), nil, &e)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, 40002, e.Code)
	})

	t.Run("用户不存在", func(t *testing.T) {
		var e ErrorBody
		status := DoJSON(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=999999999", b.ID), nil, &e)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, 40402, e.Code)
	})
}

// TestConcurrentBorrow 并发借同一本书只有一个成功
func TestConcurrentBorrow(t *testing.T) {
	b := CreateTestBook(t, "Emma", "Jane Austen")

	const n = 10
	users := make([]UserData, n)
	for i := range users {
		users[i] = CreateTestUser(t, "reader")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			status, _ := Do(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=%d", b.ID, userID), nil)
			mu.Lock()
			statuses[status]++
			mu.Unlock()
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, statuses[http.StatusOK], "只能有一个借出成功")
	assert.Equal(t, n-1, statuses[http.StatusBadRequest])
	t.Logf("✓ 并发借书结果: %v", statuses)
}

// TestDeletedBook 删除后的图书不可见也不可借
func TestDeletedBook(t *testing.T) {
	b := CreateTestBook(t, "Persuasion", "Jane Austen")
	u := CreateTestUser(t, "carol")

	require.Equal(t, http.StatusOK, DoJSON(t, http.MethodDelete, fmt.Sprintf("/books/%d", b.ID), nil, nil))

	status, _ := Do(t, http.MethodGet, fmt.Sprintf("/books/%d", b.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = Do(t, http.MethodPost, fmt.Sprintf("/books/%d/borrow?user_id=%d", b.ID, u.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// TestDuplicateUserName 用户名唯一
func TestDuplicateUserName(t *testing.T) {
	name := UniqueName("dave")
	require.Equal(t, http.StatusOK, DoJSON(t, http.MethodPost, "/users", map[string]string{"name": name}, nil))

	var e ErrorBody
	status := DoJSON(t, http.MethodPost, "/users", map[string]string{"name": name}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, 40901, e.Code)
}
