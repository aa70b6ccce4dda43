package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		totalCount int64
		want       Pagination
	}{
		{
			name: "middle page", page: 2, pageSize: 10, totalCount: 45,
			want: Pagination{CurrentPage: 2, TotalPages: 5, TotalCount: 45, PageSize: 10, HasNext: true, HasPrevious: true},
		},
		{
			name: "first page", page: 1, pageSize: 10, totalCount: 45,
			want: Pagination{CurrentPage: 1, TotalPages: 5, TotalCount: 45, PageSize: 10, HasNext: true, HasPrevious: false},
		},
		{
			name: "last page", page: 5, pageSize: 10, totalCount: 45,
			want: Pagination{CurrentPage: 5, TotalPages: 5, TotalCount: 45, PageSize: 10, HasNext: false, HasPrevious: true},
		},
		{
			name: "empty result still has one page", page: 1, pageSize: 10, totalCount: 0,
			want: Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 0, PageSize: 10, HasNext: false, HasPrevious: false},
		},
		{
			name: "exact multiple", page: 2, pageSize: 10, totalCount: 20,
			want: Pagination{CurrentPage: 2, TotalPages: 2, TotalCount: 20, PageSize: 10, HasNext: false, HasPrevious: true},
		},
		{
			name: "invalid inputs fall back to defaults", page: 0, pageSize: -5, totalCount: 3,
			want: Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 3, PageSize: DefaultPageSize, HasNext: false, HasPrevious: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.pageSize, tt.totalCount))
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 20, 40, 20},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"oversized page size falls back", 2, MaxPageSize + 1, 10, DefaultPageSize},
		{"zero size falls back", 2, 0, 10, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, DefaultPageSize},
		{"explicit values", "page=3&pageSize=25", 3, 25},
		{"garbage falls back", "page=abc&pageSize=xyz", 1, DefaultPageSize},
		{"negative page falls back", "page=-2&pageSize=50", 1, 50},
		{"oversized page size falls back", "page=2&pageSize=500", 2, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			page, size := ParsePaginationParams(c)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}
