// file: internals/helpers/pagination.go
package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

/* ===============================
   Paging resolver (query → page/limit/offset)
=================================*/

type Paging struct {
	Page   int
	Limit  int
	Offset int
}

// ResolvePaging membaca ?page= & ?limit= (atau alias ?per_page=) dan normalisasi.
// maxPerPage 0 = tanpa batas.
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	page := atoiDefault(c.Query("page"), DefaultPage)
	limitStr := strings.TrimSpace(c.Query("limit"))
	if limitStr == "" {
		limitStr = strings.TrimSpace(c.Query("per_page"))
	}
	return NormalizePaging(page, atoiDefault(limitStr, defaultPerPage), defaultPerPage, maxPerPage)
}

// NormalizePaging dipakai juga di layer service (tanpa fiber ctx).
func NormalizePaging(page, limit, defaultPerPage, maxPerPage int) Paging {
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = defaultPerPage
	}
	if maxPerPage > 0 && limit > maxPerPage {
		limit = maxPerPage
	}
	// offset tidak boleh overflow
	if maxPage := math.MaxInt/limit + 1; page > maxPage {
		page = maxPage
	}
	return Paging{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// TotalPages = ceil(total/limit); 0 kalau tidak ada data.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func BuildPagination(total int64, page, limit, count int) Pagination {
	tp := TotalPages(total, limit)
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: tp,
		HasNext:    page < tp,
		HasPrev:    page > 1,
		Count:      count,
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
