// Package datatables speaks the legacy server side protocol of the DataTables
// jQuery plugin (sEcho, iDisplayStart, aaData...).
package datatables

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultLength is used when the table does not send iDisplayLength.
const DefaultLength = 10

// Request holds the paging, search and sorting parameters of one draw.
type Request struct {
	Echo       string
	Search     string
	Start      int
	Length     int
	SortColumn int
	SortDesc   bool
	Sorted     bool
}

// Response is the JSON envelope expected by the table.
type Response struct {
	Echo                string     `json:"sEcho"`
	TotalRecords        int        `json:"iTotalRecords"`
	TotalDisplayRecords int        `json:"iTotalDisplayRecords"`
	Data                [][]string `json:"aaData"`
}

// ParseRequest reads the draw parameters from the query string.
func ParseRequest(c *fiber.Ctx) Request {
	req := Request{
		Echo:   c.Query("sEcho"),
		Search: strings.TrimSpace(c.Query("sSearch")),
		Start:  c.QueryInt("iDisplayStart", 0),
		Length: c.QueryInt("iDisplayLength", DefaultLength),
	}
	if req.Start < 0 {
		req.Start = 0
	}
	if req.Length <= 0 {
		req.Length = DefaultLength
	}
	if col := c.Query("iSortCol_0"); col != "" {
		if n, err := strconv.Atoi(col); err == nil && n >= 0 {
			req.SortColumn = n
			req.Sorted = true
			req.SortDesc = strings.EqualFold(c.Query("sSortDir_0"), "desc")
		}
	}
	return req
}

// NewResponse builds the envelope. total counts every record, display counts
// the records matching the search.
func NewResponse(req Request, total, display int, rows [][]string) Response {
	if rows == nil {
		rows = [][]string{}
	}
	if req.Sorted {
		SortRows(rows, req.SortColumn, req.SortDesc)
	}
	return Response{
		Echo:                req.Echo,
		TotalRecords:        total,
		TotalDisplayRecords: display,
		Data:                rows,
	}
}

// SortRows orders rows by column, case insensitively. Rows too short for the
// column sort first.
func SortRows(rows [][]string, column int, desc bool) {
	cell := func(row []string) string {
		if column < len(row) {
			return strings.ToLower(row[column])
		}
		return ""
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return cell(rows[i]) > cell(rows[j])
		}
		return cell(rows[i]) < cell(rows[j])
	})
}
