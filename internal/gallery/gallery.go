// Package gallery builds the card gallery view from a Drive file listing
// and the spreadsheet rows. It is a pure in-memory transform with no I/O.
package gallery

import (
	"sort"
	"strings"
	"time"

	"cardsync/internal/cards"
	"cardsync/internal/drive"
)

// PageSize is the fixed number of cards per gallery page.
const PageSize = 8

// Item is the view model for one card in the gallery.
type Item struct {
	FileID            string `json:"fileId"`
	Name              string `json:"name"`
	MimeType          string `json:"mimeType"`
	WebViewLink       string `json:"webViewLink,omitempty"`
	ThumbnailLink     string `json:"thumbnailLink,omitempty"`
	Memo              string `json:"memo"`
	SheetModifiedDate string `json:"sheetModifiedDate,omitempty"`
	DriveModifiedTime string `json:"driveModifiedTime,omitempty"`
}

// Page is one page of the gallery plus paging metadata.
type Page struct {
	Items      []Item `json:"items"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	TotalItems int    `json:"totalItems"`
}

// Build joins the Drive listing with the sheet rows. Rows are matched by
// file id; rows written before ids were recorded fall back to the display
// filename. Items are sorted by effective modification time, newest first.
func Build(files []drive.File, rows []cards.Row) []Item {
	byID := make(map[string]cards.Row, len(rows))
	byName := make(map[string]cards.Row, len(rows))
	for _, row := range rows {
		if row.FileID != "" {
			byID[row.FileID] = row
		} else if row.FileName != "" {
			byName[row.FileName] = row
		}
	}

	items := make([]Item, 0, len(files))
	for _, f := range files {
		item := Item{
			FileID:            f.ID,
			Name:              f.Name,
			MimeType:          f.MimeType,
			WebViewLink:       f.WebViewLink,
			ThumbnailLink:     f.ThumbnailLink,
			DriveModifiedTime: f.ModifiedTime,
		}
		row, ok := byID[f.ID]
		if !ok {
			row, ok = byName[f.Name]
		}
		if ok {
			item.Memo = row.Memo
			item.SheetModifiedDate = row.UpdatedAt
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return effectiveTime(items[i]).After(effectiveTime(items[j]))
	})
	return items
}

// effectiveTime is the sort key: sheet date when present, otherwise the
// Drive modification time, otherwise the zero time.
func effectiveTime(item Item) time.Time {
	if t, err := time.Parse(time.RFC3339, item.SheetModifiedDate); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, item.DriveModifiedTime); err == nil {
		return t
	}
	return time.Time{}
}

// Filter returns items whose name contains term, case-insensitively.
// An empty term returns items unchanged.
func Filter(items []Item, term string) []Item {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Paginate slices items into page number page (1-based). Out-of-range
// pages clamp to the nearest valid page; an empty list yields page 1 of 1.
func Paginate(items []Item, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	totalPages := (len(items) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page{
		Items:      items[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalItems: len(items),
	}
}
