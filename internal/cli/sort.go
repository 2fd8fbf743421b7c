package cli

import (
	"sort"
	"strings"

	"github.com/andrasguseo/wordcamp-gcal/internal/scraper"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPage  SortOrder = "page"
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

func (o SortOrder) valid() bool {
	switch o {
	case SortByPage, SortByDate, SortByTitle:
		return true
	}
	return false
}

// sortLinks sorts links in place. Page order is the order they were found in.
func sortLinks(links []scraper.Link, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(links, func(i, j int) bool {
			return links[i].Session.Start.Before(links[j].Session.Start)
		})
	case SortByTitle:
		sort.SliceStable(links, func(i, j int) bool {
			ti := strings.ToLower(links[i].Session.Title)
			tj := strings.ToLower(links[j].Session.Title)
			if ti != tj {
				return ti < tj
			}
			// Same title, earlier session first
			return links[i].Session.Start.Before(links[j].Session.Start)
		})
	}
}
