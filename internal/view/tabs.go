package view

import "strconv"

// Tab identifies a section below the product summary.
type Tab int

// Tabs in display order.
const (
	TabFeatures Tab = iota
	TabSizeGuide
	TabShipping
	TabReviews
)

var tabLabels = [...]string{
	TabFeatures:  "Features",
	TabSizeGuide: "Size guide",
	TabShipping:  "Shipping",
	TabReviews:   "Reviews",
}

// TabInfo describes one tab for the navigation bar.
type TabInfo struct {
	Index  Tab
	Label  string
	Active bool
}

// ParseTab reads a tab index from a query value. Missing or out of range
// values select the first tab.
func ParseTab(s string) Tab {
	n, err := strconv.Atoi(s)
	if err != nil {
		return TabFeatures
	}
	return Tab(n).normalize()
}

func (t Tab) normalize() Tab {
	if t < TabFeatures || t > TabReviews {
		return TabFeatures
	}
	return t
}

// Label returns the tab caption.
func (t Tab) Label() string {
	return tabLabels[t.normalize()]
}

// AllTabs lists every tab, marking active as selected.
func AllTabs(active Tab) []TabInfo {
	active = active.normalize()
	tabs := make([]TabInfo, 0, len(tabLabels))
	for i, label := range tabLabels {
		tabs = append(tabs, TabInfo{Index: Tab(i), Label: label, Active: Tab(i) == active})
	}
	return tabs
}
