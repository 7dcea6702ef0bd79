package nav

// Link is one entry of the top navigation bar.
type Link struct {
	Label  string
	Href   string
	Active bool
}

// TopNavData is shared with page renderers.
type TopNavData struct {
	Links []Link
}

// BuildTopNavData marks the link whose href matches active.
func BuildTopNavData(active string) TopNavData {
	links := []Link{
		{Label: "Trades", Href: "/trades"},
		{Label: "Reports", Href: "/reports"},
		{Label: "Analytics", Href: "/reports/analytics"},
	}
	for i := range links {
		links[i].Active = links[i].Href == active
	}
	return TopNavData{Links: links}
}
