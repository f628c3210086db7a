package models

// NotionPage is the subset of a Notion page the task mapping reads.
// Properties keep the order Notion returned them in.
type NotionPage struct {
	ID         string
	URL        string
	DatabaseID string
	Archived   bool
	Properties []NotionProperty
}

// Property returns the named property
func (p *NotionPage) Property(name string) (NotionProperty, bool) {
	for _, property := range p.Properties {
		if property.Name == name {
			return property, true
		}
	}
	return NotionProperty{}, false
}

// FirstPropertyOfType returns the first property with the given Notion type
func (p *NotionPage) FirstPropertyOfType(propertyType string) (NotionProperty, bool) {
	for _, property := range p.Properties {
		if property.Type == propertyType {
			return property, true
		}
	}
	return NotionProperty{}, false
}

// NotionProperty is a decoded page property. Only the field matching Type is set.
type NotionProperty struct {
	Name string
	Type string
	// Text is the plain text of title and rich_text properties
	Text string
	Date *NotionDate
	// Option is the selected name of status and select properties
	Option   string
	Checkbox bool
}

type NotionDate struct {
	Start string
	End   string
}

type NotionDatabase struct {
	ID    string
	Title string
	URL   string
	// PropertyNames keeps schema order, PropertyTypes maps a name to its Notion type
	PropertyNames []string
	PropertyTypes map[string]string
}

// FirstPropertyOfType returns the name of the first property with the given type
func (d *NotionDatabase) FirstPropertyOfType(propertyType string) (string, bool) {
	for _, name := range d.PropertyNames {
		if d.PropertyTypes[name] == propertyType {
			return name, true
		}
	}
	return "", false
}

// Cursor-paginated Notion results
type NotionDatabaseList struct {
	Databases  []NotionDatabase
	NextCursor string
	HasMore    bool
}

type NotionPageList struct {
	Pages      []NotionPage
	NextCursor string
	HasMore    bool
}

// SlackStarredMessage is a starred item of type "message"
type SlackStarredMessage struct {
	Channel   string
	TS        string
	Text      string
	User      string
	Permalink string
}

// GoogleEvent is the subset of a Google Calendar event the task projection reads.
// All-day events set StartDate/EndDate, timed events set StartDateTime/EndDateTime.
type GoogleEvent struct {
	ID            string
	Summary       string
	Description   string
	HTMLLink      string
	Status        string
	StartDate     string
	StartDateTime string
	EndDate       string
	EndDateTime   string
}
