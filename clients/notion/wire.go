package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"planbackend/models"
)

// Property types the task mapping understands. Other page properties are dropped while decoding.
const (
	propertyTitle    = "title"
	propertyRichText = "rich_text"
	propertyDate     = "date"
	propertyStatus   = "status"
	propertySelect   = "select"
	propertyCheckbox = "checkbox"
)

type wireRichText struct {
	PlainText string `json:"plain_text"`
}

func plainText(parts []wireRichText) string {
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(part.PlainText)
	}
	return sb.String()
}

type wireOption struct {
	Name string `json:"name"`
}

type wireDate struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

type wirePageProperty struct {
	Type     string         `json:"type"`
	Title    []wireRichText `json:"title"`
	RichText []wireRichText `json:"rich_text"`
	Date     *wireDate      `json:"date"`
	Status   *wireOption    `json:"status"`
	Select   *wireOption    `json:"select"`
	Checkbox bool           `json:"checkbox"`
}

type wireParent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id"`
}

type wirePage struct {
	ID         string           `json:"id"`
	URL        string           `json:"url"`
	Archived   bool             `json:"archived"`
	Parent     wireParent       `json:"parent"`
	Properties orderedRawObject `json:"properties"`
}

func (p wirePage) toModel() models.NotionPage {
	page := models.NotionPage{
		ID:         p.ID,
		URL:        p.URL,
		DatabaseID: p.Parent.DatabaseID,
		Archived:   p.Archived,
	}

	for _, field := range p.Properties {
		var property wirePageProperty
		if err := json.Unmarshal(field.Value, &property); err != nil {
			continue
		}

		decoded := models.NotionProperty{Name: field.Name, Type: property.Type}
		switch property.Type {
		case propertyTitle:
			decoded.Text = plainText(property.Title)
		case propertyRichText:
			decoded.Text = plainText(property.RichText)
		case propertyDate:
			if property.Date != nil {
				decoded.Date = &models.NotionDate{Start: property.Date.Start}
				if property.Date.End != nil {
					decoded.Date.End = *property.Date.End
				}
			}
		case propertyStatus:
			if property.Status != nil {
				decoded.Option = property.Status.Name
			}
		case propertySelect:
			if property.Select != nil {
				decoded.Option = property.Select.Name
			}
		case propertyCheckbox:
			decoded.Checkbox = property.Checkbox
		default:
			continue
		}

		page.Properties = append(page.Properties, decoded)
	}

	return page
}

type wireSchemaProperty struct {
	Type string `json:"type"`
}

type wireDatabase struct {
	ID         string           `json:"id"`
	URL        string           `json:"url"`
	Title      []wireRichText   `json:"title"`
	Properties orderedRawObject `json:"properties"`
}

func (d wireDatabase) toModel() models.NotionDatabase {
	database := models.NotionDatabase{
		ID:            d.ID,
		URL:           d.URL,
		Title:         plainText(d.Title),
		PropertyTypes: map[string]string{},
	}

	for _, field := range d.Properties {
		var property wireSchemaProperty
		if err := json.Unmarshal(field.Value, &property); err != nil || property.Type == "" {
			continue
		}
		database.PropertyNames = append(database.PropertyNames, field.Name)
		database.PropertyTypes[field.Name] = property.Type
	}

	return database
}

type orderedField struct {
	Name  string
	Value json.RawMessage
}

// orderedRawObject decodes a JSON object keeping its keys in document order.
// Notion property order decides which property is "first" of a type.
type orderedRawObject []orderedField

func (o *orderedRawObject) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	token, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", token)
	}

	var fields orderedRawObject
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyToken.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyToken)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		fields = append(fields, orderedField{Name: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = fields
	return nil
}
