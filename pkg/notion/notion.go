package notion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expensebot/pkg/expense"

	"github.com/jomei/notionapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vmkteam/embedlog"
)

var ErrPropertyType = errors.New("notion: unexpected property type")

var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "notion_request_duration_seconds",
		Help:    "Duration of Notion API requests in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5},
	},
	[]string{"operation", "status"},
)

// Properties holds the column names of the expense database.
type Properties struct {
	Name     string `default:"Название"`
	Price    string `default:"Цена"`
	Category string `default:"Категория"`
	Date     string `default:"Дата"`
	Comment  string `default:"Комментарий"`
}

// DefaultProperties returns the column names used by the expense template.
func DefaultProperties() Properties {
	return Properties{
		Name:     "Название",
		Price:    "Цена",
		Category: "Категория",
		Date:     "Дата",
		Comment:  "Комментарий",
	}
}

type Config struct {
	Token      string `required:"true"`
	DatabaseID string `split_words:"true" required:"true"`
	Properties Properties
}

// Client stores expenses and their categories in one Notion database.
type Client struct {
	api    *notionapi.Client
	dbID   notionapi.DatabaseID
	props  Properties
	logger embedlog.Logger
}

func New(cfg Config, logger embedlog.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("notion token is required")
	}
	if cfg.DatabaseID == "" {
		return nil, errors.New("notion database id is required")
	}

	return &Client{
		api:    notionapi.NewClient(notionapi.Token(cfg.Token)),
		dbID:   notionapi.DatabaseID(cfg.DatabaseID),
		props:  withDefaults(cfg.Properties),
		logger: logger,
	}, nil
}

// Categories returns option names of the category multi-select property.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	options, err := c.categoryOptions(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}

	return names, nil
}

// AppendCategory adds name to the category options.
// Current options are re-read and sent back, Notion drops options missing from the update.
func (c *Client) AppendCategory(ctx context.Context, name string) error {
	options, err := c.categoryOptions(ctx)
	if err != nil {
		return err
	}

	for _, opt := range options {
		if opt.Name == name {
			return nil
		}
	}

	options = append(options, notionapi.Option{Name: name, Color: notionapi.ColorDefault})

	start := time.Now()
	_, err = c.api.Database.Update(ctx, c.dbID, &notionapi.DatabaseUpdateRequest{
		Properties: notionapi.PropertyConfigs{
			c.props.Category: notionapi.MultiSelectPropertyConfig{
				Type:        notionapi.PropertyConfigTypeMultiSelect,
				MultiSelect: notionapi.Select{Options: options},
			},
		},
	})
	observe("update_database", start, err)
	if err != nil {
		return fmt.Errorf("failed to update database: %w", err)
	}

	return nil
}

// CreateRecord creates a page in the expense database.
func (c *Client) CreateRecord(ctx context.Context, rec expense.Record) error {
	if _, err := expense.ParseISODate(rec.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", rec.Date, err)
	}

	comment := []notionapi.RichText{}
	if rec.Comment != "" {
		comment = richText(rec.Comment)
	}

	reqStart := time.Now()
	_, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: c.dbID,
		},
		Properties: notionapi.Properties{
			c.props.Name: notionapi.TitleProperty{
				Title: richText(rec.Name),
			},
			c.props.Price: notionapi.NumberProperty{
				Number: rec.Price.InexactFloat64(),
			},
			c.props.Category: notionapi.MultiSelectProperty{
				MultiSelect: []notionapi.Option{{Name: rec.Category}},
			},
			c.props.Date: calendarDateProperty{
				Type: notionapi.PropertyTypeDate,
				Date: calendarDate{Start: rec.Date},
			},
			c.props.Comment: notionapi.RichTextProperty{
				RichText: comment,
			},
		},
	})
	observe("create_page", reqStart, err)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable with the configured token.
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	_, err := c.api.Database.Get(ctx, c.dbID)
	observe("get_database", start, err)

	return err
}

func (c *Client) categoryOptions(ctx context.Context) ([]notionapi.Option, error) {
	start := time.Now()
	db, err := c.api.Database.Get(ctx, c.dbID)
	observe("get_database", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}

	return multiSelectOptions(db.Properties, c.props.Category)
}

func multiSelectOptions(props notionapi.PropertyConfigs, name string) ([]notionapi.Option, error) {
	switch p := props[name].(type) {
	case *notionapi.MultiSelectPropertyConfig:
		return p.MultiSelect.Options, nil
	case notionapi.MultiSelectPropertyConfig:
		return p.MultiSelect.Options, nil
	case nil:
		return nil, fmt.Errorf("%w: property %q not found", ErrPropertyType, name)
	default:
		return nil, fmt.Errorf("%w: property %q must be multi_select, got %s", ErrPropertyType, name, p.GetType())
	}
}

// calendarDateProperty is a date property without time.
// notionapi.Date always marshals as RFC3339, which Notion shows as a datetime in UTC.
type calendarDateProperty struct {
	Type notionapi.PropertyType `json:"type"`
	Date calendarDate           `json:"date"`
}

type calendarDate struct {
	Start string `json:"start"` // yyyy-mm-dd
}

func (p calendarDateProperty) GetID() string                   { return "" }
func (p calendarDateProperty) GetType() notionapi.PropertyType { return p.Type }

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}}
}

// withDefaults fills empty names for configs built in code, env configs get them from default tags.
func withDefaults(p Properties) Properties {
	def := DefaultProperties()
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.Price == "" {
		p.Price = def.Price
	}
	if p.Category == "" {
		p.Category = def.Category
	}
	if p.Date == "" {
		p.Date = def.Date
	}
	if p.Comment == "" {
		p.Comment = def.Comment
	}
	return p
}

func observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	requestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

var (
	_ expense.CategoryStore = (*Client)(nil)
	_ expense.RecordStore   = (*Client)(nil)
)
