package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zeneves1970/ocorrencias/internal/config"
	"github.com/zeneves1970/ocorrencias/internal/models"
)

// ErrFetch wraps any network or HTTP failure talking to the upstream feed.
var ErrFetch = errors.New("feed fetch failed")

const outFields = "OBJECTID,DataInicioOcorrencia,Natureza,Concelho,EstadoAgrupado," +
	"Operacionais,NumeroMeiosTerrestresEnvolvidos,NumeroMeiosAereosEnvolvidos"

// Attributes are the raw upstream fields of one occurrence. OBJECTID is a
// pointer so a record missing its identity can be told apart from id 0.
type Attributes struct {
	ObjectID        *int64 `json:"OBJECTID"`
	DataInicio      string `json:"DataInicioOcorrencia"`
	Natureza        string `json:"Natureza"`
	Concelho        string `json:"Concelho"`
	Estado          string `json:"EstadoAgrupado"`
	Operacionais    int    `json:"Operacionais"`
	MeiosTerrestres int    `json:"NumeroMeiosTerrestresEnvolvidos"`
	MeiosAereos     int    `json:"NumeroMeiosAereosEnvolvidos"`
}

// Record is one feature of the upstream query response.
type Record struct {
	Attributes Attributes `json:"attributes"`
}

type queryResponse struct {
	Features []Record `json:"features"`
}

// ToIncident resolves the record into the domain model. Records without an
// OBJECTID fail with models.ErrMalformedRecord and are dropped by the caller.
func (r Record) ToIncident() (*models.Incident, error) {
	if r.Attributes.ObjectID == nil {
		return nil, fmt.Errorf("%w: record has no OBJECTID", models.ErrMalformedRecord)
	}
	return &models.Incident{
		ObjectID:        *r.Attributes.ObjectID,
		DataInicio:      r.Attributes.DataInicio,
		Natureza:        r.Attributes.Natureza,
		Concelho:        r.Attributes.Concelho,
		Estado:          models.Status(r.Attributes.Estado),
		Operacionais:    r.Attributes.Operacionais,
		MeiosTerrestres: r.Attributes.MeiosTerrestres,
		MeiosAereos:     r.Attributes.MeiosAereos,
	}, nil
}

// Client pages through the civil-protection ArcGIS feed for one region filter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	where      string
	pageSize   int
	pageDelay  time.Duration
	maxRetries int
	logger     *logrus.Logger
}

func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.FeedTimeout},
		baseURL:    cfg.FeedURL,
		where:      cfg.FeedWhere,
		pageSize:   cfg.FeedPageSize,
		pageDelay:  cfg.FeedPageDelay,
		maxRetries: cfg.FeedRetries,
		logger:     logger,
	}
}

// FetchAll returns every record currently in the feed for the configured
// region. Pagination uses an offset cursor and stops on the first empty page.
// The feed gives no ordering or uniqueness guarantee across pages; duplicates
// are harmless because every downstream write is an idempotent upsert.
func (c *Client) FetchAll(ctx context.Context) ([]Record, error) {
	var records []Record
	offset := 0

	for {
		page, err := c.fetchPage(ctx, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		records = append(records, page...)
		offset += len(page)

		// Polite pause between pages so the upstream does not block us.
		if c.pageDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
			case <-time.After(c.pageDelay):
			}
		}
	}

	return records, nil
}

// fetchPage requests one page, retrying transient failures a bounded number
// of times before giving up on the whole cycle.
func (c *Client) fetchPage(ctx context.Context, offset int) ([]Record, error) {
	log := c.logger.WithFields(logrus.Fields{
		"component": "feed",
		"offset":    offset,
	})

	var lastErr error
	delay := 500 * time.Millisecond

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			log.WithError(lastErr).Warnf("Retrying feed page in %v. Retries left: %d", delay, c.maxRetries-attempt)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrFetch, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		page, err := c.doRequest(ctx, offset)
		if err == nil {
			return page, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: page at offset %d after %d attempts: %v", ErrFetch, offset, c.maxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, offset int) ([]Record, error) {
	params := url.Values{}
	params.Set("where", c.where)
	params.Set("outFields", outFields)
	params.Set("returnGeometry", "false")
	params.Set("f", "json")
	params.Set("resultRecordCount", strconv.Itoa(c.pageSize))
	params.Set("resultOffset", strconv.Itoa(offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ocorrencias-monitor/1.0 (Go)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("feed returned http %d: %s", resp.StatusCode, string(msg))
	}

	var parsed queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}
	return parsed.Features, nil
}
