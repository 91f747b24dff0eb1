// Package maps talks to the external geocoding and route optimization provider.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loro/backend/internal/domain/route"
	"github.com/loro/backend/internal/domain/shared/valueobject"
	"github.com/loro/backend/internal/infrastructure/config"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	operationGeocode  = "geocode"
	operationOptimize = "optimize"
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// CallRecorder observes provider calls
type CallRecorder interface {
	ExternalCall(operation string, err error, duration time.Duration)
}

// Client implements route.Geocoder and route.Optimizer over HTTP. Each
// endpoint has its own circuit breaker. The client never retries on its own.
type Client struct {
	http     *resty.Client
	apiKey   string
	geocode  *gobreaker.CircuitBreaker[valueobject.Coordinates]
	optimize *gobreaker.CircuitBreaker[*route.Optimization]
	recorder CallRecorder
	logger   *zap.Logger
}

// Option configures the client
type Option func(*Client)

// WithRecorder reports every call to r
func WithRecorder(r CallRecorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient creates a maps provider client
func NewClient(cfg config.MapsConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	c := &Client{
		http:   hc,
		apiKey: cfg.APIKey,
		logger: logger.Named("maps"),
	}
	c.geocode = gobreaker.NewCircuitBreaker[valueobject.Coordinates](c.breakerSettings("maps-geocode", cfg))
	c.optimize = gobreaker.NewCircuitBreaker[*route.Optimization](c.breakerSettings("maps-optimize", cfg))

	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) breakerSettings(name string, cfg config.MapsConfig) gobreaker.Settings {
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openFor := cfg.BreakerTimeout
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// An unknown address is an answer, not a provider failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, route.ErrAddressNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l latLng) coordinates() valueobject.Coordinates {
	return valueobject.Coordinates{Lat: l.Lat, Lng: l.Lng}
}

func toLatLng(c valueobject.Coordinates) latLng {
	return latLng{Lat: c.Lat, Lng: c.Lng}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location latLng `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves address to coordinates. A zero-result answer returns
// route.ErrAddressNotFound.
func (c *Client) Geocode(ctx context.Context, address string) (valueobject.Coordinates, error) {
	start := time.Now()
	loc, err := c.geocode.Execute(func() (valueobject.Coordinates, error) {
		return c.doGeocode(ctx, address)
	})
	c.record(operationGeocode, err, time.Since(start))
	return loc, err
}

func (c *Client) doGeocode(ctx context.Context, address string) (valueobject.Coordinates, error) {
	var body geocodeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"address": address, "key": c.apiKey}).
		SetResult(&body).
		Get("/geocode/json")
	if err != nil {
		return valueobject.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	if resp.IsError() {
		return valueobject.Coordinates{}, fmt.Errorf("geocode: unexpected HTTP status %d", resp.StatusCode())
	}

	switch body.Status {
	case statusOK:
	case statusZeroResults:
		return valueobject.Coordinates{}, fmt.Errorf("%w: %q", route.ErrAddressNotFound, address)
	default:
		return valueobject.Coordinates{}, fmt.Errorf("geocode: provider status %s %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return valueobject.Coordinates{}, fmt.Errorf("%w: %q", route.ErrAddressNotFound, address)
	}
	return body.Results[0].Geometry.Location.coordinates(), nil
}

type optimizeRequest struct {
	Origin        latLng   `json:"origin"`
	Destinations  []latLng `json:"destinations"`
	OptimizeOrder bool     `json:"optimize_order"`
}

type optimizeResponse struct {
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
	VisitingOrder []int  `json:"visiting_order"`
	Legs          []struct {
		DistanceMeters  int    `json:"distance_meters"`
		DurationSeconds int    `json:"duration_seconds"`
		Start           latLng `json:"start"`
		End             latLng `json:"end"`
	} `json:"legs"`
	TotalDistanceMeters  int `json:"total_distance_meters"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
}

// Optimize asks the provider for the best visiting order from origin
func (c *Client) Optimize(ctx context.Context, origin valueobject.Coordinates, destinations []valueobject.Coordinates) (*route.Optimization, error) {
	start := time.Now()
	opt, err := c.optimize.Execute(func() (*route.Optimization, error) {
		return c.doOptimize(ctx, origin, destinations)
	})
	c.record(operationOptimize, err, time.Since(start))
	return opt, err
}

func (c *Client) doOptimize(ctx context.Context, origin valueobject.Coordinates, destinations []valueobject.Coordinates) (*route.Optimization, error) {
	req := optimizeRequest{
		Origin:        toLatLng(origin),
		Destinations:  make([]latLng, len(destinations)),
		OptimizeOrder: true,
	}
	for i, d := range destinations {
		req.Destinations[i] = toLatLng(d)
	}

	var body optimizeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&body).
		Post("/routes/optimize")
	if err != nil {
		return nil, fmt.Errorf("optimize request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("optimize: unexpected HTTP status %d", resp.StatusCode())
	}
	if body.Status != statusOK {
		return nil, fmt.Errorf("optimize: provider status %s %s", body.Status, body.ErrorMessage)
	}

	out := &route.Optimization{
		VisitingOrder:        body.VisitingOrder,
		Legs:                 make([]route.Leg, len(body.Legs)),
		TotalDistanceMeters:  body.TotalDistanceMeters,
		TotalDurationSeconds: body.TotalDurationSeconds,
	}
	for i, l := range body.Legs {
		out.Legs[i] = route.Leg{
			DistanceMeters:  l.DistanceMeters,
			DurationSeconds: l.DurationSeconds,
			Start:           l.Start.coordinates(),
			End:             l.End.coordinates(),
		}
	}
	return out, nil
}

func (c *Client) record(operation string, err error, d time.Duration) {
	if err != nil {
		c.logger.Debug("maps call failed", zap.String("operation", operation), zap.Error(err))
	}
	if c.recorder != nil {
		c.recorder.ExternalCall(operation, err, d)
	}
}

var (
	_ route.Geocoder  = (*Client)(nil)
	_ route.Optimizer = (*Client)(nil)
)
