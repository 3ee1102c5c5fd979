// Package random provides a function that asks random.org for a random
// integer in a range.
package random

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vk/dynplug/pkg/pluginapi"
)

// DefaultEndpoint is the random.org integer generator.
const DefaultEndpoint = "https://www.random.org/integers/"

// Module registers the random function.
type Module struct{}

// Register registers "random" backed by random.org.
func (Module) Register(r pluginapi.Registrar) {
	r.Register("random", New(DefaultEndpoint))
}

// Random fetches one integer from a random.org compatible endpoint per
// call. Failed requests are not retried.
type Random struct {
	Client   *http.Client
	Endpoint string
}

// New returns a Random with its own HTTP client.
func New(endpoint string) *Random {
	return &Random{
		Client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    4,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		Endpoint: endpoint,
	}
}

// Help implements pluginapi.Helper.
func (r *Random) Help() string {
	return "random([[min,] max]) returns a random integer in [min, max]; min defaults to 0, max to 100"
}

// Call implements pluginapi.Function.
func (r *Random) Call(args []float64) (float64, error) {
	bounds, err := parseArgs(args)
	if err != nil {
		return 0, err
	}
	return r.fetch(bounds)
}

type bounds struct {
	min int
	max int
}

func parseArgs(args []float64) (bounds, error) {
	switch len(args) {
	case 0:
		return bounds{min: 0, max: 100}, nil
	case 1:
		return bounds{min: 0, max: round(args[0])}, nil
	case 2:
		return bounds{min: round(args[0]), max: round(args[1])}, nil
	default:
		return bounds{}, pluginapi.Errorf("0, 1, or 2 arguments are required")
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func (r *Random) requestURL(b bounds) (string, error) {
	u, err := url.Parse(r.Endpoint)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("num", "1")
	q.Set("min", strconv.Itoa(b.min))
	q.Set("max", strconv.Itoa(b.max))
	q.Set("col", "1")
	q.Set("base", "10")
	q.Set("format", "plain")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *Random) fetch(b bounds) (float64, error) {
	target, err := r.requestURL(b)
	if err != nil {
		return 0, pluginapi.Errorf("invalid endpoint: %v", err)
	}

	resp, err := r.Client.Get(target)
	if err != nil {
		return 0, pluginapi.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return 0, pluginapi.Errorf("reading response: %v", err)
	}
	text := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK {
		return 0, pluginapi.Errorf("%s: %s", resp.Status, text)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, pluginapi.Errorf("unexpected response %q: %v", text, err)
	}
	return v, nil
}

// String describes the endpoint, for logs.
func (r *Random) String() string {
	return fmt.Sprintf("random(%s)", r.Endpoint)
}
