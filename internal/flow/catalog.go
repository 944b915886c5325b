// Package flow drives multi-step user journeys and synthesizes the HTTP
// events they produce.
package flow

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StatusWeight is one entry of a weighted status-code table.
type StatusWeight struct {
	Status int     `yaml:"status"`
	Weight float64 `yaml:"weight"`
}

// StepSpec is one step of a journey: the request it fabricates and the
// status distribution it draws from. ErrorProbability decides success vs
// error independently per event; the error table lets a step bias toward
// specific codes (payment steps favor 402/500, product lookups favor 404).
type StepSpec struct {
	Method           string         `yaml:"method"`
	URLPattern       string         `yaml:"url"`
	SuccessWeights   []StatusWeight `yaml:"success_weights"`
	ErrorWeights     []StatusWeight `yaml:"error_weights,omitempty"`
	ErrorProbability float64        `yaml:"error_probability,omitempty"`
}

// Definition is a named journey: an ordered step table plus its selection
// weight within the catalog.
type Definition struct {
	Name   string     `yaml:"name"`
	Weight float64    `yaml:"weight"`
	Steps  []StepSpec `yaml:"steps"`
}

// Validate rejects definitions the engine cannot run.
func (d Definition) Validate() error {
	if d.Name == "" {
		return errors.New("flow: definition missing name")
	}
	if d.Weight <= 0 {
		return fmt.Errorf("flow: %s has non-positive weight %v", d.Name, d.Weight)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("flow: %s has no steps", d.Name)
	}
	for i, s := range d.Steps {
		if s.Method == "" || s.URLPattern == "" {
			return fmt.Errorf("flow: %s step %d missing method or url", d.Name, i)
		}
		if !strings.HasPrefix(s.URLPattern, "/") {
			return fmt.Errorf("flow: %s step %d url %q must start with /", d.Name, i, s.URLPattern)
		}
		if s.ErrorProbability < 0 || s.ErrorProbability > 1 {
			return fmt.Errorf("flow: %s step %d error probability %v out of range", d.Name, i, s.ErrorProbability)
		}
		if len(s.SuccessWeights) == 0 {
			return fmt.Errorf("flow: %s step %d has no success weights", d.Name, i)
		}
		if s.ErrorProbability > 0 && len(s.ErrorWeights) == 0 {
			return fmt.Errorf("flow: %s step %d can error but has no error weights", d.Name, i)
		}
	}
	return nil
}

// LoadDefinitions reads a journey catalog from a YAML file, replacing the
// built-in one. Each definition is validated before use.
func LoadDefinitions(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("flow: open definitions: %w", err)
	}
	defer f.Close()
	var doc struct {
		Flows []Definition `yaml:"flows"`
	}
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("flow: decode definitions: %w", err)
	}
	if len(doc.Flows) == 0 {
		return nil, errors.New("flow: definitions file has no flows")
	}
	for _, d := range doc.Flows {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Flows, nil
}

var defaultSuccess = []StatusWeight{{200, 85}, {201, 10}, {204, 5}}

var pageSuccess = []StatusWeight{{200, 95}, {301, 5}}

// anonymousErrors mirrors how unauthenticated traffic fails in the wild:
// mostly auth and bad-input rejections.
var anonymousErrors = []StatusWeight{
	{400, 8}, {401, 10}, {403, 5}, {404, 6}, {429, 1}, {500, 1}, {503, 1},
}

// overloadStatuses is the distribution used for events generated inside an
// overload window: rate limiting and random-path 404s dominate.
var overloadStatuses = []StatusWeight{
	{200, 15}, {400, 10}, {401, 5}, {403, 15}, {404, 30}, {429, 20}, {500, 3}, {503, 2},
}

// Catalog returns the closed set of journey definitions. Checkout carries a
// markedly higher error probability on its payment step than any browse
// step, and its error table favors 402/500.
func Catalog() []Definition {
	return []Definition{
		{
			Name:   "login",
			Weight: 15,
			Steps: []StepSpec{
				{Method: "GET", URLPattern: "/login", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{404, 3}, {500, 2}}, ErrorProbability: 0.03},
				{Method: "POST", URLPattern: "/login", SuccessWeights: defaultSuccess,
					ErrorWeights:     []StatusWeight{{400, 15}, {401, 10}, {429, 3}, {500, 2}},
					ErrorProbability: 0.20},
			},
		},
		{
			Name:   "browse",
			Weight: 30,
			Steps: []StepSpec{
				{Method: "GET", URLPattern: "/", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{500, 3}, {503, 2}}, ErrorProbability: 0.02},
				{Method: "GET", URLPattern: "/products", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{404, 10}, {500, 3}, {503, 2}}, ErrorProbability: 0.05},
				{Method: "GET", URLPattern: "/products/:product_id", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{404, 10}, {500, 3}, {503, 2}}, ErrorProbability: 0.08},
				{Method: "POST", URLPattern: "/add_to_cart", SuccessWeights: defaultSuccess,
					ErrorWeights:     []StatusWeight{{400, 8}, {404, 5}, {409, 5}, {500, 2}},
					ErrorProbability: 0.10},
				{Method: "GET", URLPattern: "/cart", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{400, 5}, {404, 5}, {410, 3}, {500, 2}}, ErrorProbability: 0.08},
			},
		},
		{
			Name:   "browse_only",
			Weight: 25,
			Steps: []StepSpec{
				{Method: "GET", URLPattern: "/", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{500, 3}, {503, 2}}, ErrorProbability: 0.02},
				{Method: "GET", URLPattern: "/products", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{404, 10}, {500, 3}, {503, 2}}, ErrorProbability: 0.05},
				{Method: "GET", URLPattern: "/products/:product_id", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{404, 10}, {500, 3}, {503, 2}}, ErrorProbability: 0.08},
			},
		},
		{
			Name:   "checkout",
			Weight: 20,
			Steps: []StepSpec{
				{Method: "GET", URLPattern: "/cart", SuccessWeights: pageSuccess,
					ErrorWeights: []StatusWeight{{400, 5}, {404, 5}, {410, 3}, {500, 2}}, ErrorProbability: 0.08},
				{Method: "POST", URLPattern: "/checkout", SuccessWeights: defaultSuccess,
					ErrorWeights:     []StatusWeight{{400, 15}, {402, 8}, {500, 7}, {503, 5}},
					ErrorProbability: 0.30},
				{Method: "GET", URLPattern: "/order/:order_id", SuccessWeights: pageSuccess,
					ErrorWeights:     []StatusWeight{{400, 10}, {403, 5}, {404, 8}, {500, 2}},
					ErrorProbability: 0.15},
			},
		},
		{
			Name:   "check_order_status",
			Weight: 10,
			Steps: []StepSpec{
				{Method: "POST", URLPattern: "/login", SuccessWeights: defaultSuccess,
					ErrorWeights:     []StatusWeight{{400, 15}, {401, 10}, {429, 3}, {500, 2}},
					ErrorProbability: 0.20},
				{Method: "GET", URLPattern: "/order/:order_id", SuccessWeights: pageSuccess,
					ErrorWeights:     []StatusWeight{{400, 10}, {403, 5}, {404, 8}, {500, 2}},
					ErrorProbability: 0.15},
			},
		},
	}
}
