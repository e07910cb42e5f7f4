package model

import (
	"testing"

	"github.com/HelenLiGit/POT/pkg/errors"
)

// kernelConfig is a leaf estimator configuration with explicit parameters.
type kernelConfig struct {
	Sigma  float64
	Metric string
}

func (k *kernelConfig) GetParams(deep bool) Params {
	return Params{
		"sigma":  k.Sigma,
		"metric": k.Metric,
	}
}

func (k *kernelConfig) SetParam(name string, value interface{}) error {
	switch name {
	case "sigma":
		v, ok := value.(float64)
		if !ok {
			return errors.NewValidationError(name, "must be a float64", value)
		}
		k.Sigma = v
	case "metric":
		v, ok := value.(string)
		if !ok {
			return errors.NewValidationError(name, "must be a string", value)
		}
		k.Metric = v
	default:
		return errors.NewValidationError(name, "unknown parameter", value)
	}
	return nil
}

// transportConfig nests a kernelConfig, exercising the component__param rule.
type transportConfig struct {
	Reg    float64
	Kernel *kernelConfig
}

func (c *transportConfig) GetParams(deep bool) Params {
	shallow := Params{
		"reg":    c.Reg,
		"kernel": c.Kernel,
	}
	if deep {
		return ExpandNested(shallow)
	}
	return shallow
}

func (c *transportConfig) SetParam(name string, value interface{}) error {
	switch name {
	case "reg":
		v, ok := value.(float64)
		if !ok {
			return errors.NewValidationError(name, "must be a float64", value)
		}
		c.Reg = v
	case "kernel":
		v, ok := value.(*kernelConfig)
		if !ok {
			return errors.NewValidationError(name, "must be a *kernelConfig", value)
		}
		c.Kernel = v
	default:
		return errors.NewValidationError(name, "unknown parameter", value)
	}
	return nil
}

func newTransportConfig() *transportConfig {
	return &transportConfig{
		Reg:    1.0,
		Kernel: &kernelConfig{Sigma: 1.0, Metric: "sqeuclidean"},
	}
}

func TestGetParams_Shallow(t *testing.T) {
	c := newTransportConfig()
	params := c.GetParams(false)

	if params["reg"] != 1.0 {
		t.Errorf(`params["reg"] = %v, want 1.0`, params["reg"])
	}
	if params["kernel"] != c.Kernel {
		t.Error(`params["kernel"] does not reference the nested config`)
	}
	if _, ok := params["kernel__sigma"]; ok {
		t.Error("shallow params must not contain nested keys")
	}
}

func TestGetParams_DeepExpandsNested(t *testing.T) {
	c := newTransportConfig()
	params := c.GetParams(true)

	if got := params["kernel__sigma"]; got != 1.0 {
		t.Errorf(`params["kernel__sigma"] = %v, want 1.0`, got)
	}
	if got := params["kernel__metric"]; got != "sqeuclidean" {
		t.Errorf(`params["kernel__metric"] = %v, want "sqeuclidean"`, got)
	}
	// Top-level entries are preserved alongside the expansion.
	if params["reg"] != 1.0 {
		t.Errorf(`params["reg"] = %v, want 1.0`, params["reg"])
	}
}

func TestSetParams_Simple(t *testing.T) {
	c := newTransportConfig()
	if err := SetParams(c, Params{"reg": 0.5}); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if c.Reg != 0.5 {
		t.Errorf("Reg = %v, want 0.5", c.Reg)
	}
}

func TestSetParams_Nested(t *testing.T) {
	c := newTransportConfig()
	err := SetParams(c, Params{
		"kernel__sigma":  2.0,
		"kernel__metric": "cityblock",
		"reg":            0.1,
	})
	if err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if c.Kernel.Sigma != 2.0 {
		t.Errorf("Kernel.Sigma = %v, want 2.0", c.Kernel.Sigma)
	}
	if c.Kernel.Metric != "cityblock" {
		t.Errorf("Kernel.Metric = %v, want cityblock", c.Kernel.Metric)
	}
	if c.Reg != 0.1 {
		t.Errorf("Reg = %v, want 0.1", c.Reg)
	}
}

func TestSetParams_InvalidNames(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "unknown top-level", params: Params{"gamma": 1.0}},
		{name: "unknown nested component", params: Params{"solver__tol": 1.0}},
		{name: "nested key on scalar param", params: Params{"reg__sub": 1.0}},
		{name: "unknown nested param", params: Params{"kernel__gamma": 1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTransportConfig()
			err := SetParams(c, tt.params)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var validationErr *errors.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("error %v is not a *ValidationError", err)
			}
		})
	}
}

func TestSetParams_Empty(t *testing.T) {
	c := newTransportConfig()
	if err := SetParams(c, nil); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
}

func TestBaseEstimator_FittedState(t *testing.T) {
	var e BaseEstimator
	if e.IsFitted() {
		t.Error("new estimator reports fitted")
	}
	e.SetFitted()
	if !e.IsFitted() {
		t.Error("estimator not fitted after SetFitted")
	}
	e.Reset()
	if e.IsFitted() {
		t.Error("estimator still fitted after Reset")
	}
}
